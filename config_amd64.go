package ulora

// Configuration for Intel Edison with an SX127x module on the expansion bus.

const (
	spiDevice = "/dev/spidev5.1"
	ssPin     = 110
	resetPin  = 14
	dio0Pin   = 15
)
