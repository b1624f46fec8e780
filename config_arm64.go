package ulora

// Configuration for Raspberry Pi with an SX127x module on SPI0.

const (
	spiDevice = "/dev/spidev0.0"
	ssPin     = 25
	resetPin  = 22
	dio0Pin   = 27
)
