package ulora

import (
	"github.com/ecc1/gpio"
	"github.com/ecc1/spi"
)

const spiSpeed = 5000000 // Hz

// spiBus adapts a Linux spidev device to the SerialBus capability.
type spiBus struct {
	device *spi.Device
}

func (b spiBus) Transfer(address, value byte) (byte, error) {
	buf := []byte{address, value}
	if err := b.device.Transfer(buf, buf); err != nil {
		return 0, err
	}
	return buf[1], nil
}

// gpioPin adapts a sysfs GPIO output to the DigitalPin capability.
type gpioPin struct {
	pin gpio.OutputPin
}

func (p gpioPin) Set(high bool) error {
	return p.pin.Write(high)
}

// Open opens the radio on the spidev device and GPIO pins named in the
// per-arch configuration file, using the default parameters. The returned
// handle carries any failure; check Error before use.
func Open() *Radio {
	device, err := spi.Open(spiDevice, spiSpeed, 0)
	if err != nil {
		return &Radio{err: err}
	}
	ss, err := gpio.Output(ssPin, false, true)
	if err != nil {
		return &Radio{err: err}
	}
	reset, err := gpio.Output(resetPin, false, true)
	if err != nil {
		return &Radio{err: err}
	}
	pins := Pins{SS: gpioPin{ss}, Reset: gpioPin{reset}}
	return New(spiBus{device}, pins, nil)
}
