package ulora

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// periphBus adapts a periph.io SPI connection to the SerialBus capability.
type periphBus struct {
	conn spi.Conn
}

func (b periphBus) Transfer(address, value byte) (byte, error) {
	write := []byte{address, value}
	read := make([]byte, 2)
	if err := b.conn.Tx(write, read); err != nil {
		return 0, err
	}
	return read[1], nil
}

// periphPin adapts a periph.io GPIO to the DigitalPin capability.
type periphPin struct {
	pin gpio.PinIO
}

func (p periphPin) Set(high bool) error {
	return p.pin.Out(gpio.Level(high))
}

// OpenPeriph opens the radio through the periph.io host drivers. port
// selects the SPI port ("" for the first available); ssName names the
// chip-select pin; resetName may be empty when no reset line is wired.
// params may be nil to use DefaultParameters.
func OpenPeriph(port, ssName, resetName string, params *Parameters) (*Radio, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	p, err := spireg.Open(port)
	if err != nil {
		return nil, err
	}
	conn, err := p.Connect(spiSpeed*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		p.Close()
		return nil, err
	}
	pins := Pins{}
	ss := gpioreg.ByName(ssName)
	if ss == nil {
		p.Close()
		return nil, fmt.Errorf("no GPIO pin named %q", ssName)
	}
	pins.SS = periphPin{ss}
	if resetName != "" {
		reset := gpioreg.ByName(resetName)
		if reset == nil {
			p.Close()
			return nil, fmt.Errorf("no GPIO pin named %q", resetName)
		}
		pins.Reset = periphPin{reset}
	}
	r := New(periphBus{conn}, pins, params)
	return r, r.Error()
}
