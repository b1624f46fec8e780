package ulora

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/ecc1/radio"
)

const (
	resetPulse = 100 * time.Millisecond

	verbose    = false
	verboseSPI = false
)

func init() {
	if verbose || verboseSPI {
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.LUTC)
	}
}

// ErrNotDetected is recorded in the handle when the version register never
// returns the expected identification byte during construction.
var ErrNotDetected = errors.New("SX127x not detected")

// SerialBus is the 4-wire synchronous bus capability. Transfer exchanges an
// address byte followed by a data byte and returns the byte clocked out
// during the data phase. Chip select is managed by the caller.
type SerialBus interface {
	Transfer(address, value byte) (byte, error)
}

// DigitalPin is a host GPIO output capability.
type DigitalPin interface {
	Set(high bool) error
}

// Clock provides elapsed-time queries and delays.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// Pins maps the radio's control lines to host pins. SS is required;
// Reset and DIO0 are optional. DIO0 is kept for hosts that wire it but is
// never read by this polling driver.
type Pins struct {
	SS    DigitalPin
	Reset DigitalPin
	DIO0  DigitalPin
}

// Parameters holds the radio configuration in physical units.
// Out-of-range values are clamped to the hardware ranges when written,
// never rejected, mirroring the chip's own saturation behavior.
type Parameters struct {
	Frequency       uint32 // carrier frequency in Hz
	FrequencyOffset int32  // calibration offset in Hz, added before encoding
	TxPowerLevel    int    // dBm
	SignalBandwidth uint32 // Hz, or a direct bin index when below 10
	SpreadingFactor int    // 6..12
	CodingRate      int    // denominator, 5..8
	PreambleLength  uint16 // symbols
	ImplicitHeader  bool
	SyncWord        byte
	EnableCRC       bool
	InvertIQ        bool
}

// DefaultParameters is the documented default configuration. Callers wanting
// overrides copy it, change the fields they care about, and pass the result
// to New.
var DefaultParameters = Parameters{
	Frequency:       433000000,
	FrequencyOffset: 0,
	TxPowerLevel:    10,
	SignalBandwidth: 125000,
	SpreadingFactor: 9,
	CodingRate:      5,
	PreambleLength:  8,
	ImplicitHeader:  false,
	SyncWord:        0x12,
	EnableCRC:       true,
	InvertIQ:        false,
}

// headerState caches the implicit-header bit so repeated identical writes
// can be skipped (repeated writes mid-transmission disturb the chip).
type headerState int8

const (
	headerUnknown headerState = iota
	headerExplicit
	headerImplicit
)

// Radio represents an SX127x LoRa transceiver. It is the sole owner of the
// bus and the chip-select line; callers in a multi-threaded host must
// serialize access themselves.
type Radio struct {
	bus    SerialBus
	pins   Pins
	clock  Clock
	params Parameters

	headerMode headerState
	txPending  int

	stats radio.Statistics
	err   error
}

// New opens a radio over the given bus and pins. params may be nil to use
// DefaultParameters. The returned handle carries any construction failure;
// check Error before use.
func New(bus SerialBus, pins Pins, params *Parameters) *Radio {
	return newRadio(bus, pins, params, systemClock{})
}

func newRadio(bus SerialBus, pins Pins, params *Parameters, clock Clock) *Radio {
	p := DefaultParameters
	if params != nil {
		p = *params
	}
	r := &Radio{bus: bus, pins: pins, clock: clock, params: p}
	if pins.SS == nil {
		r.err = errors.New("chip-select pin is required")
		return r
	}
	r.err = pins.SS.Set(true)
	if pins.Reset != nil {
		r.Reset()
	}
	version := r.probeVersion()
	if r.err != nil {
		return r
	}
	if version != versionID {
		r.err = fmt.Errorf("%w: version register %#02x, want %#02x", ErrNotDetected, version, versionID)
		return r
	}
	r.Sleep()
	r.SetFrequency(p.Frequency)
	r.SetSignalBandwidth(p.SignalBandwidth)
	// LNA boost and automatic gain control.
	r.writeRegister(RegLna, r.readRegister(RegLna)|0x03)
	r.writeRegister(RegModemConfig3, 0x04)
	r.SetTxPower(p.TxPowerLevel)
	r.SetImplicitHeader(p.ImplicitHeader)
	r.SetSpreadingFactor(p.SpreadingFactor)
	r.SetCodingRate(p.CodingRate)
	r.SetPreambleLength(p.PreambleLength)
	r.SetSyncWord(p.SyncWord)
	r.EnableCRC(p.EnableCRC)
	r.InvertIQ(p.InvertIQ)
	r.UpdateLowDataRate()
	r.writeRegister(RegFifoTxBaseAddr, fifoTxBaseAddr)
	r.writeRegister(RegFifoRxBaseAddr, fifoRxBaseAddr)
	r.Standby()
	return r
}

// probeVersion polls the version register up to 5 times, returning the
// first value matching the chip identification byte, or the last value
// read.
func (r *Radio) probeVersion() byte {
	var version byte
	for i := 0; i < 5; i++ {
		version = r.readRegister(RegVersion)
		if version == versionID || r.err != nil {
			break
		}
	}
	if verbose {
		log.Printf("version register %#02x", version)
	}
	return version
}

// Reset performs a hardware reset pulse on the reset pin, if one is
// configured.
func (r *Radio) Reset() {
	if r.pins.Reset == nil || r.err != nil {
		return
	}
	if err := r.pins.Reset.Set(false); err != nil {
		r.err = err
		return
	}
	r.clock.Sleep(resetPulse)
	r.err = r.pins.Reset.Set(true)
	r.clock.Sleep(resetPulse)
}

// Name returns the radio's name.
func (r *Radio) Name() string {
	return "SX127x"
}

// Version returns the contents of the version register.
func (r *Radio) Version() byte {
	return r.readRegister(RegVersion)
}

// Parameters returns the current configuration snapshot.
func (r *Radio) Parameters() Parameters {
	return r.params
}

// Statistics returns the byte and packet counts for the radio device.
func (r *Radio) Statistics() radio.Statistics {
	return r.stats
}

// Error returns the error state of the radio device. Once a transport
// failure is recorded, subsequent operations are no-ops.
func (r *Radio) Error() error {
	return r.err
}

// SetError sets the error state of the radio device.
func (r *Radio) SetError(err error) {
	r.err = err
}

// transfer performs one register transaction: chip select asserted,
// address phase, data phase, chip select released. Chip select is never
// released between the two phases.
func (r *Radio) transfer(address, value byte) byte {
	if r.err != nil {
		return 0
	}
	if r.err = r.pins.SS.Set(false); r.err != nil {
		return 0
	}
	response, err := r.bus.Transfer(address, value)
	if e := r.pins.SS.Set(true); err == nil {
		err = e
	}
	if err != nil {
		r.err = err
		return 0
	}
	if verboseSPI {
		log.Printf("xfer %02X %02X -> %02X", address, value, response)
	}
	return response
}

func (r *Radio) readRegister(addr byte) byte {
	return r.transfer(addr&0x7F, 0)
}

func (r *Radio) writeRegister(addr byte, value byte) {
	r.transfer(addr|0x80, value)
}

// DumpRegisters writes the raw contents of the first 128 registers to w,
// four per line, for diagnostics.
func (r *Radio) DumpRegisters(w io.Writer) {
	for i := 0; i < 128; i++ {
		fmt.Fprintf(w, "0x%02X: %02X", i, r.readRegister(byte(i)))
		if (i+1)%4 == 0 {
			fmt.Fprintln(w)
		} else {
			fmt.Fprint(w, " | ")
		}
	}
}
