package ulora

import (
	"errors"
	"time"
)

var errSimBus = errors.New("simulated bus failure")

// simChip emulates an SX127x register file behind the SerialBus capability.
// Writes with the address high bit set land in the register file; reads
// return it. The FIFO register and the IRQ flags get the chip's special
// behavior: FIFO reads drain fifoRx, FIFO writes append to fifoTx, IRQ
// flag writes clear the written bits, and IRQ flag reads in transmit mode
// latch TX-done after txPollsNeeded polls.
type simChip struct {
	regs   [128]byte
	reads  map[byte]int
	writes map[byte]int

	fifoTx       []byte
	fifoRx       []byte
	opModeWrites []byte

	versionSeq    []byte // served on version reads before the register value
	txPollsNeeded int
	txPolls       int

	failAfter int // fail all transfers from the nth on (0 = never)
	transfers int
}

func newSimChip() *simChip {
	c := &simChip{
		reads:         make(map[byte]int),
		writes:        make(map[byte]int),
		txPollsNeeded: 3,
	}
	c.regs[RegVersion] = versionID
	return c
}

func (c *simChip) Transfer(address, value byte) (byte, error) {
	c.transfers++
	if c.failAfter > 0 && c.transfers >= c.failAfter {
		return 0, errSimBus
	}
	addr := address & 0x7F
	if address&0x80 != 0 {
		c.write(addr, value)
		return 0, nil
	}
	return c.read(addr), nil
}

func (c *simChip) write(addr, value byte) {
	c.writes[addr]++
	switch addr {
	case RegIrqFlags:
		c.regs[addr] &^= value
	case RegFifo:
		c.fifoTx = append(c.fifoTx, value)
	case RegOpMode:
		c.opModeWrites = append(c.opModeWrites, value)
		c.regs[addr] = value
		if value == ModeLongRange|ModeTx {
			c.txPolls = 0
		}
	default:
		c.regs[addr] = value
	}
}

func (c *simChip) read(addr byte) byte {
	c.reads[addr]++
	switch addr {
	case RegFifo:
		if len(c.fifoRx) == 0 {
			return 0
		}
		b := c.fifoRx[0]
		c.fifoRx = c.fifoRx[1:]
		return b
	case RegIrqFlags:
		if c.regs[RegOpMode] == ModeLongRange|ModeTx {
			c.txPolls++
			if c.txPolls >= c.txPollsNeeded {
				c.regs[RegIrqFlags] |= IrqTxDoneMask
			}
		}
	case RegVersion:
		if len(c.versionSeq) > 0 {
			b := c.versionSeq[0]
			c.versionSeq = c.versionSeq[1:]
			return b
		}
	}
	return c.regs[addr]
}

// opModeWriteCount returns how many times mode was written to RegOpMode.
func (c *simChip) opModeWriteCount(mode byte) int {
	n := 0
	for _, m := range c.opModeWrites {
		if m == mode {
			n++
		}
	}
	return n
}

type fakePin struct {
	level bool
	sets  int
}

func (p *fakePin) Set(high bool) error {
	p.level = high
	p.sets++
	return nil
}

// fakeClock advances step on every Now call so busy-poll loops observe
// time passing, and jumps by the full duration on Sleep.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
}

func testRadio(chip *simChip, params *Parameters, clock Clock) (*Radio, *fakePin) {
	ss := &fakePin{level: true}
	if clock == nil {
		clock = &fakeClock{}
	}
	r := newRadio(chip, Pins{SS: ss}, params, clock)
	return r, ss
}
