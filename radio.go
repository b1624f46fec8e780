package ulora

import (
	"log"
	"time"
)

// HeaderMode optionally overrides the configured header mode for one
// transmission.
type HeaderMode uint8

const (
	// HeaderCurrent keeps whatever header mode is configured.
	HeaderCurrent HeaderMode = iota
	// HeaderExplicit advertises the payload length in an over-the-air header.
	HeaderExplicit
	// HeaderImplicit transmits no header; the length is pre-agreed.
	HeaderImplicit
)

// Sleep puts the chip into sleep mode. Required for some configuration
// changes; entered once during construction.
func (r *Radio) Sleep() {
	r.writeRegister(RegOpMode, ModeLongRange|ModeSleep)
}

// Standby puts the chip into standby mode. All mode transitions go through
// standby.
func (r *Radio) Standby() {
	r.writeRegister(RegOpMode, ModeLongRange|ModeStdby)
}

// BeginPacket prepares the chip for a transmission: standby, optional
// header-mode override, FIFO write pointer to the TX base, payload length
// zeroed.
func (r *Radio) BeginPacket(header HeaderMode) {
	r.Standby()
	if header != HeaderCurrent {
		r.SetImplicitHeader(header == HeaderImplicit)
	}
	r.writeRegister(RegFifoAddrPtr, fifoTxBaseAddr)
	r.writeRegister(RegPayloadLength, 0)
	r.txPending = 0
}

// Write appends buffer to the chip FIFO inside a BeginPacket/EndPacket
// bracket and updates the payload length register. The total is clamped to
// the 255-byte FIFO limit; the number of bytes actually accepted is
// returned.
func (r *Radio) Write(buffer []byte) int {
	current := int(r.readRegister(RegPayloadLength))
	size := len(buffer)
	if max := maxPacketLength - fifoTxBaseAddr - current; size > max {
		size = max
	}
	for i := 0; i < size; i++ {
		r.writeRegister(RegFifo, buffer[i])
	}
	r.writeRegister(RegPayloadLength, byte(current+size))
	if r.err != nil {
		return 0
	}
	r.txPending = current + size
	return size
}

// EndPacket transmits the staged packet repeat times (at least once). Each
// repetition switches to transmit mode, busy-polls the IRQ flags until the
// TX-done bit latches, then clears it. The wait has no timeout: against a
// dead or miswired chip it blocks forever unless the caller imposes an
// external watchdog.
func (r *Radio) EndPacket(repeat int) {
	if repeat < 1 {
		repeat = 1
	}
	for i := 0; i < repeat && r.err == nil; i++ {
		r.writeRegister(RegOpMode, ModeLongRange|ModeTx)
		for r.err == nil && r.readRegister(RegIrqFlags)&IrqTxDoneMask == 0 {
		}
		r.writeRegister(RegIrqFlags, IrqTxDoneMask)
		if r.err == nil {
			r.stats.Packets.Sent++
			r.stats.Bytes.Sent += r.txPending
		}
	}
}

// SendText transmits a text message, optionally overriding the header mode,
// repeat times.
func (r *Radio) SendText(text string, header HeaderMode, repeat int) {
	if verbose {
		log.Printf("sending %d-byte message", len(text))
	}
	r.BeginPacket(header)
	r.Write([]byte(text))
	r.EndPacket(repeat)
}

// Receive puts the chip into continuous receive mode. A size above zero
// selects implicit header mode with that expected payload length.
func (r *Radio) Receive(size int) {
	r.SetImplicitHeader(size > 0)
	if size > 0 {
		r.writeRegister(RegPayloadLength, byte(size))
	}
	r.writeRegister(RegOpMode, ModeLongRange|ModeRxContinuous)
}

// Listen enters receive mode and polls for an incoming packet until one
// arrives or timeout elapses on the monotonic clock. It returns the decoded
// payload, or nil on timeout. The timeout is advisory: it is checked
// between poll iterations only.
func (r *Radio) Listen(timeout time.Duration) []byte {
	r.Receive(0)
	start := r.clock.Now()
	for r.err == nil {
		if r.ReceivedPacket(0) {
			return r.ReadPayload()
		}
		if r.clock.Now().Sub(start) > timeout {
			if verbose {
				log.Printf("receive timeout")
			}
			return nil
		}
	}
	return nil
}

// ReceivedPacket reads and clears the IRQ flags and reports whether a
// packet has finished arriving. When none has and the chip is not already
// in single receive mode, it resets the FIFO read pointer and re-arms
// single-shot receive, trading poll latency for power.
func (r *Radio) ReceivedPacket(size int) bool {
	flags := r.irqFlags()
	r.SetImplicitHeader(size > 0)
	if size > 0 {
		r.writeRegister(RegPayloadLength, byte(size))
	}
	if flags&IrqRxDoneMask != 0 {
		return r.err == nil
	}
	if r.readRegister(RegOpMode) != ModeLongRange|ModeRxSingle {
		r.writeRegister(RegFifoAddrPtr, fifoRxBaseAddr)
		r.writeRegister(RegOpMode, ModeLongRange|ModeRxSingle)
	}
	return false
}

// ReadPayload reads the most recently received packet out of the FIFO.
// The length comes from the payload-length register in implicit header
// mode and from the received-byte-count register otherwise.
func (r *Radio) ReadPayload() []byte {
	r.writeRegister(RegFifoAddrPtr, r.readRegister(RegFifoRxCurrentAddr))
	var length byte
	if r.headerMode == headerImplicit {
		length = r.readRegister(RegPayloadLength)
	} else {
		length = r.readRegister(RegRxNbBytes)
	}
	payload := make([]byte, 0, length)
	for i := 0; i < int(length); i++ {
		payload = append(payload, r.readRegister(RegFifo))
	}
	if r.err != nil {
		return nil
	}
	r.stats.Packets.Received++
	r.stats.Bytes.Received += len(payload)
	if verbose {
		log.Printf("received %d-byte message % X", len(payload), payload)
	}
	return payload
}

// irqFlags reads the IRQ flags register and clears the latched bits by
// writing them back.
func (r *Radio) irqFlags() byte {
	flags := r.readRegister(RegIrqFlags)
	r.writeRegister(RegIrqFlags, flags)
	return flags
}

// RSSI offsets per the datasheet, section 5.5.5.
const (
	rssiOffsetHF = 157
	rssiOffsetLF = 164
)

// PacketRSSI returns the RSSI of the last received packet in dBm.
// highBand selects the offset for operation above 779 MHz.
func (r *Radio) PacketRSSI(highBand bool) int {
	rssi := int(r.readRegister(RegPktRssiValue))
	if highBand {
		return rssi - rssiOffsetHF
	}
	return rssi - rssiOffsetLF
}

// PacketSNR returns the signal-to-noise ratio of the last received packet
// in dB. The register holds quarter-dB units in two's complement.
func (r *Radio) PacketSNR() float64 {
	return float64(int8(r.readRegister(RegPktSnrValue))) * 0.25
}
