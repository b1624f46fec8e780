package ulora

// Configuration setters. Each one updates the in-memory parameter snapshot
// and read-modify-writes the affected register, preserving unrelated
// bit-fields. Out-of-range inputs are clamped, never rejected.

// SetFrequency sets the carrier frequency in Hz. The configured frequency
// offset is added before encoding. The 24-bit register image is
// frf = ((freq + offset) << 19) / FXOSC, truncating, which gives the chip's
// ~61 Hz step resolution.
func (r *Radio) SetFrequency(freq uint32) {
	r.params.Frequency = freq
	f := int64(freq) + int64(r.params.FrequencyOffset)
	if f < 0 {
		f = 0
	}
	frf := (uint64(f) << 19) / FXOSC
	b := marshalUint24(uint32(frf))
	r.writeRegister(RegFrfMsb, b[0])
	r.writeRegister(RegFrfMid, b[1])
	// The PLL latches the new frequency when the LSB is written.
	r.writeRegister(RegFrfLsb, b[2])
}

// Frequency returns the carrier frequency in Hz as currently encoded in the
// FRF registers.
func (r *Radio) Frequency() uint32 {
	f2 := r.readRegister(RegFrfMsb)
	f1 := r.readRegister(RegFrfMid)
	f0 := r.readRegister(RegFrfLsb)
	frf := uint64(f2)<<16 | uint64(f1)<<8 | uint64(f0)
	return uint32(frf * FXOSC >> 19)
}

// SetSignalBandwidth sets the signal bandwidth in Hz, selecting the first
// bin at or above the request. Values below 10 select a bin index directly.
func (r *Radio) SetSignalBandwidth(sbw uint32) {
	r.params.SignalBandwidth = sbw
	index := bandwidthIndex(sbw)
	current := r.readRegister(RegModemConfig1) & 0x0F
	r.writeRegister(RegModemConfig1, current|index<<4)
	r.UpdateLowDataRate()
}

// SetSpreadingFactor sets the spreading factor, clamped to 6..12. SF6
// requires distinct detection-optimize and detection-threshold values
// (chip erratum).
func (r *Radio) SetSpreadingFactor(sf int) {
	sf = clamp(sf, 6, 12)
	r.params.SpreadingFactor = sf
	if sf == 6 {
		r.writeRegister(RegDetectionOptimize, 0xC5)
		r.writeRegister(RegDetectionThreshold, 0x0C)
	} else {
		r.writeRegister(RegDetectionOptimize, 0xC3)
		r.writeRegister(RegDetectionThreshold, 0x0A)
	}
	current := r.readRegister(RegModemConfig2) & 0x0F
	r.writeRegister(RegModemConfig2, current|byte(sf)<<4&0xF0)
	r.UpdateLowDataRate()
}

// SetCodingRate sets the error coding rate denominator, clamped to 5..8.
func (r *Radio) SetCodingRate(denominator int) {
	denominator = clamp(denominator, 5, 8)
	r.params.CodingRate = denominator
	cr := byte(denominator - 4)
	current := r.readRegister(RegModemConfig1) & 0xF1
	r.writeRegister(RegModemConfig1, current|cr<<1)
}

// SetTxPower sets the transmit power in dBm on the PA_BOOST output,
// clamped to 2..17.
func (r *Radio) SetTxPower(level int) {
	r.params.TxPowerLevel = level
	level = clamp(level, 2, 17)
	r.writeRegister(RegPaConfig, paBoost|byte(level-2))
}

// SetTxPowerRFO sets the transmit power in dBm on the RFO output, clamped
// to 0..14.
func (r *Radio) SetTxPowerRFO(level int) {
	r.params.TxPowerLevel = level
	level = clamp(level, 0, 14)
	r.writeRegister(RegPaConfig, 0x70|byte(level))
}

// SetPreambleLength sets the preamble length in symbols.
func (r *Radio) SetPreambleLength(length uint16) {
	r.params.PreambleLength = length
	b := marshalUint16(length)
	r.writeRegister(RegPreambleMsb, b[0])
	r.writeRegister(RegPreambleLsb, b[1])
}

// SetSyncWord sets the synchronization word.
func (r *Radio) SetSyncWord(sw byte) {
	r.params.SyncWord = sw
	r.writeRegister(RegSyncWord, sw)
}

// EnableCRC enables or disables payload CRC generation and checking.
func (r *Radio) EnableCRC(enable bool) {
	r.params.EnableCRC = enable
	current := r.readRegister(RegModemConfig2)
	if enable {
		current |= 0x04
	} else {
		current &^= 0x04
	}
	r.writeRegister(RegModemConfig2, current)
}

// InvertIQ inverts the I and Q signals. The polarity must be complementary
// between communicating peers. The companion InvertIQ2 register takes one
// of two chip-mandated constants depending on direction.
func (r *Radio) InvertIQ(invert bool) {
	r.params.InvertIQ = invert
	current := r.readRegister(RegInvertIQ) & invertIQTxMask & invertIQRxMask
	if invert {
		r.writeRegister(RegInvertIQ, current|invertIQRxOn|invertIQTxOn)
		r.writeRegister(RegInvertIQ2, invertIQ2On)
	} else {
		r.writeRegister(RegInvertIQ, current|invertIQRxOff|invertIQTxOff)
		r.writeRegister(RegInvertIQ2, invertIQ2Off)
	}
}

// SetImplicitHeader selects implicit or explicit header mode. The write is
// skipped when the requested mode already matches the cached state.
func (r *Radio) SetImplicitHeader(implicit bool) {
	want := headerExplicit
	if implicit {
		want = headerImplicit
	}
	if r.headerMode == want {
		return
	}
	r.headerMode = want
	r.params.ImplicitHeader = implicit
	current := r.readRegister(RegModemConfig1)
	if implicit {
		current |= 0x01
	} else {
		current &^= 0x01
	}
	r.writeRegister(RegModemConfig1, current)
}

// UpdateLowDataRate recomputes the low-data-rate-optimization bit from the
// configured bandwidth and spreading factor. It runs automatically when
// either parameter changes and may also be called directly.
func (r *Radio) UpdateLowDataRate() {
	bw := float64(r.params.SignalBandwidth)
	sf := float64(uint64(1) << uint(clamp(r.params.SpreadingFactor, 6, 12)))
	current := r.readRegister(RegModemConfig3)
	if 1000/bw/sf > 16 {
		current |= 0x08
	} else {
		current &^= 0x08
	}
	r.writeRegister(RegModemConfig3, current)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
