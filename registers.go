package ulora

// SX127x register addresses (LoRa page).
// See the SX1276/77/78/79 datasheet, section 6.4.
const (
	RegFifo               = 0x00
	RegOpMode             = 0x01
	RegFrfMsb             = 0x06
	RegFrfMid             = 0x07
	RegFrfLsb             = 0x08
	RegPaConfig           = 0x09
	RegLna                = 0x0C
	RegFifoAddrPtr        = 0x0D
	RegFifoTxBaseAddr     = 0x0E
	RegFifoRxBaseAddr     = 0x0F
	RegFifoRxCurrentAddr  = 0x10
	RegIrqFlagsMask       = 0x11
	RegIrqFlags           = 0x12
	RegRxNbBytes          = 0x13
	RegPktSnrValue        = 0x19
	RegPktRssiValue       = 0x1A
	RegModemConfig1       = 0x1D
	RegModemConfig2       = 0x1E
	RegPreambleMsb        = 0x20
	RegPreambleLsb        = 0x21
	RegPayloadLength      = 0x22
	RegModemConfig3       = 0x26
	RegRssiWideband       = 0x2C
	RegDetectionOptimize  = 0x31
	RegInvertIQ           = 0x33
	RegDetectionThreshold = 0x37
	RegSyncWord           = 0x39
	RegInvertIQ2          = 0x3B
	RegDioMapping1        = 0x40
	RegVersion            = 0x42
)

// Operating modes, OR'd with ModeLongRange into RegOpMode.
const (
	ModeLongRange    = 0x80
	ModeSleep        = 0x00
	ModeStdby        = 0x01
	ModeTx           = 0x03
	ModeRxContinuous = 0x05
	ModeRxSingle     = 0x06
)

// RegIrqFlags bits. Writing a set bit back clears it.
const (
	IrqTxDoneMask          = 0x08
	IrqPayloadCrcErrorMask = 0x20
	IrqRxDoneMask          = 0x40
	IrqRxTimeoutMask       = 0x80
)

// RegPaConfig bits.
const (
	paBoost = 0x80
)

// RegInvertIQ and RegInvertIQ2 values, per the Semtech errata.
const (
	invertIQRxMask = 0xBF
	invertIQRxOff  = 0x00
	invertIQRxOn   = 0x40
	invertIQTxMask = 0xFE
	invertIQTxOff  = 0x01
	invertIQTxOn   = 0x00
	invertIQ2On    = 0x19
	invertIQ2Off   = 0x1D
)

const (
	// FXOSC is the crystal frequency in Hz. The PLL step is FXOSC/2^19,
	// about 61 Hz.
	FXOSC = 32000000

	// versionID is the fixed silicon identification byte in RegVersion.
	versionID = 0x12

	maxPacketLength = 255
	fifoTxBaseAddr  = 0x00
	fifoRxBaseAddr  = 0x00
)

// bandwidthBins holds the selectable signal bandwidths in Hz, indexed by
// the value encoded into the top nibble of RegModemConfig1.
var bandwidthBins = [9]uint32{7800, 10400, 15600, 20800, 31250, 41700, 62500, 125000, 250000}

// bandwidthIndex maps a requested bandwidth in Hz to a bin index.
// Values below 10 are taken as a direct bin index; otherwise the first
// bin at or above the request is chosen, defaulting to 125 kHz.
func bandwidthIndex(sbw uint32) byte {
	if sbw < 10 {
		if sbw > 8 {
			sbw = 8
		}
		return byte(sbw)
	}
	for i, bw := range bandwidthBins {
		if sbw <= bw {
			return byte(i)
		}
	}
	return 7
}
