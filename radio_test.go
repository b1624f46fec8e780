package ulora

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSendText(t *testing.T) {
	chip := newSimChip()
	r, _ := testRadio(chip, nil, nil)
	require.NoError(t, r.Error())

	const message = "Hello From Arman Ghobadi"
	r.SendText(message, HeaderCurrent, 1)
	require.NoError(t, r.Error())

	require.Equal(t, []byte(message), chip.fifoTx)
	require.Equal(t, byte(len(message)), chip.regs[RegPayloadLength])
	require.Equal(t, 1, chip.opModeWriteCount(ModeLongRange|ModeTx))
	// TX-done was polled until the chip reported it, then cleared.
	require.GreaterOrEqual(t, chip.txPolls, chip.txPollsNeeded)
	require.Zero(t, chip.regs[RegIrqFlags]&IrqTxDoneMask)

	stats := r.Statistics()
	require.Equal(t, 1, stats.Packets.Sent)
	require.Equal(t, len(message), stats.Bytes.Sent)
}

func TestEndPacketRepeat(t *testing.T) {
	chip := newSimChip()
	r, _ := testRadio(chip, nil, nil)
	require.NoError(t, r.Error())

	r.SendText("ping", HeaderCurrent, 3)
	require.NoError(t, r.Error())
	require.Equal(t, 3, chip.opModeWriteCount(ModeLongRange|ModeTx))
	require.Equal(t, 3, r.Statistics().Packets.Sent)

	// repeat below one still transmits once.
	chip = newSimChip()
	r, _ = testRadio(chip, nil, nil)
	r.SendText("ping", HeaderCurrent, 0)
	require.Equal(t, 1, chip.opModeWriteCount(ModeLongRange|ModeTx))
}

func TestBeginPacketHeaderOverride(t *testing.T) {
	chip := newSimChip()
	r, _ := testRadio(chip, nil, nil)
	require.NoError(t, r.Error())

	r.BeginPacket(HeaderImplicit)
	require.NotZero(t, chip.regs[RegModemConfig1]&0x01)
	require.Equal(t, byte(fifoTxBaseAddr), chip.regs[RegFifoAddrPtr])

	r.BeginPacket(HeaderExplicit)
	require.Zero(t, chip.regs[RegModemConfig1]&0x01)

	writes := chip.writes[RegModemConfig1]
	r.BeginPacket(HeaderCurrent)
	require.Equal(t, writes, chip.writes[RegModemConfig1])
}

func TestWriteClampsToFifoLimit(t *testing.T) {
	chip := newSimChip()
	r, _ := testRadio(chip, nil, nil)
	require.NoError(t, r.Error())

	r.BeginPacket(HeaderCurrent)
	require.Equal(t, 200, r.Write(make([]byte, 200)))
	require.Equal(t, 55, r.Write(make([]byte, 100)))
	require.Equal(t, byte(255), chip.regs[RegPayloadLength])
	require.Len(t, chip.fifoTx, 255)

	// The FIFO is full: nothing more is accepted.
	require.Equal(t, 0, r.Write([]byte{1}))
	require.NoError(t, r.Error())
}

func TestReceiveModes(t *testing.T) {
	chip := newSimChip()
	r, _ := testRadio(chip, nil, nil)
	require.NoError(t, r.Error())

	r.Receive(0)
	require.Equal(t, byte(ModeLongRange|ModeRxContinuous), chip.regs[RegOpMode])
	require.Zero(t, chip.regs[RegModemConfig1]&0x01)

	r.Receive(32)
	require.NotZero(t, chip.regs[RegModemConfig1]&0x01)
	require.Equal(t, byte(32), chip.regs[RegPayloadLength])
}

func TestReceivedPacketRearmsSingleReceive(t *testing.T) {
	chip := newSimChip()
	r, _ := testRadio(chip, nil, nil)
	require.NoError(t, r.Error())

	require.False(t, r.ReceivedPacket(0))
	require.Equal(t, byte(ModeLongRange|ModeRxSingle), chip.regs[RegOpMode])
	require.Equal(t, byte(fifoRxBaseAddr), chip.regs[RegFifoAddrPtr])

	// Already in single receive: no second re-arm.
	require.False(t, r.ReceivedPacket(0))
	require.Equal(t, 1, chip.opModeWriteCount(ModeLongRange|ModeRxSingle))
}

func TestListenReceivesPayload(t *testing.T) {
	chip := newSimChip()
	r, _ := testRadio(chip, nil, nil)
	require.NoError(t, r.Error())

	payload := []byte("telemetry frame")
	chip.fifoRx = append([]byte{}, payload...)
	chip.regs[RegRxNbBytes] = byte(len(payload))
	chip.regs[RegFifoRxCurrentAddr] = 0x40
	chip.regs[RegIrqFlags] = IrqRxDoneMask

	got := r.Listen(time.Second)
	require.NoError(t, r.Error())
	require.Equal(t, payload, got)
	// The FIFO pointer followed the chip-reported packet address.
	require.Equal(t, byte(0x40), chip.regs[RegFifoAddrPtr])

	stats := r.Statistics()
	require.Equal(t, 1, stats.Packets.Received)
	require.Equal(t, len(payload), stats.Bytes.Received)
}

func TestListenTimeout(t *testing.T) {
	chip := newSimChip()
	clock := &fakeClock{step: 5 * time.Millisecond}
	r, _ := testRadio(chip, nil, clock)
	require.NoError(t, r.Error())

	start := clock.now
	got := r.Listen(20 * time.Second)
	require.Nil(t, got)
	elapsed := clock.now.Sub(start)
	require.GreaterOrEqual(t, elapsed, 20*time.Second)
	// Overrun is bounded by one poll iteration.
	require.Less(t, elapsed, 20*time.Second+100*time.Millisecond)
}

func TestReadPayloadImplicitHeader(t *testing.T) {
	chip := newSimChip()
	r, _ := testRadio(chip, nil, nil)
	require.NoError(t, r.Error())

	r.Receive(5)
	chip.fifoRx = []byte("abcde")
	chip.regs[RegFifoRxCurrentAddr] = 0x00
	// Implicit header mode takes the length from the payload-length
	// register, not the received-byte count.
	chip.regs[RegRxNbBytes] = 99

	got := r.ReadPayload()
	require.Equal(t, []byte("abcde"), got)
}

func TestPacketTelemetry(t *testing.T) {
	chip := newSimChip()
	r, _ := testRadio(chip, nil, nil)
	require.NoError(t, r.Error())

	chip.regs[RegPktRssiValue] = 100
	require.Equal(t, -57, r.PacketRSSI(true))
	require.Equal(t, -64, r.PacketRSSI(false))

	chip.regs[RegPktSnrValue] = 40
	require.Equal(t, 10.0, r.PacketSNR())
	chip.regs[RegPktSnrValue] = 0xF6 // -10 in two's complement
	require.Equal(t, -2.5, r.PacketSNR())
}
