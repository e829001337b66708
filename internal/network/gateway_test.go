package network

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/habtools/horusgw/internal/codec"
	"github.com/habtools/horusgw/internal/protocol"
)

const testV1PayloadHex = "000900071E2A000000000000000000000000259A6B14"

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func testGateway(t *testing.T, forward string) *Gateway {
	t.Helper()

	g, err := NewGateway("127.0.0.1:0", forward, protocol.HORUS_V1_PAYLOAD_LENGTH, nil, quietLogger())
	require.NoError(t, err)

	return g
}

func encodeTestFrame(t *testing.T) []byte {
	t.Helper()

	payload, err := hex.DecodeString(testV1PayloadHex)
	require.NoError(t, err)

	frame, err := codec.Encode(payload)
	require.NoError(t, err)

	return frame
}

func TestNewGatewayValidation(t *testing.T) {
	_, err := NewGateway("127.0.0.1:0", "", 2, nil, quietLogger())
	require.Error(t, err)

	_, err = NewGateway("127.0.0.1:0", "not-an-address", protocol.HORUS_V1_PAYLOAD_LENGTH, nil, quietLogger())
	require.Error(t, err)
}

func TestProcessFrameBinary(t *testing.T) {
	g := testGateway(t, "")

	report, err := g.processFrame(encodeTestFrame(t), time.Now())
	require.NoError(t, err)

	require.True(t, report.Synced)
	require.True(t, report.ChecksumOK)
	require.Equal(t, testV1PayloadHex, report.Payload)
	require.Zero(t, report.CorrectedBits)
	require.False(t, report.Uncorrectable)
	require.Equal(t, "Horus Binary v1", report.Version)
}

func TestProcessFrameJSONEnvelope(t *testing.T) {
	g := testGateway(t, "")

	envelope, err := json.Marshal(DemodFrame{
		Frame: hex.EncodeToString(encodeTestFrame(t)),
		SNR:   14.5,
	})
	require.NoError(t, err)

	report, err := g.processFrame(envelope, time.Now())
	require.NoError(t, err)

	require.True(t, report.ChecksumOK)
	require.Equal(t, 14.5, report.SNR)
}

func TestProcessFrameCorrupted(t *testing.T) {
	g := testGateway(t, "")

	frame := encodeTestFrame(t)
	frame[10] ^= 0x01 // one channel bit error

	report, err := g.processFrame(frame, time.Now())
	require.NoError(t, err)

	require.True(t, report.ChecksumOK, "single bit error must be corrected")
	require.Equal(t, 1, report.CorrectedBits)
	require.Equal(t, testV1PayloadHex, report.Payload)
}

func TestProcessFrameBadInput(t *testing.T) {
	g := testGateway(t, "")

	_, err := g.processFrame([]byte{0x01, 0x02, 0x03}, time.Now())
	require.Error(t, err, "wrong-size datagram is rejected")

	_, err = g.processFrame([]byte(`{"frame":"zz"}`), time.Now())
	require.Error(t, err, "bad hex in envelope is rejected")

	_, err = g.processFrame([]byte(`{bad json`), time.Now())
	require.Error(t, err)
}

func TestGatewayEndToEnd(t *testing.T) {
	// Downstream consumer socket
	consumer, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	require.NoError(t, err)
	defer consumer.Close()

	g := testGateway(t, consumer.LocalAddr().String())
	require.NoError(t, g.Open())
	defer g.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Run(ctx) }()

	// Demodulator sends one clean frame
	demod, err := net.Dial("udp", g.LocalAddr().String())
	require.NoError(t, err)
	defer demod.Close()

	_, err = demod.Write(encodeTestFrame(t))
	require.NoError(t, err)

	// Consumer receives the decoded telemetry
	require.NoError(t, consumer.SetReadDeadline(time.Now().Add(5*time.Second)))
	buffer := make([]byte, protocol.BUFFER_LENGTH)
	n, _, err := consumer.ReadFromUDP(buffer)
	require.NoError(t, err)

	var report TelemetryReport
	require.NoError(t, json.Unmarshal(buffer[:n], &report))
	require.True(t, report.ChecksumOK)
	require.Equal(t, testV1PayloadHex, report.Payload)

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("gateway did not stop after cancel")
	}
}

func TestUDPSocketReadTimeout(t *testing.T) {
	socket := NewUDPSocket("127.0.0.1:0")
	require.NoError(t, socket.Open())
	defer socket.Close()

	buffer := make([]byte, 64)
	n, addr, err := socket.Read(buffer, 50*time.Millisecond)
	require.NoError(t, err)
	require.Zero(t, n)
	require.Nil(t, addr)
}
