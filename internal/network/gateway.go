package network

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/charmbracelet/log"

	"github.com/habtools/horusgw/internal/codec"
	"github.com/habtools/horusgw/internal/database"
	"github.com/habtools/horusgw/internal/protocol"
)

const readPollInterval = 250 * time.Millisecond

// DemodFrame is the JSON envelope an upstream demodulator may wrap a
// candidate frame in, carrying its signal-quality estimates alongside the
// raw bytes. A bare binary datagram is accepted too, with no metadata.
type DemodFrame struct {
	Frame  string  `json:"frame"` // hex-encoded received frame
	SNR    float64 `json:"snr"`
	FreqHz float64 `json:"freq_hz"`
}

// TelemetryReport is forwarded to the downstream consumer for every frame
// that decodes. Corrupt frames are reported too: the consumer decides
// whether a failed checksum with partial corrections is worth keeping.
type TelemetryReport struct {
	ReceivedAt    time.Time `json:"received_at"`
	Payload       string    `json:"payload"` // hex, includes the checksum field
	Version       string    `json:"version"`
	Synced        bool      `json:"synced"`
	ChecksumOK    bool      `json:"checksum_ok"`
	ErrorCounts   []uint8   `json:"error_counts"`
	CorrectedBits int       `json:"corrected_bits"`
	Uncorrectable bool      `json:"uncorrectable"`
	SNR           float64   `json:"snr"`
}

// Gateway receives demodulated frames over UDP, decodes them, optionally
// persists the outcome, and forwards decoded telemetry downstream.
type Gateway struct {
	socket      *UDPSocket
	expectedLen int
	forwardAddr *net.UDPAddr
	store       *database.PacketRepository
	logger      *log.Logger

	received uint64
	decoded  uint64
}

// NewGateway creates a gateway. forwardAddress may be empty to disable
// forwarding; store may be nil to disable persistence.
func NewGateway(listenAddress, forwardAddress string, expectedPayloadLen int,
	store *database.PacketRepository, logger *log.Logger) (*Gateway, error) {

	if expectedPayloadLen < protocol.HORUS_MIN_PAYLOAD_LENGTH {
		return nil, fmt.Errorf("expected payload length %d below minimum %d",
			expectedPayloadLen, protocol.HORUS_MIN_PAYLOAD_LENGTH)
	}

	g := &Gateway{
		socket:      NewUDPSocket(listenAddress),
		expectedLen: expectedPayloadLen,
		store:       store,
		logger:      logger,
	}

	if forwardAddress != "" {
		addr, err := net.ResolveUDPAddr("udp", forwardAddress)
		if err != nil {
			return nil, fmt.Errorf("invalid forward address %s: %w", forwardAddress, err)
		}
		g.forwardAddr = addr
	}

	return g, nil
}

// Open binds the listen socket
func (g *Gateway) Open() error {
	if err := g.socket.Open(); err != nil {
		return err
	}
	g.logger.Info("gateway listening", "addr", g.socket.LocalAddr(),
		"payload_len", g.expectedLen, "version", protocol.VersionForPayloadLength(g.expectedLen))
	return nil
}

// LocalAddr returns the bound listen address, nil before Open
func (g *Gateway) LocalAddr() net.Addr {
	return g.socket.LocalAddr()
}

// Close releases the listen socket
func (g *Gateway) Close() {
	g.socket.Close()
}

// Run receives and processes frames until the context is canceled
func (g *Gateway) Run(ctx context.Context) error {
	buffer := make([]byte, protocol.BUFFER_LENGTH)

	for {
		if ctx.Err() != nil {
			g.logger.Info("gateway stopping", "received", g.received, "decoded", g.decoded)
			return ctx.Err()
		}

		n, from, err := g.socket.Read(buffer, readPollInterval)
		if err != nil {
			return fmt.Errorf("gateway read: %w", err)
		}
		if n == 0 {
			continue
		}

		g.received++
		report, err := g.processFrame(buffer[:n], time.Now())
		if err != nil {
			g.logger.Debug("dropping datagram", "from", from, "len", n, "err", err)
			continue
		}
		g.decoded++

		g.publish(report)
	}
}

// processFrame turns one datagram into a telemetry report. The datagram is
// either a bare binary frame or a JSON DemodFrame envelope.
func (g *Gateway) processFrame(data []byte, receivedAt time.Time) (*TelemetryReport, error) {
	frame := data
	snr := 0.0

	if len(data) > 0 && data[0] == '{' {
		var demod DemodFrame
		if err := json.Unmarshal(data, &demod); err != nil {
			return nil, fmt.Errorf("bad demod envelope: %w", err)
		}
		decoded, err := hex.DecodeString(demod.Frame)
		if err != nil {
			return nil, fmt.Errorf("bad frame hex: %w", err)
		}
		frame = decoded
		snr = demod.SNR
	}

	result, err := codec.Decode(frame, g.expectedLen)
	if err != nil {
		return nil, err
	}

	report := &TelemetryReport{
		ReceivedAt:    receivedAt,
		Payload:       hex.EncodeToString(result.Payload),
		Version:       protocol.VersionForPayloadLength(g.expectedLen).String(),
		Synced:        result.Synced,
		ChecksumOK:    result.ChecksumOK,
		ErrorCounts:   result.ErrorCounts,
		CorrectedBits: result.CorrectedBits(),
		Uncorrectable: result.HasUncorrectable(),
		SNR:           snr,
	}

	return report, nil
}

// publish logs, persists and forwards a report. Persistence and forward
// failures are logged but never stop the receive loop.
func (g *Gateway) publish(report *TelemetryReport) {
	if report.ChecksumOK {
		g.logger.Info("packet decoded", "payload", report.Payload,
			"corrected", report.CorrectedBits, "snr", report.SNR)
	} else {
		g.logger.Debug("packet failed checksum", "synced", report.Synced,
			"corrected", report.CorrectedBits, "uncorrectable", report.Uncorrectable)
	}

	if g.store != nil {
		packet := &database.Packet{
			ReceivedAt:    report.ReceivedAt,
			PayloadHex:    report.Payload,
			PayloadLen:    g.expectedLen,
			Version:       report.Version,
			Synced:        report.Synced,
			ChecksumOK:    report.ChecksumOK,
			CorrectedBits: report.CorrectedBits,
			Uncorrectable: report.Uncorrectable,
			SNR:           report.SNR,
		}
		if err := g.store.Insert(packet); err != nil {
			g.logger.Error("failed to persist packet", "err", err)
		}
	}

	if g.forwardAddr != nil {
		data, err := json.Marshal(report)
		if err != nil {
			g.logger.Error("failed to marshal report", "err", err)
			return
		}
		if err := g.socket.Write(data, g.forwardAddr); err != nil {
			g.logger.Error("failed to forward report", "addr", g.forwardAddr, "err", err)
		}
	}
}
