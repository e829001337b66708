package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/habtools/horusgw/internal/codec"
	"github.com/habtools/horusgw/internal/config"
	"github.com/habtools/horusgw/internal/database"
	"github.com/habtools/horusgw/internal/network"
	"github.com/habtools/horusgw/internal/protocol"
)

const VERSION = "1.0.0"

func usage() {
	fmt.Fprintf(os.Stderr, `horusgw v%s - Horus Binary telemetry gateway

Usage:
  horusgw encode <payload-hex>         Encode a payload into a transmit frame
  horusgw decode <frame-hex>           Decode a received frame
  horusgw size <payload-bytes>         Print the encoded frame size
  horusgw serve [flags]                Run the UDP telemetry gateway

Flags:
`, VERSION)
	pflag.PrintDefaults()
}

func main() {
	var (
		configFile = pflag.StringP("config", "c", "horusgw.yaml", "configuration file path")
		showVer    = pflag.BoolP("version", "V", false, "show version and exit")
	)
	pflag.Usage = usage
	pflag.Parse()

	if *showVer {
		fmt.Printf("horusgw v%s\n", VERSION)
		return
	}

	args := pflag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "encode":
		err = runEncode(args[1:])
	case "decode":
		err = runDecode(args[1:])
	case "size":
		err = runSize(args[1:])
	case "serve":
		err = runServe(*configFile)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "horusgw: %v\n", err)
		os.Exit(1)
	}
}

func runEncode(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("encode expects one hex payload argument")
	}

	payload, err := hex.DecodeString(args[0])
	if err != nil {
		return fmt.Errorf("invalid payload hex: %w", err)
	}

	frame, err := codec.Encode(payload)
	if err != nil {
		return err
	}

	fmt.Printf("%X\n", frame)
	return nil
}

func runDecode(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("decode expects one hex frame argument")
	}

	frame, err := hex.DecodeString(args[0])
	if err != nil {
		return fmt.Errorf("invalid frame hex: %w", err)
	}

	// Recover the payload length from the frame length. Both standard
	// sizes are tried first, then a linear scan for custom payloads.
	payloadLen := payloadLenForFrame(len(frame))
	if payloadLen == 0 {
		return fmt.Errorf("frame length %d does not match any payload size", len(frame))
	}

	result, err := codec.Decode(frame, payloadLen)
	if err != nil {
		return err
	}

	fmt.Printf("payload:   %X\n", result.Payload)
	fmt.Printf("version:   %s\n", protocol.VersionForPayloadLength(payloadLen))
	fmt.Printf("synced:    %v\n", result.Synced)
	fmt.Printf("checksum:  %v\n", result.ChecksumOK)
	fmt.Printf("corrected: %d bits\n", result.CorrectedBits())
	if result.HasUncorrectable() {
		fmt.Printf("warning:   one or more codewords were uncorrectable\n")
	}
	return nil
}

func runSize(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("size expects one payload byte count argument")
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n < protocol.HORUS_MIN_PAYLOAD_LENGTH {
		return fmt.Errorf("payload byte count must be an integer >= %d",
			protocol.HORUS_MIN_PAYLOAD_LENGTH)
	}

	fmt.Printf("%d byte payload -> %d byte frame\n", n, codec.TransmitSize(n))
	return nil
}

// payloadLenForFrame inverts TransmitSize for the standard payload sizes,
// falling back to a scan for nonstandard ones
func payloadLenForFrame(frameLen int) int {
	for _, n := range []int{protocol.HORUS_V1_PAYLOAD_LENGTH, protocol.HORUS_V2_PAYLOAD_LENGTH} {
		if codec.TransmitSize(n) == frameLen {
			return n
		}
	}
	for n := protocol.HORUS_MIN_PAYLOAD_LENGTH; codec.TransmitSize(n) <= frameLen; n++ {
		if codec.TransmitSize(n) == frameLen {
			return n
		}
	}
	return 0
}

func runServe(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		Prefix:          "horusgw",
	})
	if level, err := charmlog.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}

	logger.Info("starting", "version", VERSION, "config", configFile)

	var store *database.PacketRepository
	if cfg.Database.Enabled {
		db, err := database.NewDB(database.Config{Path: cfg.Database.Path},
			logger.StandardLog())
		if err != nil {
			return fmt.Errorf("failed to open packet database: %w", err)
		}
		defer db.Close()
		store = database.NewPacketRepository(db.GetDB())
	}

	gateway, err := network.NewGateway(
		cfg.Gateway.ListenAddress,
		cfg.Gateway.ForwardAddress,
		cfg.Gateway.PayloadLength,
		store,
		logger,
	)
	if err != nil {
		return err
	}

	if err := gateway.Open(); err != nil {
		return err
	}
	defer gateway.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	if err := gateway.Run(ctx); err != nil && err != context.Canceled {
		return err
	}

	logger.Info("stopped")
	return nil
}
