package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/habtools/horusgw/internal/protocol"
)

// Config is the horusgw gateway configuration
type Config struct {
	Gateway  GatewayConfig  `yaml:"gateway"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// GatewayConfig configures the demodulator-facing UDP listener and the
// downstream consumer
type GatewayConfig struct {
	ListenAddress  string `yaml:"listen_address"`  // UDP address the demodulator sends frames to
	ForwardAddress string `yaml:"forward_address"` // UDP address decoded telemetry is forwarded to, empty to disable
	PayloadLength  int    `yaml:"payload_length"`  // Expected unencoded payload size (22 = v1, 32 = v2)
}

// DatabaseConfig configures the decoded-packet log
type DatabaseConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LogConfig configures logging output
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn or error
}

// Default returns a configuration with working defaults: listen for v2
// frames on the conventional local port, no forwarding, no database.
func Default() *Config {
	return &Config{
		Gateway: GatewayConfig{
			ListenAddress: "127.0.0.1:55672",
			PayloadLength: protocol.HORUS_V2_PAYLOAD_LENGTH,
		},
		Database: DatabaseConfig{
			Enabled: false,
			Path:    "data/packets.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML configuration file over the defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the gateway cannot run with
func (c *Config) Validate() error {
	if c.Gateway.ListenAddress == "" {
		return fmt.Errorf("gateway.listen_address must be set")
	}
	if c.Gateway.PayloadLength < protocol.HORUS_MIN_PAYLOAD_LENGTH {
		return fmt.Errorf("gateway.payload_length %d below minimum %d",
			c.Gateway.PayloadLength, protocol.HORUS_MIN_PAYLOAD_LENGTH)
	}
	if c.Database.Enabled && c.Database.Path == "" {
		return fmt.Errorf("database.path must be set when the database is enabled")
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}

	return nil
}
