// Package config loads the feeder's TOML configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the top-level feeder configuration.
type Config struct {
	// RingCapacity is the ring buffer's fixed slot count. Must be a power
	// of two; Load defaults it to 1024 when unset.
	RingCapacity uint64                    `toml:"ring_capacity"`
	IPCSocket    string                    `toml:"ipc_socket"`
	WorkerCount  int                       `toml:"worker_count"`
	Exchanges    map[string]ExchangeConfig `toml:"exchanges"`
}

// ExchangeConfig configures a single exchange websocket producer.
type ExchangeConfig struct {
	Enabled bool   `toml:"enabled"`
	Testnet bool   `toml:"testnet"`
	WSURL   string `toml:"ws_url"`
	RESTURL string `toml:"rest_url"`
	// Symbols maps standard local symbol (e.g. "BTC") to exchange-specific ID (e.g. "BTC_USDC_PERP")
	Symbols map[string]string `toml:"symbols"`
}

const defaultRingCapacity = 1024

// Load reads and parses a TOML config file at path, applying defaults for
// any field the file leaves unset.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if c.RingCapacity == 0 {
		c.RingCapacity = defaultRingCapacity
	}
	if c.WorkerCount == 0 {
		c.WorkerCount = 4
	}
	if c.IPCSocket == "" {
		c.IPCSocket = "/tmp/ringfeed.sock"
	}

	return &c, nil
}
