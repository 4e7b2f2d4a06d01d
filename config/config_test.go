package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeTemp(t, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.RingCapacity != defaultRingCapacity {
		t.Errorf("RingCapacity = %d, want default %d", cfg.RingCapacity, defaultRingCapacity)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("WorkerCount = %d, want default 4", cfg.WorkerCount)
	}
	if cfg.IPCSocket != "/tmp/ringfeed.sock" {
		t.Errorf("IPCSocket = %q, want default socket path", cfg.IPCSocket)
	}
}

func TestLoad_RespectsExplicitValues(t *testing.T) {
	path := writeTemp(t, `
ring_capacity = 4096
worker_count = 8
ipc_socket = "/tmp/custom.sock"

[exchanges.binance]
enabled = true
ws_url = "wss://example.invalid"

[exchanges.binance.symbols]
BTC = "BTCUSDT"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.RingCapacity != 4096 {
		t.Errorf("RingCapacity = %d, want 4096", cfg.RingCapacity)
	}
	if cfg.WorkerCount != 8 {
		t.Errorf("WorkerCount = %d, want 8", cfg.WorkerCount)
	}
	if cfg.IPCSocket != "/tmp/custom.sock" {
		t.Errorf("IPCSocket = %q, want /tmp/custom.sock", cfg.IPCSocket)
	}

	bn, ok := cfg.Exchanges["binance"]
	if !ok {
		t.Fatal("Exchanges[\"binance\"] missing")
	}
	if !bn.Enabled {
		t.Error("binance.Enabled = false, want true")
	}
	if bn.Symbols["BTC"] != "BTCUSDT" {
		t.Errorf("binance.Symbols[BTC] = %q, want BTCUSDT", bn.Symbols["BTC"])
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml")); err == nil {
		t.Fatal("Load: expected an error for a missing file")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeTemp(t, "this is not valid toml : : :")

	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected an error for malformed TOML")
	}
}
