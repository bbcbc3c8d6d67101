package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvMissingFileIsSkipped(t *testing.T) {
	if err := LoadEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("missing file: %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	saved := Network
	t.Cleanup(func() { Network = saved })

	path := filepath.Join(t.TempDir(), "test.env")
	body := "BHOP_RELAY_ADDRESS=relay.example\nBHOP_RELAY_PORT=9100\nSTATSVIEW_ADDR=localhost:18066\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	for _, k := range []string{"BHOP_RELAY_ADDRESS", "BHOP_RELAY_PORT", "STATSVIEW_ADDR"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	if err := LoadEnv(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if Network.DefaultAddress != "relay.example" || Network.Port != 9100 {
		t.Fatalf("network = %+v", Network)
	}
	if Env.StatsviewAddr != "localhost:18066" {
		t.Fatalf("statsview = %q", Env.StatsviewAddr)
	}
}

func TestBadPortRejected(t *testing.T) {
	saved := Network
	t.Cleanup(func() { Network = saved })

	t.Setenv("BHOP_RELAY_PORT", "not-a-port")
	if err := applyEnv(); err == nil {
		t.Fatalf("expected error for bad port")
	}
}
