package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvConfig holds settings that only come from the environment.
type EnvConfig struct {
	SentryDSN     string
	StatsviewAddr string
}

var Env EnvConfig

// LoadEnv reads .env style files into the process environment and applies
// the overrides they carry. Missing files are skipped.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return applyEnv()
}

func applyEnv() error {
	Env.SentryDSN = os.Getenv("SENTRY_DSN")
	Env.StatsviewAddr = os.Getenv("STATSVIEW_ADDR")

	if addr := os.Getenv("BHOP_RELAY_ADDRESS"); addr != "" {
		Network.DefaultAddress = addr
	}
	if port := os.Getenv("BHOP_RELAY_PORT"); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n <= 0 || n > 65535 {
			return fmt.Errorf("invalid BHOP_RELAY_PORT %q", port)
		}
		Network.Port = n
	}
	return nil
}
