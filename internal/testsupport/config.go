package testsupport

import (
	"path/filepath"
	"testing"

	"kartoteka/internal/config"
)

// ConfigOption mutates a test config before it is returned.
type ConfigOption func(*config.Config)

// WithHashDB points the config at a specific database file.
func WithHashDB(path string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Paths.HashDBFile = path
	}
}

// WithLogging overrides the log format and level.
func WithLogging(format, level string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Logging.Format = format
		cfg.Logging.Level = level
	}
}

// NewConfig returns a Config whose paths all live under a per-test temporary
// directory, so tests never touch the user's real data.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.HashDBFile = filepath.Join(base, "data", "hashes.sqlite")
	cfg.Paths.SetLogoDir = filepath.Join(base, "logos")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}
