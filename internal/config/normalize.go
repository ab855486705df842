package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}

	c.Paths.HashDBFile = strings.TrimSpace(c.Paths.HashDBFile)
	if c.Paths.HashDBFile == "" {
		if value, ok := os.LookupEnv("KARTOTEKA_HASH_DB"); ok && strings.TrimSpace(value) != "" {
			c.Paths.HashDBFile = strings.TrimSpace(value)
		} else {
			c.Paths.HashDBFile = defaultHashDBFile
		}
	}
	if c.Paths.HashDBFile != MemoryDBPath {
		if c.Paths.HashDBFile, err = c.anchorPath(c.Paths.HashDBFile); err != nil {
			return fmt.Errorf("paths.hash_db_file: %w", err)
		}
	}

	if strings.TrimSpace(c.Paths.SetLogoDir) == "" {
		c.Paths.SetLogoDir = defaultSetLogoDir
	}
	if c.Paths.SetLogoDir, err = c.anchorPath(c.Paths.SetLogoDir); err != nil {
		return fmt.Errorf("paths.set_logo_dir: %w", err)
	}

	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

// anchorPath expands value, resolving bare relative names under data_dir.
func (c *Config) anchorPath(value string) (string, error) {
	if !filepath.IsAbs(value) && !strings.HasPrefix(value, "~") {
		value = filepath.Join(c.Paths.DataDir, value)
	}
	return expandPath(value)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
