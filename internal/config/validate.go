package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateFingerprint(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateImport(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.HashDBFile) == "" {
		return errors.New("paths.hash_db_file must be set")
	}
	return nil
}

func (c *Config) validateFingerprint() error {
	if c.Fingerprint.NormalizeSize < 64 || c.Fingerprint.NormalizeSize > 4096 {
		return errors.New("fingerprint.normalize_size must be between 64 and 4096")
	}
	if err := ensureRangeMap(map[string]int{
		"fingerprint.tile_rows": c.Fingerprint.TileRows,
		"fingerprint.tile_cols": c.Fingerprint.TileCols,
	}, 1, 16); err != nil {
		return err
	}
	if c.Fingerprint.MaxDescriptors <= 0 {
		return errors.New("fingerprint.max_descriptors must be positive")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.CandidateLimit <= 0 {
		return errors.New("matching.candidate_limit must be positive")
	}
	// -1 disables the cutoff; anything lower is a typo.
	if c.Matching.MaxDistance < -1 {
		return errors.New("matching.max_distance must be -1 (disabled) or >= 0")
	}
	if c.Matching.LogoDiffThreshold < 0 {
		return errors.New("matching.logo_diff_threshold must be >= 0")
	}
	return nil
}

func (c *Config) validateImport() error {
	if c.Import.Workers < 0 {
		return errors.New("import.workers must be >= 0 (0 uses all CPUs)")
	}
	return nil
}

func ensureRangeMap(values map[string]int, min, max int) error {
	for key, value := range values {
		if value < min || value > max {
			return fmt.Errorf("%s must be between %d and %d", key, min, max)
		}
	}
	return nil
}
