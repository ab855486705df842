package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"kartoteka/internal/config"
	"kartoteka/internal/fingerprint"
	"kartoteka/internal/hashdb"
	"kartoteka/internal/logging"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds the CLI logger. Diagnostics go to the log file so that
// stdout stays reserved for command output, JSON in particular.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		outputs := []string{"stderr"}
		if cfg.Paths.LogDir != "" {
			outputs = []string{filepath.Join(cfg.Paths.LogDir, "kartoteka.log")}
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:            cfg.Logging.Level,
			Format:           cfg.Logging.Format,
			OutputPaths:      outputs,
			ErrorOutputPaths: outputs,
		})
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) JSONMode() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// withStore opens the fingerprint database for one command invocation.
func (c *commandContext) withStore(fn func(*config.Config, *hashdb.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}

	store, err := hashdb.Open(cfg.Paths.HashDBFile, hashdb.WithBuilder(newBuilder(cfg)), hashdb.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("open fingerprint database: %w", err)
	}
	defer store.Close()

	return fn(cfg, store)
}

// newBuilder assembles the fingerprint pipeline from configuration.
func newBuilder(cfg *config.Config) *fingerprint.Builder {
	return fingerprint.New(
		fingerprint.WithSize(cfg.Fingerprint.NormalizeSize, cfg.Fingerprint.NormalizeSize),
		fingerprint.WithGrid(fingerprint.Grid{Rows: cfg.Fingerprint.TileRows, Cols: cfg.Fingerprint.TileCols}),
		fingerprint.WithFeatures(cfg.Fingerprint.UseFeatures),
		fingerprint.WithMaxDescriptors(cfg.Fingerprint.MaxDescriptors),
	)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
