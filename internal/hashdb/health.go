package hashdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// DatabaseHealth captures diagnostic state about the fingerprint database
// for the stats command.
type DatabaseHealth struct {
	DBPath           string `json:"db_path"`
	DatabaseExists   bool   `json:"database_exists"`
	DatabaseReadable bool   `json:"database_readable"`
	TableExists      bool   `json:"table_exists"`
	TotalCards       int64  `json:"total_cards"`
	IntegrityOK      bool   `json:"integrity_ok"`
	Error            string `json:"error,omitempty"`
}

// CheckHealth inspects the database file, connectivity, schema presence, and
// integrity. Diagnostic fields are filled as far as the checks get.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path}

	if s.path != MemoryPath {
		info, err := os.Stat(s.path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return health, nil
			}
			health.Error = err.Error()
			return health, fmt.Errorf("stat database: %w", err)
		}
		if info.IsDir() {
			health.Error = "database path is a directory"
			return health, fmt.Errorf("database path %q is a directory", s.path)
		}
	}
	health.DatabaseExists = true

	connCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping database: %w", err)
	}
	health.DatabaseReadable = true

	var tableName string
	err := s.db.QueryRowContext(connCtx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'cards'").Scan(&tableName)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		health.Error = err.Error()
		return health, fmt.Errorf("inspect cards table: %w", err)
	}
	health.TableExists = err == nil

	if health.TableExists {
		if err := s.db.QueryRowContext(connCtx, "SELECT COUNT(*) FROM cards").Scan(&health.TotalCards); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("count cards: %w", err)
		}
	}

	var integrity string
	if err := s.db.QueryRowContext(connCtx, "PRAGMA integrity_check").Scan(&integrity); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityOK = strings.EqualFold(strings.TrimSpace(integrity), "ok")

	return health, nil
}
