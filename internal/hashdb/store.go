package hashdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"kartoteka/internal/fingerprint"
	"kartoteka/internal/logging"
)

// MemoryPath opens a private in-memory database, used by tests and dry runs.
const MemoryPath = ":memory:"

// DefaultLimit is the shortlist size the cataloguing workflow displays.
const DefaultLimit = 4

// NoMaxDistance disables the distance cutoff on queries.
const NoMaxDistance = -1

// Metadata is the opaque attribute bag persisted with each fingerprint. The
// store never interprets its keys.
type Metadata map[string]string

// Candidate pairs a stored card with its distance from the probe.
type Candidate struct {
	ID       int64    `json:"id"`
	Meta     Metadata `json:"meta"`
	Distance int      `json:"distance"`
}

// Store persists card fingerprints in SQLite.
type Store struct {
	db      *sql.DB
	path    string
	builder *fingerprint.Builder
	logger  *slog.Logger

	// mu spans the duplicate probe and insert so concurrent adds of the same
	// fingerprint settle on one row. Snapshot reads take it too.
	mu sync.Mutex
}

// Option customizes store construction.
type Option func(*Store)

// WithBuilder sets the fingerprint builder used by the file-based helpers.
func WithBuilder(builder *fingerprint.Builder) Option {
	return func(s *Store) {
		if builder != nil {
			s.builder = builder
		}
	}
}

// WithLogger attaches a logger for insert and query diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logging.NewComponentLogger(logger, "hashdb")
		}
	}
}

// Open initializes or connects to the fingerprint database at path, creating
// parent directories and the schema as needed.
func Open(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("database path is empty")
	}
	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection only: an in-memory database exists per connection, and
	// file access serializes behind the store lock anyway.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:      db,
		path:    path,
		builder: fingerprint.New(fingerprint.WithFeatures(true)),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(store)
	}

	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location backing this store.
func (s *Store) Path() string { return s.path }

// Add stores fp with its metadata and returns the row id. Byte-identical
// fingerprints are stored once: re-adding returns the existing id and leaves
// the stored metadata untouched.
func (s *Store) Add(ctx context.Context, fp fingerprint.Fingerprint, meta Metadata) (int64, error) {
	id, _, err := s.AddDetailed(ctx, fp, meta)
	return id, err
}

// AddDetailed behaves like Add and additionally reports whether a new row
// was created.
func (s *Store) AddDetailed(ctx context.Context, fp fingerprint.Fingerprint, meta Metadata) (int64, bool, error) {
	enc, err := fp.Encode()
	if err != nil {
		return 0, false, fmt.Errorf("encode fingerprint: %w", err)
	}
	metaJSON, err := encodeMetadata(meta)
	if err != nil {
		return 0, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok, err := s.findIdentical(ctx, enc); err != nil {
		return 0, false, err
	} else if ok {
		s.logger.Debug("fingerprint already catalogued", logging.Int64("id", id))
		return id, false, nil
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO cards (phash, dhash, tile_phash, orb, meta, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		enc.PHash,
		enc.DHash,
		enc.TilePHash,
		enc.ORB,
		metaJSON,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if !isUniqueViolation(err) {
			return 0, false, fmt.Errorf("insert fingerprint: %w", err)
		}
		// Another process landed the same fingerprint first; its row must be
		// readable now.
		id, ok, requeryErr := s.findIdentical(ctx, enc)
		if requeryErr != nil {
			return 0, false, fmt.Errorf("requery after unique conflict: %w", requeryErr)
		}
		if !ok {
			return 0, false, fmt.Errorf("%w: conflicting row missing after unique violation", ErrConsistency)
		}
		s.logger.Debug("fingerprint insert lost race", logging.Int64("id", id))
		return id, false, nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("read insert id: %w", err)
	}
	s.logger.Debug("fingerprint catalogued", logging.Int64("id", id))
	return id, true, nil
}

// AddFile fingerprints the image at path and stores it.
func (s *Store) AddFile(ctx context.Context, path string, meta Metadata) (int64, error) {
	fp, err := s.builder.ComputeFile(path)
	if err != nil {
		return 0, err
	}
	return s.Add(ctx, fp, meta)
}

// Candidates returns up to limit stored cards ranked by ascending distance
// from fp, insertion order breaking ties. A non-positive limit falls back to
// DefaultLimit. A negative maxDistance disables the cutoff; with a cutoff
// set, the scan stops as soon as limit qualifying rows have been found.
func (s *Store) Candidates(ctx context.Context, fp fingerprint.Fingerprint, limit, maxDistance int) ([]Candidate, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.snapshotRows(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]Candidate, 0, limit)
	for _, row := range rows {
		stored, err := fingerprint.Decode(fingerprint.Encoded{
			PHash:     row.phash,
			DHash:     row.dhash,
			TilePHash: row.tilePHash,
			ORB:       row.orb,
		})
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", row.id, err)
		}
		distance := fingerprint.Distance(fp, stored)
		if maxDistance >= 0 && distance > maxDistance {
			continue
		}
		meta, err := decodeMetadata(row.meta)
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", row.id, err)
		}
		results = append(results, Candidate{ID: row.id, Meta: meta, Distance: distance})
		// Under a cutoff every collected row already qualifies. An unbounded
		// query must keep scanning: a closer row may still appear.
		if maxDistance >= 0 && len(results) >= limit {
			break
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// CandidatesFile fingerprints the image at path and ranks stored cards
// against it.
func (s *Store) CandidatesFile(ctx context.Context, path string, limit, maxDistance int) ([]Candidate, error) {
	fp, err := s.builder.ComputeFile(path)
	if err != nil {
		return nil, err
	}
	return s.Candidates(ctx, fp, limit, maxDistance)
}

// BestMatch returns the closest stored card within maxDistance, or nil when
// nothing qualifies. A negative maxDistance accepts the closest card
// unconditionally.
func (s *Store) BestMatch(ctx context.Context, fp fingerprint.Fingerprint, maxDistance int) (*Candidate, error) {
	matches, err := s.Candidates(ctx, fp, 1, maxDistance)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	best := matches[0]
	return &best, nil
}

// BestMatchFile fingerprints the image at path and returns its closest
// stored card.
func (s *Store) BestMatchFile(ctx context.Context, path string, maxDistance int) (*Candidate, error) {
	fp, err := s.builder.ComputeFile(path)
	if err != nil {
		return nil, err
	}
	return s.BestMatch(ctx, fp, maxDistance)
}

// Count reports the number of catalogued cards.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cards").Scan(&count); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return count, nil
}

type storedRow struct {
	id        int64
	phash     string
	dhash     string
	tilePHash string
	orb       string
	meta      string
}

// snapshotRows reads every stored card in insertion order. The lock keeps
// the snapshot consistent with in-flight adds; scoring happens outside it.
func (s *Store) snapshotRows(ctx context.Context) ([]storedRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, phash, dhash, tile_phash, orb, meta FROM cards ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("scan cards: %w", err)
	}
	defer rows.Close()

	var out []storedRow
	for rows.Next() {
		var row storedRow
		if err := rows.Scan(&row.id, &row.phash, &row.dhash, &row.tilePHash, &row.orb, &row.meta); err != nil {
			return nil, fmt.Errorf("scan card row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) findIdentical(ctx context.Context, enc fingerprint.Encoded) (int64, bool, error) {
	row := s.db.QueryRowContext(
		ctx,
		"SELECT id FROM cards WHERE phash = ? AND dhash = ? AND tile_phash = ? AND orb = ? ORDER BY id LIMIT 1",
		enc.PHash, enc.DHash, enc.TilePHash, enc.ORB,
	)
	var id int64
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("find identical fingerprint: %w", err)
	}
	return id, true, nil
}

func encodeMetadata(meta Metadata) (string, error) {
	if len(meta) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}
	return string(raw), nil
}

func decodeMetadata(raw string) (Metadata, error) {
	meta := Metadata{}
	if strings.TrimSpace(raw) == "" {
		return meta, nil
	}
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return meta, nil
}
