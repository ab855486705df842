package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"kartoteka/internal/cardimage"
	"kartoteka/internal/fingerprint"
	"kartoteka/internal/hashdb"
	"kartoteka/internal/logging"
)

// Importer fingerprints and catalogues card scans in bulk.
type Importer struct {
	store   *hashdb.Store
	builder *fingerprint.Builder
	logger  *slog.Logger
	workers int
}

// New constructs an Importer writing to store. A nil builder falls back to
// the default fingerprint pipeline, a nil logger disables diagnostics, and a
// non-positive worker count uses all CPUs.
func New(store *hashdb.Store, builder *fingerprint.Builder, logger *slog.Logger, workers int) *Importer {
	if builder == nil {
		builder = fingerprint.New(fingerprint.WithFeatures(true))
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Importer{
		store:   store,
		builder: builder,
		logger:  logging.NewComponentLogger(logger, "importer"),
		workers: workers,
	}
}

// Report summarizes one import run.
type Report struct {
	Batch      string        `json:"batch"`
	Scanned    int           `json:"scanned"`
	Added      int           `json:"added"`
	Duplicates int           `json:"duplicates"`
	Failed     []string      `json:"failed,omitempty"`
	Elapsed    time.Duration `json:"elapsed"`
}

// ImportDir catalogues every supported image directly inside dir. Each card
// is stored with the base metadata plus source_file, batch, and imported_at
// keys. Files that cannot be decoded are collected in the report; any other
// failure aborts the run.
func (imp *Importer) ImportDir(ctx context.Context, dir string, base hashdb.Metadata) (Report, error) {
	started := time.Now()
	report := Report{Batch: uuid.NewString()}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return report, fmt.Errorf("read import directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !cardimage.IsSupportedFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	report.Scanned = len(files)

	importedAt := time.Now().UTC().Format(time.RFC3339)

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(imp.workers)

	for _, path := range files {
		path := path // per-iteration copy: go directive < 1.22 shares the loop variable
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			fp, err := imp.builder.ComputeFile(path)
			if err != nil {
				if errors.Is(err, cardimage.ErrDecode) {
					imp.logger.Warn("skipping undecodable file", logging.String("file", path), logging.Error(err))
					mu.Lock()
					report.Failed = append(report.Failed, path)
					mu.Unlock()
					return nil
				}
				return fmt.Errorf("fingerprint %s: %w", path, err)
			}

			meta := hashdb.Metadata{}
			for key, value := range base {
				meta[key] = value
			}
			meta["source_file"] = filepath.Base(path)
			meta["batch"] = report.Batch
			meta["imported_at"] = importedAt

			_, created, err := imp.store.AddDetailed(groupCtx, fp, meta)
			if err != nil {
				return fmt.Errorf("store %s: %w", path, err)
			}

			mu.Lock()
			if created {
				report.Added++
			} else {
				report.Duplicates++
			}
			mu.Unlock()
			return nil
		})
	}

	waitErr := group.Wait()
	sort.Strings(report.Failed)
	report.Elapsed = time.Since(started)
	if waitErr != nil {
		return report, waitErr
	}

	imp.logger.Info("import finished",
		logging.String("dir", dir),
		logging.String("batch", report.Batch),
		logging.Int("scanned", report.Scanned),
		logging.Int("added", report.Added),
		logging.Int("duplicates", report.Duplicates),
		logging.Int("failed", len(report.Failed)),
		logging.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}
