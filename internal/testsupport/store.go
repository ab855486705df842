package testsupport

import (
	"context"
	"path/filepath"
	"testing"

	"kartoteka/internal/fingerprint"
	"kartoteka/internal/hashdb"
)

// MustOpenStore opens a hashdb.Store backed by a file under a per-test temp
// directory and registers cleanup.
func MustOpenStore(t testing.TB, opts ...hashdb.Option) *hashdb.Store {
	t.Helper()
	return MustOpenStoreAt(t, filepath.Join(t.TempDir(), "hashes.sqlite"), opts...)
}

// MustOpenStoreAt opens a hashdb.Store at path and registers cleanup.
func MustOpenStoreAt(t testing.TB, path string, opts ...hashdb.Option) *hashdb.Store {
	t.Helper()

	store, err := hashdb.Open(path, opts...)
	if err != nil {
		t.Fatalf("hashdb.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustAdd stores a fingerprint or fails the test.
func MustAdd(t testing.TB, store *hashdb.Store, fp fingerprint.Fingerprint, meta hashdb.Metadata) int64 {
	t.Helper()

	id, err := store.Add(context.Background(), fp, meta)
	if err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return id
}
