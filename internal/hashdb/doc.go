// Package hashdb persists card fingerprints in SQLite and answers
// similarity queries over them.
//
// The catalogue is insert-only and duplicate-free: byte-identical
// fingerprints resolve to one row. Two guards enforce that. A store-wide
// lock spans the duplicate probe and the insert within this process, and
// the table's unique index settles races with other processes sharing the
// database file; a writer that loses the race re-reads the winning row and
// returns its id.
//
// Queries scan the whole catalogue in insertion order, score each row
// against the probe fingerprint, and return a stable ascending shortlist.
// The snapshot is taken under the store lock; scoring happens outside it.
// With a distance cutoff the scan can stop as soon as the shortlist fills,
// because every qualifying row is already known to be acceptable.
//
// Metadata rides along as an opaque JSON bag. The engine never interprets
// it; callers own its schema.
package hashdb
