// Package importer bulk-catalogues directories of card scans.
//
// Fingerprints are computed on a bounded worker pool; inserts funnel through
// the store, which keeps re-imported scans idempotent. Every run is tagged
// with a batch id so the cards of one import can be traced afterwards.
// Undecodable files are reported, not fatal.
package importer
