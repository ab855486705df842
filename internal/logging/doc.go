// Package logging centralizes slog handler construction for Kartoteka.
//
// Two formats exist: a human-oriented console handler that prints a compact
// header line (timestamp, level, component, message) with indented key/value
// details, and a JSON handler with canonical ts/level/msg field names for
// ingestion. Output fans out to stdout/stderr and a log file under the
// configured log directory.
//
// The package also exposes typed attribute helpers so call sites never
// depend on log/slog key conventions directly, plus a no-op logger for
// tests and optional wiring.
package logging
