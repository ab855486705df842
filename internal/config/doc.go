// Package config loads, normalizes, and validates Kartoteka configuration
// data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// KARTOTEKA_HASH_DB. The Config type centralizes every knob the CLI needs:
// database and logo locations, fingerprint geometry, matching thresholds,
// import parallelism, and log output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
