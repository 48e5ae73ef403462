// Package config loads, normalizes, and validates mediaforge configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks for object
// storage credentials. The Config type centralizes every knob the daemon and
// CLI need: media root, object storage endpoint and bucket, worker pool
// sizing, and log output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
