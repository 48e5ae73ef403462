// Package media classifies inputs into coarse kinds and owns the pipeline
// step allow-list, validation, and per-kind defaults.
package media
