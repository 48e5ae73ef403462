// Package pipeline drives a claimed job through its ordered processing steps,
// publishing progress checkpoints and settling the job into a terminal state.
package pipeline
