// Package logging centralizes slog construction and the structured field
// vocabulary used across the daemon.
//
// Loggers are built from config (format, level, optional log-file mirror) and
// enriched with job/step/correlation fields carried on the context, so every
// record emitted while a job executes can be traced back to it.
package logging
