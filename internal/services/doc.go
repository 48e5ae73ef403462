// Package services defines the shared error taxonomy and context annotations
// used across the pipeline.
//
// Errors raised by the resolver, step handlers, and executor are tagged with
// sentinel markers (ErrResolution, ErrEncode, ErrCodec, ...) via Wrap so the
// executor and HTTP layer can classify failures without string matching.
// Context helpers carry job and step identifiers for structured logging.
package services
