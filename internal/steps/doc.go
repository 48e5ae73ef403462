// Package steps implements the processing step library. Each step is a
// Handler that consumes a resolved local input, derives one artifact, stores
// it durably, and reports an output descriptor back to the pipeline executor.
package steps
