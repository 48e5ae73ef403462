// Package worker runs the background pool that drains pending jobs from the
// store and hands each one to the pipeline executor.
package worker
