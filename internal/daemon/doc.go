// Package daemon ties the long-running pieces together: the job store, the
// worker pool, and the HTTP API. A file lock enforces a single instance per
// log directory.
package daemon
