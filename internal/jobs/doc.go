// Package jobs persists transformation jobs in SQLite and exposes helpers for
// driving their lifecycle.
//
// The Store manages database connections, schema initialization, stats
// queries, and the partial-update path (Apply) the pipeline executor uses to
// publish status, progress, errors, and appended outputs. Claim is the
// single-owner guard: a pending job can be claimed by exactly one worker.
//
// The database is treated as transient storage for in-flight jobs rather than
// a long-term archive. Schema changes bump the version in schema.go; users
// clear the database to adopt the new schema.
package jobs
