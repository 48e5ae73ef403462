// Package api exposes the HTTP surface of the daemon: job triggering, job
// status, presigned uploads, and a static file server over the media root.
// Handlers translate between JSON DTOs and the job store; object URLs on job
// views are derived at read time and never persisted.
package api
