package storage

import "context"

// ObjectStore is the object storage contract consumed by the resolver, step
// handlers, and HTTP layer. Implementations must tolerate concurrent access
// from unrelated jobs.
type ObjectStore interface {
	// Download fetches an object to a local file path.
	Download(ctx context.Context, key, dst string) error
	// Upload stores a local file under the given key. contentType may be empty.
	Upload(ctx context.Context, localPath, key, contentType string) error
	// UploadTree recursively uploads every file under localDir, preserving
	// relative paths beneath keyPrefix.
	UploadTree(ctx context.Context, localDir, keyPrefix string) error
	// PresignGet issues a time-limited download URL for an object.
	PresignGet(ctx context.Context, key string) (string, error)
	// PresignPut issues a time-limited upload URL plus suggested headers. The
	// content type is never bound into the signature; clients may omit or
	// vary the header.
	PresignPut(ctx context.Context, key, contentType string) (string, map[string]string, error)
	// ObjectURL constructs a direct (unsigned) URL against the public endpoint.
	ObjectURL(key string) string
}
