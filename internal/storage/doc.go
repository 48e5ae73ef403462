// Package storage wraps the S3-compatible object store backing job inputs
// and step outputs.
//
// The ObjectStore interface is what the rest of the daemon consumes; Client
// implements it over minio-go. Presigned URLs use a separate client bound to
// the public endpoint, and presigned PUTs never sign the Content-Type header
// so direct browser uploads do not trip signature mismatches.
package storage
