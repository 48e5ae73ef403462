package storage

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"mediaforge/internal/config"
)

// Client talks to an S3-compatible object store (MinIO in development).
// Presigned URLs are generated against the public endpoint so the URL host
// matches what browsers and curl can actually reach.
type Client struct {
	api           *minio.Client
	presignAPI    *minio.Client
	bucket        string
	publicBaseURL string
	presignExpiry time.Duration
}

var _ ObjectStore = (*Client)(nil)

// New constructs a storage client from configuration.
func New(cfg *config.Config) (*Client, error) {
	creds := credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, "")

	api, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.Storage.UseSSL,
		Region: cfg.Storage.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	presignAPI := api
	if cfg.Storage.PublicEndpoint != cfg.Storage.Endpoint {
		presignAPI, err = minio.New(cfg.Storage.PublicEndpoint, &minio.Options{
			Creds:  creds,
			Secure: cfg.Storage.UseSSL,
			Region: cfg.Storage.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("create presign client: %w", err)
		}
	}

	scheme := "http"
	if cfg.Storage.UseSSL {
		scheme = "https"
	}

	return &Client{
		api:           api,
		presignAPI:    presignAPI,
		bucket:        cfg.Storage.Bucket,
		publicBaseURL: fmt.Sprintf("%s://%s", scheme, cfg.Storage.PublicEndpoint),
		presignExpiry: time.Duration(cfg.Storage.PresignExpiry) * time.Second,
	}, nil
}

// EnsureBucket creates the configured bucket when it does not exist yet.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", c.bucket, err)
	}
	if exists {
		return nil
	}
	if err := c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %q: %w", c.bucket, err)
	}
	return nil
}

// Download fetches an object to a local file path.
func (c *Client) Download(ctx context.Context, key, dst string) error {
	if err := c.api.FGetObject(ctx, c.bucket, key, dst, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("download %q: %w", key, err)
	}
	return nil
}

// Upload stores a local file under the given key.
func (c *Client) Upload(ctx context.Context, localPath, key, contentType string) error {
	opts := minio.PutObjectOptions{}
	if contentType != "" {
		opts.ContentType = contentType
	}
	if _, err := c.api.FPutObject(ctx, c.bucket, key, localPath, opts); err != nil {
		return fmt.Errorf("upload %q: %w", key, err)
	}
	return nil
}

// UploadTree recursively uploads every file under localDir, preserving
// relative paths beneath keyPrefix. HLS assets get content-type hints so
// players stream them without sniffing.
func (c *Client) UploadTree(ctx context.Context, localDir, keyPrefix string) error {
	return filepath.WalkDir(localDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(localDir, path)
		if err != nil {
			return fmt.Errorf("relativize %q: %w", path, err)
		}
		key := keyPrefix + "/" + filepath.ToSlash(rel)
		return c.Upload(ctx, path, key, ContentTypeForKey(key))
	})
}

// PresignGet issues a time-limited download URL for an object.
func (c *Client) PresignGet(ctx context.Context, key string) (string, error) {
	url, err := c.presignAPI.PresignedGetObject(ctx, c.bucket, key, c.presignExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign get %q: %w", key, err)
	}
	return url.String(), nil
}

// PresignPut issues a time-limited upload URL. The content type is only a
// suggested header for the client; it is deliberately not part of the
// signature, so clients that omit or change it still pass verification.
func (c *Client) PresignPut(ctx context.Context, key, contentType string) (string, map[string]string, error) {
	url, err := c.presignAPI.PresignedPutObject(ctx, c.bucket, key, c.presignExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("presign put %q: %w", key, err)
	}
	headers := map[string]string{}
	if contentType != "" {
		headers["Content-Type"] = contentType
	}
	return url.String(), headers, nil
}

// ObjectURL constructs a direct object URL against the public endpoint.
// Prefer PresignGet for anything beyond development convenience.
func (c *Client) ObjectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", c.publicBaseURL, c.bucket, key)
}

// ContentTypeForKey returns the content type for well-known media suffixes,
// or empty when the store should decide.
func ContentTypeForKey(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".m3u8":
		return "application/vnd.apple.mpegurl"
	case ".ts", ".m2ts":
		return "video/MP2T"
	case ".mp4":
		return "video/mp4"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return ""
	}
}
