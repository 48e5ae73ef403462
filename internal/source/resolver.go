package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mediaforge/internal/services"
	"mediaforge/internal/storage"
)

// Resolver materializes a job's declared input as a readable local file.
type Resolver struct {
	mediaRoot string
	store     storage.ObjectStore
}

// NewResolver constructs a resolver over the local media root and the object
// store used for remote inputs.
func NewResolver(mediaRoot string, store storage.ObjectStore) *Resolver {
	return &Resolver{mediaRoot: mediaRoot, store: store}
}

// Resolve returns a local path for the input reference. References that
// exist under the media root are used in place; anything else is treated as
// an object storage key and downloaded to a uniquely named temp file that
// preserves the original extension. The second return value reports whether
// the caller owns a temporary copy and must remove it.
func (r *Resolver) Resolve(ctx context.Context, inputRef string) (string, bool, error) {
	ref := strings.TrimSpace(inputRef)
	if ref == "" {
		return "", false, services.Wrap(services.ErrResolution, "", "resolve input", "empty input reference", nil)
	}

	local := filepath.Join(r.mediaRoot, filepath.FromSlash(ref))
	if info, err := os.Stat(local); err == nil && !info.IsDir() {
		return local, false, nil
	}

	if r.store == nil {
		return "", false, services.Wrap(services.ErrResolution, "", "resolve input",
			fmt.Sprintf("%s not found locally and no object store configured", ref), nil)
	}

	tmp, err := os.CreateTemp("", "mediaforge-*"+filepath.Ext(ref))
	if err != nil {
		return "", false, services.Wrap(services.ErrResolution, "", "create temp file", "", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", false, services.Wrap(services.ErrResolution, "", "close temp file", "", err)
	}

	if err := r.store.Download(ctx, ref, tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", false, services.Wrap(services.ErrResolution, "", "download input", ref, err)
	}

	return tmpPath, true, nil
}

// Cleanup removes a temporary input copy. Removal failures are swallowed:
// cleanup runs on every exit path and must never mask the job's outcome.
func Cleanup(path string, temporary bool) {
	if !temporary || path == "" {
		return
	}
	_ = os.Remove(path)
}
