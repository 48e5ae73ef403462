package testsupport

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"mediaforge/internal/storage"
)

// FakeObjectStore is an in-memory storage.ObjectStore used by executor and
// API tests. Objects live in a map; presigned URLs are deterministic strings.
type FakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	uploads []string

	// DownloadErr, when set, fails every Download call.
	DownloadErr error
	// UploadErr, when set, fails every Upload call.
	UploadErr error
}

var _ storage.ObjectStore = (*FakeObjectStore)(nil)

// NewFakeObjectStore returns an empty in-memory object store.
func NewFakeObjectStore() *FakeObjectStore {
	return &FakeObjectStore{objects: make(map[string][]byte)}
}

// Put seeds an object directly.
func (f *FakeObjectStore) Put(key string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = append([]byte(nil), data...)
}

// Get returns a stored object and whether it exists.
func (f *FakeObjectStore) Get(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	return data, ok
}

// Uploads returns the keys uploaded so far in call order.
func (f *FakeObjectStore) Uploads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.uploads...)
}

func (f *FakeObjectStore) Download(ctx context.Context, key, dst string) error {
	if f.DownloadErr != nil {
		return f.DownloadErr
	}
	f.mu.Lock()
	data, ok := f.objects[key]
	f.mu.Unlock()
	if !ok {
		return fmt.Errorf("object %q does not exist", key)
	}
	return os.WriteFile(dst, data, 0o644)
}

func (f *FakeObjectStore) Upload(ctx context.Context, localPath, key, contentType string) error {
	if f.UploadErr != nil {
		return f.UploadErr
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.objects[key] = data
	f.uploads = append(f.uploads, key)
	f.mu.Unlock()
	return nil
}

func (f *FakeObjectStore) UploadTree(ctx context.Context, localDir, keyPrefix string) error {
	return filepath.WalkDir(localDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(localDir, path)
		if err != nil {
			return err
		}
		return f.Upload(ctx, path, keyPrefix+"/"+filepath.ToSlash(rel), "")
	})
}

func (f *FakeObjectStore) PresignGet(ctx context.Context, key string) (string, error) {
	return "https://storage.test/" + key + "?signature=get", nil
}

func (f *FakeObjectStore) PresignPut(ctx context.Context, key, contentType string) (string, map[string]string, error) {
	headers := map[string]string{}
	if contentType != "" {
		headers["Content-Type"] = contentType
	}
	return "https://storage.test/" + key + "?signature=put", headers, nil
}

func (f *FakeObjectStore) ObjectURL(key string) string {
	return "http://storage.test/bucket/" + key
}
