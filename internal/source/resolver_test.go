package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediaforge/internal/services"
	"mediaforge/internal/testsupport"
)

func TestResolvePrefersLocalFile(t *testing.T) {
	root := t.TempDir()
	local := filepath.Join(root, "uploads", "photo.png")
	if err := os.MkdirAll(filepath.Dir(local), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(local, []byte("png-bytes"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	store := testsupport.NewFakeObjectStore()
	resolver := NewResolver(root, store)

	path, temp, err := resolver.Resolve(context.Background(), "uploads/photo.png")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if temp {
		t.Fatal("local input should not be marked temporary")
	}
	if path != local {
		t.Fatalf("path = %q, want %q", path, local)
	}
}

func TestResolveDownloadsRemoteInput(t *testing.T) {
	store := testsupport.NewFakeObjectStore()
	store.Put("uploads/clip.mp4", []byte("mp4-bytes"))
	resolver := NewResolver(t.TempDir(), store)

	path, temp, err := resolver.Resolve(context.Background(), "uploads/clip.mp4")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !temp {
		t.Fatal("downloaded input should be marked temporary")
	}
	if filepath.Ext(path) != ".mp4" {
		t.Fatalf("temp file %q lost the input extension", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read temp: %v", err)
	}
	if string(data) != "mp4-bytes" {
		t.Fatalf("temp contents = %q", data)
	}

	Cleanup(path, temp)
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("cleanup left %q behind", path)
	}
}

func TestResolveDownloadFailureRemovesTempFile(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Setenv("TMPDIR", tmpDir)

	store := testsupport.NewFakeObjectStore()
	store.DownloadErr = errors.New("connection refused")
	resolver := NewResolver(t.TempDir(), store)

	_, _, err := resolver.Resolve(context.Background(), "uploads/missing.mp4")
	if !errors.Is(err, services.ErrResolution) {
		t.Fatalf("err = %v, want ErrResolution", err)
	}
	if !strings.Contains(err.Error(), "uploads/missing.mp4") {
		t.Fatalf("error %q does not name the input", err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("read temp dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("temp file left behind after failed download: %v", entries)
	}
}

func TestResolveEmptyReference(t *testing.T) {
	resolver := NewResolver(t.TempDir(), testsupport.NewFakeObjectStore())
	if _, _, err := resolver.Resolve(context.Background(), "   "); !errors.Is(err, services.ErrResolution) {
		t.Fatalf("err = %v, want ErrResolution", err)
	}
}

func TestResolveWithoutStore(t *testing.T) {
	resolver := NewResolver(t.TempDir(), nil)
	_, _, err := resolver.Resolve(context.Background(), "uploads/clip.mp4")
	if !errors.Is(err, services.ErrResolution) {
		t.Fatalf("err = %v, want ErrResolution", err)
	}
}

func TestCleanupIgnoresNonTemporary(t *testing.T) {
	root := t.TempDir()
	local := filepath.Join(root, "keep.png")
	if err := os.WriteFile(local, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	Cleanup(local, false)
	if _, err := os.Stat(local); err != nil {
		t.Fatalf("non-temporary input removed: %v", err)
	}
}
