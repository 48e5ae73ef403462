package fileutil_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediaforge/internal/fileutil"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	if err := os.WriteFile(src, []byte("payload"), 0o600); err != nil {
		t.Fatalf("write src: %v", err)
	}

	if err := fileutil.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("unexpected copy contents %q", data)
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := fileutil.CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst")); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestSaveStreamCreatesParents(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "nested", "deep", "file.txt")

	n, err := fileutil.SaveStream(strings.NewReader("streamed"), dst)
	if err != nil {
		t.Fatalf("SaveStream failed: %v", err)
	}
	if n != int64(len("streamed")) {
		t.Fatalf("expected %d bytes written, got %d", len("streamed"), n)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	if string(data) != "streamed" {
		t.Fatalf("unexpected contents %q", data)
	}
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"photo.png":            "photo.png",
		"../../etc/passwd":     "passwd",
		"my file (1).jpg":      "my_file__1_.jpg",
		"":                     "upload",
		"....":                 "upload",
		"Clip-Final_v2.mp4":    "Clip-Final_v2.mp4",
		"/abs/path/to/img.png": "img.png",
	}
	for input, want := range cases {
		if got := fileutil.SanitizeName(input); got != want {
			t.Errorf("SanitizeName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestUniqueUploadName(t *testing.T) {
	got := fileutil.UniqueUploadName("deadbeef", "../sneaky.png")
	if got != "deadbeef_sneaky.png" {
		t.Fatalf("unexpected name %q", got)
	}
}
