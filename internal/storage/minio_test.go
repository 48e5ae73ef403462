package storage_test

import (
	"testing"

	"mediaforge/internal/storage"
)

func TestContentTypeForKey(t *testing.T) {
	cases := []struct {
		key  string
		want string
	}{
		{"outputs/hls/movie/index.m3u8", "application/vnd.apple.mpegurl"},
		{"outputs/hls/movie/seg_0001.ts", "video/MP2T"},
		{"outputs/movie_720p.mp4", "video/mp4"},
		{"outputs/photo_thumb.jpg", "image/jpeg"},
		{"outputs/photo.PNG", "image/png"},
		{"outputs/readme.txt", ""},
	}
	for _, tc := range cases {
		if got := storage.ContentTypeForKey(tc.key); got != tc.want {
			t.Fatalf("ContentTypeForKey(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
}
