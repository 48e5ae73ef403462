package steps_test

import (
	"context"
	"errors"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"mediaforge/internal/ffmpeg"
	"mediaforge/internal/media"
	"mediaforge/internal/services"
	"mediaforge/internal/steps"
	"mediaforge/internal/testsupport"
)

func decodeLocalJPEG(t *testing.T, path string) image.Image {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer file.Close()
	img, err := jpeg.Decode(file)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

func TestThumbnailDownscalesLongestEdge(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.NewFakeObjectStore()
	input := filepath.Join(t.TempDir(), "photo.png")
	testsupport.WriteImage(t, input, 1600, 900)

	handler := steps.NewThumbnail(cfg.Paths.MediaRoot, store)
	desc, err := handler.Run(context.Background(), input, "photo")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if desc.Type != "thumbnail" {
		t.Fatalf("unexpected descriptor type %q", desc.Type)
	}
	if desc.Key != "outputs/photo_thumb.jpg" {
		t.Fatalf("unexpected key %q", desc.Key)
	}
	if _, ok := store.Get(desc.Key); !ok {
		t.Fatalf("thumbnail not uploaded under %q", desc.Key)
	}

	img := decodeLocalJPEG(t, filepath.Join(cfg.Paths.MediaRoot, "outputs", "photo_thumb.jpg"))
	bounds := img.Bounds()
	if bounds.Dx() != 512 {
		t.Fatalf("expected width 512, got %d", bounds.Dx())
	}
	if bounds.Dy() != 288 {
		t.Fatalf("expected height 288, got %d", bounds.Dy())
	}
}

func TestThumbnailKeepsSmallInputs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.NewFakeObjectStore()
	input := filepath.Join(t.TempDir(), "tiny.png")
	testsupport.WriteImage(t, input, 200, 100)

	handler := steps.NewThumbnail(cfg.Paths.MediaRoot, store)
	if _, err := handler.Run(context.Background(), input, "tiny"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	img := decodeLocalJPEG(t, filepath.Join(cfg.Paths.MediaRoot, "outputs", "tiny_thumb.jpg"))
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 100 {
		t.Fatalf("expected 200x100 passthrough, got %v", img.Bounds())
	}
}

func TestThumbnailRejectsCorruptInput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.NewFakeObjectStore()
	input := filepath.Join(t.TempDir(), "broken.jpg")
	if err := os.WriteFile(input, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	handler := steps.NewThumbnail(cfg.Paths.MediaRoot, store)
	_, err := handler.Run(context.Background(), input, "broken")
	if !errors.Is(err, services.ErrCodec) {
		t.Fatalf("expected codec marker, got %v", err)
	}
	if uploads := store.Uploads(); len(uploads) != 0 {
		t.Fatalf("expected no uploads, got %v", uploads)
	}
}

func TestWatermarkProducesFlattenedJPEG(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.NewFakeObjectStore()
	input := filepath.Join(t.TempDir(), "banner.png")
	testsupport.WriteImage(t, input, 640, 480)

	handler := steps.NewWatermark(cfg.Paths.MediaRoot, store)
	desc, err := handler.Run(context.Background(), input, "banner")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if desc.Type != "watermark" || desc.Key != "outputs/banner_wm.jpg" {
		t.Fatalf("unexpected descriptor %+v", desc)
	}

	img := decodeLocalJPEG(t, filepath.Join(cfg.Paths.MediaRoot, "outputs", "banner_wm.jpg"))
	if img.Bounds().Dx() != 640 || img.Bounds().Dy() != 480 {
		t.Fatalf("watermark must preserve dimensions, got %v", img.Bounds())
	}
	if _, ok := store.Get(desc.Key); !ok {
		t.Fatalf("watermarked image not uploaded under %q", desc.Key)
	}
}

func TestWatermarkHandlesTinyImages(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.NewFakeObjectStore()
	input := filepath.Join(t.TempDir(), "dot.png")
	testsupport.WriteImage(t, input, 16, 16)

	handler := steps.NewWatermark(cfg.Paths.MediaRoot, store)
	if _, err := handler.Run(context.Background(), input, "dot"); err != nil {
		t.Fatalf("Run failed on tiny input: %v", err)
	}
}

type scriptedExecutor struct {
	writeOutputs bool
	stderr       string
	err          error
	calls        [][]string
}

func (s *scriptedExecutor) Run(ctx context.Context, binary string, args []string) (string, error) {
	s.calls = append(s.calls, args)
	if s.writeOutputs && len(args) > 0 {
		// Final positional arg is the output target for both arg shapes.
		out := args[len(args)-1]
		if err := os.WriteFile(out, []byte("encoded"), 0o644); err != nil {
			return "", err
		}
	}
	return s.stderr, s.err
}

func TestTranscode720pUploadsOutput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.NewFakeObjectStore()
	exec := &scriptedExecutor{writeOutputs: true}
	client, err := ffmpeg.New("ffmpeg", ffmpeg.WithExecutor(exec))
	if err != nil {
		t.Fatalf("ffmpeg.New failed: %v", err)
	}
	input := filepath.Join(t.TempDir(), "clip.mp4")
	testsupport.WriteFile(t, input, 64)

	handler := steps.NewTranscode720p(cfg.Paths.MediaRoot, store, client)
	desc, err := handler.Run(context.Background(), input, "clip")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if desc.Type != "video_720p" || desc.Key != "outputs/clip_720p.mp4" {
		t.Fatalf("unexpected descriptor %+v", desc)
	}
	if _, ok := store.Get(desc.Key); !ok {
		t.Fatalf("transcoded video not uploaded under %q", desc.Key)
	}
	if len(exec.calls) != 1 {
		t.Fatalf("expected one ffmpeg invocation, got %d", len(exec.calls))
	}
}

func TestTranscode720pPropagatesEncodeFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.NewFakeObjectStore()
	exec := &scriptedExecutor{stderr: "Invalid data found when processing input", err: errors.New("exit status 1")}
	client, err := ffmpeg.New("ffmpeg", ffmpeg.WithExecutor(exec))
	if err != nil {
		t.Fatalf("ffmpeg.New failed: %v", err)
	}
	input := filepath.Join(t.TempDir(), "bad.mp4")
	testsupport.WriteFile(t, input, 64)

	handler := steps.NewTranscode720p(cfg.Paths.MediaRoot, store, client)
	_, runErr := handler.Run(context.Background(), input, "bad")
	if !errors.Is(runErr, services.ErrEncode) {
		t.Fatalf("expected encode marker, got %v", runErr)
	}
	if uploads := store.Uploads(); len(uploads) != 0 {
		t.Fatalf("expected no uploads after failure, got %v", uploads)
	}
}

func TestHLS720pUploadsRenditionTree(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.NewFakeObjectStore()
	exec := &scriptedExecutor{}
	client, err := ffmpeg.New("ffmpeg", ffmpeg.WithExecutor(exec))
	if err != nil {
		t.Fatalf("ffmpeg.New failed: %v", err)
	}
	input := filepath.Join(t.TempDir(), "movie.mp4")
	testsupport.WriteFile(t, input, 64)

	hlsDir := filepath.Join(cfg.Paths.MediaRoot, "outputs", "hls", "movie")
	handler := steps.NewHLS720p(cfg.Paths.MediaRoot, store, client)
	// Pre-create the rendition files the executor would have produced; the
	// scripted executor does not understand HLS flags.
	if err := os.MkdirAll(hlsDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range []string{"index.m3u8", "seg_0000.ts", "seg_0001.ts"} {
		if err := os.WriteFile(filepath.Join(hlsDir, name), []byte(name), 0o644); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	desc, err := handler.Run(context.Background(), input, "movie")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if desc.Type != "hls_720p" {
		t.Fatalf("unexpected descriptor type %q", desc.Type)
	}
	if desc.Key != "outputs/hls/movie/index.m3u8" {
		t.Fatalf("descriptor must point at the playlist, got %q", desc.Key)
	}
	for _, key := range []string{
		"outputs/hls/movie/index.m3u8",
		"outputs/hls/movie/seg_0000.ts",
		"outputs/hls/movie/seg_0001.ts",
	} {
		if _, ok := store.Get(key); !ok {
			t.Fatalf("expected %q in object store", key)
		}
	}
}

func TestDefaultRegistryCoversAllSteps(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.NewFakeObjectStore()
	client, err := ffmpeg.New("ffmpeg")
	if err != nil {
		t.Fatalf("ffmpeg.New failed: %v", err)
	}

	registry := steps.NewDefaultRegistry(cfg, store, client)
	for _, name := range media.AllowedSteps() {
		handler, ok := registry.Lookup(name)
		if !ok {
			t.Fatalf("registry missing handler for %q", name)
		}
		if handler.Name() != name {
			t.Fatalf("handler %q registered under %q", handler.Name(), name)
		}
	}
	if _, ok := registry.Lookup("shred"); ok {
		t.Fatal("unexpected handler for unknown step")
	}
}

func TestApplicability(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.NewFakeObjectStore()
	client, err := ffmpeg.New("ffmpeg")
	if err != nil {
		t.Fatalf("ffmpeg.New failed: %v", err)
	}
	registry := steps.NewDefaultRegistry(cfg, store, client)

	cases := []struct {
		step  string
		kind  media.Kind
		wants bool
	}{
		{media.StepThumbnail, media.KindImage, true},
		{media.StepThumbnail, media.KindVideo, false},
		{media.StepWatermark, media.KindImage, true},
		{media.StepWatermark, media.KindOther, false},
		{media.StepTranscode720p, media.KindVideo, true},
		{media.StepTranscode720p, media.KindImage, false},
		{media.StepHLS720p, media.KindVideo, true},
		{media.StepHLS720p, media.KindImage, false},
	}
	for _, tc := range cases {
		handler, ok := registry.Lookup(tc.step)
		if !ok {
			t.Fatalf("missing handler %q", tc.step)
		}
		if got := handler.Applicable(tc.kind); got != tc.wants {
			t.Fatalf("%s applicable to %s = %v, want %v", tc.step, tc.kind, got, tc.wants)
		}
	}
}
