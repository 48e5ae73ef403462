package steps

import (
	"context"
	"os"
	"path/filepath"

	"mediaforge/internal/ffmpeg"
	"mediaforge/internal/jobs"
	"mediaforge/internal/media"
	"mediaforge/internal/services"
	"mediaforge/internal/storage"
)

// Transcode720p re-encodes a video input to a 720p H.264 MP4.
type Transcode720p struct {
	mediaRoot string
	store     storage.ObjectStore
	client    *ffmpeg.Client
}

// NewTranscode720p builds the 720p transcode step.
func NewTranscode720p(mediaRoot string, store storage.ObjectStore, client *ffmpeg.Client) *Transcode720p {
	return &Transcode720p{mediaRoot: mediaRoot, store: store, client: client}
}

func (t *Transcode720p) Name() string { return media.StepTranscode720p }

func (t *Transcode720p) Applicable(kind media.Kind) bool { return kind == media.KindVideo }

func (t *Transcode720p) Run(ctx context.Context, localInput, baseName string) (jobs.OutputDescriptor, error) {
	key := outputKey(baseName + "_720p.mp4")
	localPath := localOutputPath(t.mediaRoot, key)
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return jobs.OutputDescriptor{}, services.Wrap(nil, media.StepTranscode720p, "prepare", "create output directory", err)
	}
	if err := t.client.Transcode720p(ctx, localInput, localPath); err != nil {
		return jobs.OutputDescriptor{}, err
	}
	if err := t.store.Upload(ctx, localPath, key, "video/mp4"); err != nil {
		return jobs.OutputDescriptor{}, services.Wrap(nil, media.StepTranscode720p, "upload", "store transcoded video", err)
	}
	return jobs.OutputDescriptor{Type: "video_720p", Key: key}, nil
}
