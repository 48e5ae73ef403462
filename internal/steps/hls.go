package steps

import (
	"context"
	"os"

	"mediaforge/internal/ffmpeg"
	"mediaforge/internal/jobs"
	"mediaforge/internal/media"
	"mediaforge/internal/services"
	"mediaforge/internal/storage"
)

// HLS720p segments a video input into a 720p HLS rendition. The descriptor
// key points at the playlist; segment keys live beside it under the same
// prefix.
type HLS720p struct {
	mediaRoot string
	store     storage.ObjectStore
	client    *ffmpeg.Client
}

// NewHLS720p builds the HLS segmentation step.
func NewHLS720p(mediaRoot string, store storage.ObjectStore, client *ffmpeg.Client) *HLS720p {
	return &HLS720p{mediaRoot: mediaRoot, store: store, client: client}
}

func (h *HLS720p) Name() string { return media.StepHLS720p }

func (h *HLS720p) Applicable(kind media.Kind) bool { return kind == media.KindVideo }

func (h *HLS720p) Run(ctx context.Context, localInput, baseName string) (jobs.OutputDescriptor, error) {
	prefix := outputKey("hls", baseName)
	localDir := localOutputPath(h.mediaRoot, prefix)
	if err := os.MkdirAll(localDir, 0o755); err != nil {
		return jobs.OutputDescriptor{}, services.Wrap(nil, media.StepHLS720p, "prepare", "create output directory", err)
	}
	if err := h.client.HLS720p(ctx, localInput, localDir); err != nil {
		return jobs.OutputDescriptor{}, err
	}
	if err := h.store.UploadTree(ctx, localDir, prefix); err != nil {
		return jobs.OutputDescriptor{}, services.Wrap(nil, media.StepHLS720p, "upload", "store HLS rendition", err)
	}
	return jobs.OutputDescriptor{Type: "hls_720p", Key: prefix + "/" + ffmpeg.PlaylistName}, nil
}
