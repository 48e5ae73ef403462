package steps

import (
	"context"
	"image"

	"golang.org/x/image/draw"

	"mediaforge/internal/jobs"
	"mediaforge/internal/media"
	"mediaforge/internal/services"
	"mediaforge/internal/storage"
)

// thumbnailMaxEdge bounds the longest edge of generated thumbnails. Smaller
// inputs pass through at their native size.
const thumbnailMaxEdge = 512

// Thumbnail derives a bounded JPEG preview from an image input.
type Thumbnail struct {
	mediaRoot string
	store     storage.ObjectStore
}

// NewThumbnail builds the thumbnail step.
func NewThumbnail(mediaRoot string, store storage.ObjectStore) *Thumbnail {
	return &Thumbnail{mediaRoot: mediaRoot, store: store}
}

func (t *Thumbnail) Name() string { return media.StepThumbnail }

func (t *Thumbnail) Applicable(kind media.Kind) bool { return kind == media.KindImage }

func (t *Thumbnail) Run(ctx context.Context, localInput, baseName string) (jobs.OutputDescriptor, error) {
	src, err := decodeImage(media.StepThumbnail, localInput)
	if err != nil {
		return jobs.OutputDescriptor{}, err
	}

	key := outputKey(baseName + "_thumb.jpg")
	localPath := localOutputPath(t.mediaRoot, key)
	if err := encodeJPEG(media.StepThumbnail, localPath, scaleToFit(src, thumbnailMaxEdge)); err != nil {
		return jobs.OutputDescriptor{}, err
	}
	if err := t.store.Upload(ctx, localPath, key, "image/jpeg"); err != nil {
		return jobs.OutputDescriptor{}, services.Wrap(nil, media.StepThumbnail, "upload", "store thumbnail", err)
	}
	return jobs.OutputDescriptor{Type: "thumbnail", Key: key}, nil
}

// scaleToFit shrinks img so its longest edge is at most maxEdge, preserving
// aspect ratio. Inputs already within bounds are returned unchanged.
func scaleToFit(img image.Image, maxEdge int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	longest := width
	if height > longest {
		longest = height
	}
	if longest <= maxEdge {
		return img
	}

	scaledW := width * maxEdge / longest
	scaledH := height * maxEdge / longest
	if scaledW < 1 {
		scaledW = 1
	}
	if scaledH < 1 {
		scaledH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, scaledW, scaledH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
