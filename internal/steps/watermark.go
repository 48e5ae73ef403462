package steps

import (
	"context"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"mediaforge/internal/jobs"
	"mediaforge/internal/media"
	"mediaforge/internal/services"
	"mediaforge/internal/storage"
)

const (
	watermarkText     = "MEDIAFORGE"
	watermarkMinPad   = 8
	watermarkAlpha    = 180
	watermarkPadRatio = 50 // pad is the shorter edge divided by this, floored at watermarkMinPad
)

// Watermark stamps translucent branding text near the bottom-right corner of
// an image input and emits the flattened JPEG.
type Watermark struct {
	mediaRoot string
	store     storage.ObjectStore
}

// NewWatermark builds the watermark step.
func NewWatermark(mediaRoot string, store storage.ObjectStore) *Watermark {
	return &Watermark{mediaRoot: mediaRoot, store: store}
}

func (w *Watermark) Name() string { return media.StepWatermark }

func (w *Watermark) Applicable(kind media.Kind) bool { return kind == media.KindImage }

func (w *Watermark) Run(ctx context.Context, localInput, baseName string) (jobs.OutputDescriptor, error) {
	src, err := decodeImage(media.StepWatermark, localInput)
	if err != nil {
		return jobs.OutputDescriptor{}, err
	}

	key := outputKey(baseName + "_wm.jpg")
	localPath := localOutputPath(w.mediaRoot, key)
	if err := encodeJPEG(media.StepWatermark, localPath, stampWatermark(src)); err != nil {
		return jobs.OutputDescriptor{}, err
	}
	if err := w.store.Upload(ctx, localPath, key, "image/jpeg"); err != nil {
		return jobs.OutputDescriptor{}, services.Wrap(nil, media.StepWatermark, "upload", "store watermarked image", err)
	}
	return jobs.OutputDescriptor{Type: "watermark", Key: key}, nil
}

// stampWatermark composites the branding text over a copy of src. The text
// sits inset from the bottom-right corner by a pad proportional to the image
// size so small and large inputs read the same.
func stampWatermark(src image.Image) image.Image {
	bounds := src.Bounds()
	flat := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(flat, flat.Bounds(), src, bounds.Min, xdraw.Src)

	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, watermarkText).Ceil()
	pad := watermarkPad(bounds)

	x := bounds.Dx() - textWidth - pad
	y := bounds.Dy() - pad
	if x < 0 {
		x = 0
	}
	if y < face.Ascent {
		y = face.Ascent
	}

	drawer := &font.Drawer{
		Dst:  flat,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: watermarkAlpha}),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(watermarkText)
	return flat
}

func watermarkPad(bounds image.Rectangle) int {
	shorter := bounds.Dx()
	if bounds.Dy() < shorter {
		shorter = bounds.Dy()
	}
	pad := shorter / watermarkPadRatio
	if pad < watermarkMinPad {
		pad = watermarkMinPad
	}
	return pad
}
