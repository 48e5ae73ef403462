package steps

import (
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"mediaforge/internal/services"
)

const jpegQuality = 90

func decodeImage(step, path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrCodec, step, "decode", "open input image", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, services.Wrap(services.ErrCodec, step, "decode", "decode input image", err)
	}
	return img, nil
}

func encodeJPEG(step, path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return services.Wrap(services.ErrCodec, step, "encode", "create output directory", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return services.Wrap(services.ErrCodec, step, "encode", "create output image", err)
	}
	if err := jpeg.Encode(file, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		file.Close()
		return services.Wrap(services.ErrCodec, step, "encode", "encode output image", err)
	}
	if err := file.Close(); err != nil {
		return services.Wrap(services.ErrCodec, step, "encode", "flush output image", err)
	}
	return nil
}

func outputKey(parts ...string) string {
	key := "outputs"
	for _, part := range parts {
		key = key + "/" + part
	}
	return key
}

func localOutputPath(mediaRoot string, key string) string {
	return filepath.Join(mediaRoot, filepath.FromSlash(key))
}
