package media

import (
	"mime"
	"path/filepath"
	"strings"
)

// Kind is the coarse classification of an input used to gate step applicability.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindOther Kind = "other"
)

// Extensions the platform mime table occasionally lacks. Classification must
// not depend on the host's /etc/mime.types contents.
var extensionKinds = map[string]Kind{
	".jpg":  KindImage,
	".jpeg": KindImage,
	".png":  KindImage,
	".gif":  KindImage,
	".webp": KindImage,
	".bmp":  KindImage,
	".mp4":  KindVideo,
	".mov":  KindVideo,
	".mkv":  KindVideo,
	".avi":  KindVideo,
	".webm": KindVideo,
	".m4v":  KindVideo,
	".mpg":  KindVideo,
	".mpeg": KindVideo,
	".ts":   KindVideo,
}

// Classify derives the input kind from a file name or storage key. It is pure
// and total: unrecognized extensions classify as KindOther.
func Classify(nameOrKey string) Kind {
	ext := strings.ToLower(filepath.Ext(nameOrKey))
	if ext == "" {
		return KindOther
	}
	if kind, ok := extensionKinds[ext]; ok {
		return kind
	}
	switch mimeType := mime.TypeByExtension(ext); {
	case strings.HasPrefix(mimeType, "image/"):
		return KindImage
	case strings.HasPrefix(mimeType, "video/"):
		return KindVideo
	default:
		return KindOther
	}
}

// BaseName returns the file stem used to derive output names, stripped of
// any directory prefix and extension.
func BaseName(nameOrKey string) string {
	base := filepath.Base(nameOrKey)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
