package media_test

import (
	"errors"
	"reflect"
	"testing"

	"mediaforge/internal/media"
	"mediaforge/internal/services"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  media.Kind
	}{
		{"jpeg", "uploads/photo.jpg", media.KindImage},
		{"png upper", "PHOTO.PNG", media.KindImage},
		{"mp4", "clips/movie.mp4", media.KindVideo},
		{"mkv", "movie.MKV", media.KindVideo},
		{"pdf", "doc.pdf", media.KindOther},
		{"no extension", "README", media.KindOther},
		{"empty", "", media.KindOther},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := media.Classify(tc.input); got != tc.want {
				t.Fatalf("Classify(%q) = %s, want %s", tc.input, got, tc.want)
			}
		})
	}
}

func TestBaseName(t *testing.T) {
	if got := media.BaseName("uploads/abc123_photo.jpg"); got != "abc123_photo" {
		t.Fatalf("unexpected base name %q", got)
	}
	if got := media.BaseName("movie.mp4"); got != "movie" {
		t.Fatalf("unexpected base name %q", got)
	}
}

func TestValidatePipelineDeduplicates(t *testing.T) {
	got, err := media.ValidatePipeline([]string{"thumbnail", "watermark", "thumbnail"})
	if err != nil {
		t.Fatalf("ValidatePipeline failed: %v", err)
	}
	want := []string{"thumbnail", "watermark"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestValidatePipelineRejectsUnknownSteps(t *testing.T) {
	_, err := media.ValidatePipeline([]string{"thumbnail", "deinterlace"})
	if err == nil {
		t.Fatal("expected error for unknown step")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
}

func TestValidatePipelineEmptyStaysEmpty(t *testing.T) {
	got, err := media.ValidatePipeline(nil)
	if err != nil {
		t.Fatalf("ValidatePipeline failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty pipeline, got %v", got)
	}
}

func TestDefaultPipeline(t *testing.T) {
	if got := media.DefaultPipeline(media.KindImage); !reflect.DeepEqual(got, []string{"thumbnail"}) {
		t.Fatalf("unexpected image default %v", got)
	}
	if got := media.DefaultPipeline(media.KindVideo); !reflect.DeepEqual(got, []string{"transcode_720p"}) {
		t.Fatalf("unexpected video default %v", got)
	}
	if got := media.DefaultPipeline(media.KindOther); got != nil {
		t.Fatalf("expected nil default for other, got %v", got)
	}
}
