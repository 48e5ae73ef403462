package pipeline_test

import (
	"testing"

	"mediaforge/internal/pipeline"
)

func TestProgressFor(t *testing.T) {
	cases := []struct {
		index, total, want int
	}{
		{0, 0, 100},
		{0, -1, 100},
		{0, 1, 10},
		{1, 1, 95},
		{0, 2, 10},
		{1, 2, 52},
		{2, 2, 95},
		{0, 3, 10},
		{1, 3, 38},
		{2, 3, 66},
		{3, 3, 95},
		{-1, 3, 10},
		{9, 3, 95},
	}
	for _, tc := range cases {
		if got := pipeline.ProgressFor(tc.index, tc.total); got != tc.want {
			t.Errorf("ProgressFor(%d, %d) = %d, want %d", tc.index, tc.total, got, tc.want)
		}
	}
}

func TestProgressForStaysInsideBand(t *testing.T) {
	for total := 1; total <= 10; total++ {
		for index := 0; index <= total; index++ {
			got := pipeline.ProgressFor(index, total)
			if got < 10 || got > 95 {
				t.Fatalf("ProgressFor(%d, %d) = %d escapes the 10..95 band", index, total, got)
			}
		}
	}
}
