package media

import (
	"fmt"
	"sort"
	"strings"

	"mediaforge/internal/services"
)

// Step names accepted in a job pipeline.
const (
	StepThumbnail     = "thumbnail"
	StepWatermark     = "watermark"
	StepTranscode720p = "transcode_720p"
	StepHLS720p       = "hls_720p"
)

var allowedSteps = map[string]struct{}{
	StepThumbnail:     {},
	StepWatermark:     {},
	StepTranscode720p: {},
	StepHLS720p:       {},
}

// AllowedSteps returns the sorted step allow-list for error messages and docs.
func AllowedSteps() []string {
	steps := make([]string, 0, len(allowedSteps))
	for step := range allowedSteps {
		steps = append(steps, step)
	}
	sort.Strings(steps)
	return steps
}

// ValidatePipeline checks requested step names against the allow-list and
// removes duplicates while preserving first-occurrence order. An empty input
// returns an empty pipeline; defaulting happens at execution time.
func ValidatePipeline(steps []string) ([]string, error) {
	if len(steps) == 0 {
		return nil, nil
	}

	var bad []string
	seen := make(map[string]struct{}, len(steps))
	validated := make([]string, 0, len(steps))
	for _, step := range steps {
		name := strings.TrimSpace(step)
		if name == "" {
			continue
		}
		if _, ok := allowedSteps[name]; !ok {
			bad = append(bad, name)
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		validated = append(validated, name)
	}
	if len(bad) > 0 {
		message := fmt.Sprintf("unsupported steps %v, allowed: %v", bad, AllowedSteps())
		return nil, services.Wrap(services.ErrValidation, "", "validate pipeline", message, nil)
	}
	return validated, nil
}

// DefaultPipeline selects the pipeline used when a job declares none.
// Inputs of KindOther have no default; callers fail the request or the job.
func DefaultPipeline(kind Kind) []string {
	switch kind {
	case KindImage:
		return []string{StepThumbnail}
	case KindVideo:
		return []string{StepTranscode720p}
	default:
		return nil
	}
}
