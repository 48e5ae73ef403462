package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrResolution marks failures to materialize a job input locally.
	ErrResolution = errors.New("input resolution error")
	// ErrEncode marks non-zero exits from the external encoder.
	ErrEncode = errors.New("encode error")
	// ErrCodec marks image decode/encode failures inside the process.
	ErrCodec = errors.New("codec library error")
	// ErrUnknownStep marks a pipeline step name missing from the handler table.
	ErrUnknownStep = errors.New("unknown step")
	// ErrUnsupportedKind marks inputs with no applicable default pipeline.
	ErrUnsupportedKind = errors.New("unsupported input kind")
	// ErrValidation marks bad requests rejected before a job is created.
	ErrValidation = errors.New("validation error")
)

// Wrap builds an error message that includes step context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, step, operation, message string, err error) error {
	detail := buildDetail(step, operation, message)
	if marker == nil {
		marker = errors.New("service failure")
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Truncate bounds a diagnostic message to at most limit bytes. Encoder stderr
// can run to megabytes; the job record only keeps the head.
func Truncate(message string, limit int) string {
	message = strings.TrimSpace(message)
	if limit <= 0 || len(message) <= limit {
		return message
	}
	return strings.TrimSpace(message[:limit])
}

func buildDetail(step, operation, message string) string {
	parts := make([]string, 0, 3)
	if step = strings.TrimSpace(step); step != "" {
		parts = append(parts, step)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
