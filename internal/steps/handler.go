package steps

import (
	"context"

	"mediaforge/internal/config"
	"mediaforge/internal/ffmpeg"
	"mediaforge/internal/jobs"
	"mediaforge/internal/media"
	"mediaforge/internal/storage"
)

// Handler describes the contract the pipeline executor needs from each step.
type Handler interface {
	// Name reports the step identifier used in job pipelines.
	Name() string
	// Applicable reports whether the step can process the given media kind.
	// Inapplicable steps are skipped, not failed.
	Applicable(kind media.Kind) bool
	// Run processes the local input and returns the descriptor for the
	// artifact it produced. baseName is the input name without extension and
	// seeds output naming.
	Run(ctx context.Context, localInput, baseName string) (jobs.OutputDescriptor, error)
}

// Registry resolves step names to handlers.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry builds a registry from the given handlers.
func NewRegistry(handlers ...Handler) *Registry {
	reg := &Registry{handlers: make(map[string]Handler, len(handlers))}
	for _, handler := range handlers {
		if handler == nil {
			continue
		}
		reg.handlers[handler.Name()] = handler
	}
	return reg
}

// NewDefaultRegistry wires the full step library against the configured media
// root, object store, and ffmpeg client.
func NewDefaultRegistry(cfg *config.Config, store storage.ObjectStore, client *ffmpeg.Client) *Registry {
	mediaRoot := cfg.Paths.MediaRoot
	return NewRegistry(
		NewThumbnail(mediaRoot, store),
		NewWatermark(mediaRoot, store),
		NewTranscode720p(mediaRoot, store, client),
		NewHLS720p(mediaRoot, store, client),
	)
}

// Lookup returns the handler registered under name.
func (r *Registry) Lookup(name string) (Handler, bool) {
	if r == nil {
		return nil, false
	}
	handler, ok := r.handlers[name]
	return handler, ok
}
