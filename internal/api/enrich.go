package api

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"mediaforge/internal/jobs"
	"mediaforge/internal/logging"
)

// jobView converts a stored job into its DTO. Output and input URLs are
// computed per request: keys backed by a file under the media root get a
// /media/ URL, everything else gets a fresh presigned GET. Failures degrade
// to a view without a URL rather than failing the request.
func (s *Server) jobView(ctx context.Context, job *jobs.Job) JobView {
	outputs := make([]OutputView, 0, len(job.Outputs))
	for _, desc := range job.Outputs {
		outputs = append(outputs, OutputView{
			Type: desc.Type,
			Key:  desc.Key,
			URL:  s.resolveURL(ctx, desc.Key),
		})
	}
	return JobView{
		ID:        job.ID,
		InputRef:  job.InputRef,
		InputURL:  s.resolveURL(ctx, job.InputRef),
		Status:    string(job.Status),
		Progress:  job.Progress,
		Pipeline:  job.Pipeline,
		Outputs:   outputs,
		Error:     job.ErrorMessage,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
}

func (s *Server) resolveURL(ctx context.Context, key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	local := filepath.Join(s.cfg.Paths.MediaRoot, filepath.FromSlash(key))
	if info, err := os.Stat(local); err == nil && !info.IsDir() {
		return s.mediaURL(key)
	}
	if s.objects == nil {
		return ""
	}
	signed, err := s.objects.PresignGet(ctx, key)
	if err != nil {
		logging.WithContext(ctx, s.logger).Warn("presign failed for job view", logging.Error(err))
		return ""
	}
	return signed
}

func (s *Server) mediaURL(key string) string {
	path := "/media/" + url.PathEscape(key)
	// PathEscape encodes the separators too; undo that so the static file
	// server sees real path segments.
	path = strings.ReplaceAll(path, "%2F", "/")
	base := strings.TrimRight(strings.TrimSpace(s.cfg.Paths.PublicURL), "/")
	return base + path
}
