package api

import "time"

// CreateJobRequest triggers processing of an object storage key or a path
// under the media root.
type CreateJobRequest struct {
	Key      string   `json:"key"`
	Pipeline []string `json:"pipeline,omitempty"`
}

// CreateJobResponse acknowledges an accepted job.
type CreateJobResponse struct {
	JobID string `json:"job_id"`
}

// PresignRequest asks for a direct-to-storage upload slot.
type PresignRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
}

// PresignResponse carries the upload URL. Headers are suggestions for the
// client PUT; none of them participate in the signature.
type PresignResponse struct {
	Key     string            `json:"key"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
}

// OutputView is a stored output descriptor enriched with a fetchable URL.
type OutputView struct {
	Type string `json:"type"`
	Key  string `json:"key"`
	URL  string `json:"url,omitempty"`
}

// JobView is the job DTO returned by the status endpoints.
type JobView struct {
	ID        string       `json:"id"`
	InputRef  string       `json:"input_ref"`
	InputURL  string       `json:"input_url,omitempty"`
	Status    string       `json:"status"`
	Progress  int          `json:"progress"`
	Pipeline  []string     `json:"pipeline"`
	Outputs   []OutputView `json:"outputs"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// JobListResponse wraps the job collection endpoint.
type JobListResponse struct {
	Jobs []JobView `json:"jobs"`
}

// HealthResponse reports daemon liveness plus job counts per status.
type HealthResponse struct {
	Status  string `json:"status"`
	Total   int    `json:"total"`
	Pending int    `json:"pending"`
	Started int    `json:"started"`
	Success int    `json:"success"`
	Failure int    `json:"failure"`
}
