package jobs

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a job.
type Status string

const (
	StatusPending Status = "pending"
	StatusStarted Status = "started"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

var allStatuses = []Status{
	StatusPending,
	StatusStarted,
	StatusSuccess,
	StatusFailure,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Terminal reports whether a status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailure
}

// OutputDescriptor identifies one artifact produced by a pipeline step.
// Key is an object storage key, or a path relative to the media root for
// jobs processed entirely locally.
type OutputDescriptor struct {
	Type string `json:"type"`
	Key  string `json:"key"`
}

// Job represents a transformation job persisted in SQLite.
type Job struct {
	ID           string
	InputRef     string
	Status       Status
	Progress     int
	Pipeline     []string
	Outputs      []OutputDescriptor
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HealthSummary describes aggregated job counts per lifecycle state.
type HealthSummary struct {
	Total   int
	Pending int
	Started int
	Success int
	Failure int
}
