package api

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"log/slog"

	"github.com/google/uuid"

	"mediaforge/internal/fileutil"
	"mediaforge/internal/jobs"
	"mediaforge/internal/logging"
	"mediaforge/internal/media"
	"mediaforge/internal/services"
)

// maxUploadBytes bounds multipart uploads accepted over the API.
const maxUploadBytes = 4 << 30

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createJob(w, r)
	case http.MethodGet:
		s.listJobs(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) createJob(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	key := strings.TrimSpace(req.Key)
	if key == "" {
		s.writeError(w, http.StatusBadRequest, "key is required")
		return
	}

	pipeline, err := media.ValidatePipeline(req.Pipeline)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(pipeline) == 0 {
		// Defaulted here so the rejection surfaces at trigger time; jobs
		// created with an explicit pipeline keep it verbatim.
		pipeline = media.DefaultPipeline(media.Classify(key))
		if len(pipeline) == 0 {
			s.writeError(w, http.StatusBadRequest, "unsupported file type; no pipeline.")
			return
		}
	}

	job, err := s.store.Create(r.Context(), key, pipeline)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.kickWorkers()

	log := logging.WithContext(services.WithJobID(r.Context(), job.ID), s.logger)
	log.Info("job accepted",
		slog.String(logging.FieldEventType, "job_accepted"),
		slog.String("input_ref", key))
	s.writeJSON(w, http.StatusAccepted, CreateJobResponse{JobID: job.ID})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	name := fileutil.UniqueUploadName(token, header.Filename)
	inputRef := "uploads/" + name
	dst := filepath.Join(s.cfg.Paths.MediaRoot, "uploads", name)
	if _, err := fileutil.SaveStream(file, dst); err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	// Pipeline left empty: the executor derives the default from the
	// classified kind at run time.
	job, err := s.store.Create(r.Context(), inputRef, nil)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.kickWorkers()

	log := logging.WithContext(services.WithJobID(r.Context(), job.ID), s.logger)
	log.Info("upload accepted",
		slog.String(logging.FieldEventType, "upload_accepted"),
		slog.String("input_ref", inputRef),
		slog.Int64("bytes", header.Size))
	s.writeJSON(w, http.StatusAccepted, CreateJobResponse{JobID: job.ID})
}

func (s *Server) handleJobByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/jobs/")
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}

	job, err := s.store.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if job == nil {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}
	s.writeJSON(w, http.StatusOK, s.jobView(r.Context(), job))
}

func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	var statuses []jobs.Status
	for _, value := range r.URL.Query()["status"] {
		status, ok := jobs.ParseStatus(value)
		if !ok {
			s.writeError(w, http.StatusBadRequest, "unknown status "+value)
			return
		}
		statuses = append(statuses, status)
	}

	list, err := s.store.List(r.Context(), statuses...)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	views := make([]JobView, 0, len(list))
	for _, job := range list {
		views = append(views, s.jobView(r.Context(), job))
	}
	s.writeJSON(w, http.StatusOK, JobListResponse{Jobs: views})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	summary, err := s.store.Health(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Total:   summary.Total,
		Pending: summary.Pending,
		Started: summary.Started,
		Success: summary.Success,
		Failure: summary.Failure,
	})
}
