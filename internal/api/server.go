package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"mediaforge/internal/config"
	"mediaforge/internal/jobs"
	"mediaforge/internal/logging"
	"mediaforge/internal/services"
	"mediaforge/internal/storage"
)

// Server serves the job API and the /media/ static tree.
type Server struct {
	cfg     *config.Config
	store   *jobs.Store
	objects storage.ObjectStore
	notify  func()
	logger  *slog.Logger

	handler  http.Handler
	server   *http.Server
	listener net.Listener
}

// NewServer wires the HTTP surface. notify, when non-nil, is invoked after a
// job is created so idle workers poll immediately.
func NewServer(cfg *config.Config, store *jobs.Store, objects storage.ObjectStore, notify func(), logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	srv := &Server{
		cfg:     cfg,
		store:   store,
		objects: objects,
		notify:  notify,
		logger:  logging.NewComponentLogger(logger, "api"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/jobs/upload", srv.handleUpload)
	mux.HandleFunc("/api/v1/jobs", srv.handleJobs)
	mux.HandleFunc("/api/v1/jobs/", srv.handleJobByID)
	mux.HandleFunc("/api/v1/uploads/presign", srv.handlePresign)
	mux.HandleFunc("/api/v1/health", srv.handleHealth)
	mux.Handle("/media/", http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.Paths.MediaRoot))))

	corsMiddleware := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	srv.handler = srv.withRequestID(corsMiddleware.Handler(mux))
	srv.server = &http.Server{
		Handler:           srv.handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Handler exposes the wired handler chain, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening on the configured bind address. The server shuts
// down when the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	bind := strings.TrimSpace(s.cfg.Paths.HTTPBind)
	if bind == "" {
		return errors.New("http bind address not configured")
	}
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", slog.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down, draining in-flight requests briefly.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr reports the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := services.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) kickWorkers() {
	if s.notify != nil {
		s.notify()
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
