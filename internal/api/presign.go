package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"mediaforge/internal/fileutil"
)

// handlePresign issues a direct-to-storage upload slot. The content type is
// echoed back as a suggested header only; it is never part of the signature,
// so clients that omit or change it still succeed.
func (s *Server) handlePresign(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.objects == nil {
		s.writeError(w, http.StatusServiceUnavailable, "object storage not configured")
		return
	}

	var req PresignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Filename) == "" {
		s.writeError(w, http.StatusBadRequest, "filename is required")
		return
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	key := "uploads/" + fileutil.UniqueUploadName(token, req.Filename)

	url, headers, err := s.objects.PresignPut(r.Context(), key, strings.TrimSpace(req.ContentType))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if headers == nil {
		headers = map[string]string{}
	}
	s.writeJSON(w, http.StatusCreated, PresignResponse{Key: key, URL: url, Headers: headers})
}
