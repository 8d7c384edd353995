package web

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/govrecon/accessrecon/internal/csvx"
	"github.com/govrecon/accessrecon/internal/logging"
	"github.com/govrecon/accessrecon/internal/recon"
)

// Form field names for the two uploaded tables.
const (
	fieldUserGroups = "user_groups"
	fieldGrants     = "grants"
)

// analyzeResponse is returned after a successful analysis run.
type analyzeResponse struct {
	SessionID string      `json:"session_id"`
	Stats     recon.Stats `json:"stats"`
	Warnings  []string    `json:"warnings,omitempty"`
}

// handleHealth reports liveness and the number of live sessions.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

// handleAnalyze accepts a multipart upload of the two input tables, runs one
// reconciliation analysis, and stores the immutable result as a new session.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, 2*maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, r, http.StatusBadRequest, "upload too large or invalid form")
		return
	}

	userGroups, err := s.readTable(r, fieldUserGroups)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	grants, err := s.readTable(r, fieldGrants)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	analysis, err := recon.Analyze(userGroups, grants)
	if err != nil {
		respondAnalysisError(w, r, err)
		return
	}

	id := s.sessions.Put(analysis)

	logging.FromContext(r.Context()).Info("analysis complete",
		"session_id", id,
		"users", analysis.Stats.TotalUsers,
		"groups", analysis.Stats.TotalGroups,
		"users_with_extra", analysis.Stats.UsersWithExtraAccess,
		"duration", time.Since(start),
	)

	writeJSON(w, r, analyzeResponse{
		SessionID: id,
		Stats:     analysis.Stats,
		Warnings:  analysis.Warnings,
	})
}

// readTable pulls one uploaded file out of the multipart form and parses it.
func (s *Server) readTable(r *http.Request, field string) (*csvx.Table, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing %q file", field)
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	t, err := csvx.Read(field, file)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// handleResults returns the full result sequence, ordered by user name.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	analysis, ok := s.getSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, analysis.Results.All())
}

// handleResultByUser returns one user's result by exact name.
func (s *Server) handleResultByUser(w http.ResponseWriter, r *http.Request) {
	analysis, ok := s.getSession(w, r)
	if !ok {
		return
	}

	user := chi.URLParam(r, "user")
	result, found := analysis.Results.FindByUser(user)
	if !found {
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("no result for user %q", user))
		return
	}
	writeJSON(w, r, result)
}

// handleFilterByAccess reports every user holding the given access code and
// the channel(s) that granted it.
func (s *Server) handleFilterByAccess(w http.ResponseWriter, r *http.Request) {
	analysis, ok := s.getSession(w, r)
	if !ok {
		return
	}

	code := chi.URLParam(r, "code")
	matches := analysis.Results.FilterByAccessCode(code)
	if matches == nil {
		matches = []recon.AccessMatch{}
	}
	writeJSON(w, r, map[string]any{
		"access_code": code,
		"matches":     matches,
	})
}

// handleStats returns the summary statistics for the session.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	analysis, ok := s.getSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, analysis.Stats)
}

// handleExport streams the report CSV as a download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	analysis, ok := s.getSession(w, r)
	if !ok {
		return
	}

	filename := fmt.Sprintf("access_report_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := recon.WriteCSV(w, analysis.Results.All()); err != nil {
		logging.FromContext(r.Context()).Error("export failed", "error", err)
	}
}

// handleDeleteSession discards a session before its TTL.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	s.sessions.Delete(id)
	writeJSON(w, r, map[string]string{"status": "deleted"})
}

// getSession resolves the sessionID URL parameter, replying 404 when the
// session is unknown or expired.
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) (*recon.Analysis, bool) {
	id := chi.URLParam(r, "sessionID")
	analysis, ok := s.sessions.Get(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "session not found or expired")
		return nil, false
	}
	return analysis, true
}
