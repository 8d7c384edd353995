package web

import (
	"encoding/json"
	"net/http"

	"github.com/govrecon/accessrecon/internal/logging"
	"github.com/govrecon/accessrecon/internal/recon"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError logs the failure with request context and returns a JSON error
// body to the client.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", message,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: errorCode(status)})
}

// respondAnalysisError maps core errors to HTTP responses. A malformed table
// is the client's problem; anything else is ours.
func respondAnalysisError(w http.ResponseWriter, r *http.Request, err error) {
	if recon.IsMalformedInput(err) {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeError(w, r, http.StatusInternalServerError, err.Error())
}

// writeJSON encodes v as JSON and writes it to w.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusUnprocessableEntity:
		return "malformed_input"
	case http.StatusTooManyRequests:
		return "rate_limited"
	default:
		return "internal"
	}
}
