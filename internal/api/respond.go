package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"shop-api/internal/database"
	"shop-api/internal/models"
)

const (
	apiVersion = "1.0.0"
	statusSent = "Request sent successfully"
)

var (
	errNotFound    = errors.New("not found")
	errBadRequest  = errors.New("bad request")
	errRateLimited = errors.New("too many requests")
)

// now is replaced in tests that pin the envelope timestamp.
var now = time.Now

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("JSON encode error", "error", err)
	}
}

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, models.Envelope{
		Version:   apiVersion,
		Timestamp: now(),
		Data:      data,
	})
}

// writeError is the single place errors become status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", GetRequestID(r.Context()),
			"error", err,
		)
		msg = http.StatusText(status)
	}

	writeJSON(w, status, ErrorResponse{Error: msg, Code: code})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "BAD_REQUEST"
	case errors.Is(err, models.ErrBadInput):
		return http.StatusBadRequest, "BAD_INPUT"
	case errors.Is(err, errNotFound), errors.Is(err, database.ErrNoResult):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests, "RATE_LIMITED"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
