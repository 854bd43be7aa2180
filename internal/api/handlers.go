package api

import (
	"context"
	"log/slog"
	"net/http"
)

const welcome = `Welcome to the app, the following routes are available:
1. users      - GET/POST/PUT/DELETE /api/v1/users
2. products   - GET/POST/PUT/DELETE /api/v1/products
3. categories - GET/POST/PUT/DELETE /api/v1/categories
4. orders     - GET/POST/PUT/DELETE /api/v1/orders`

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, http.StatusOK, welcome)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		slog.Warn("Health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error: "database unavailable",
			Code:  "UNAVAILABLE",
		})
		return
	}
	writeEnvelope(w, http.StatusOK, "ok")
}
