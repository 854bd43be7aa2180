package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shop-api/internal/models"
	"shop-api/internal/telemetry"
)

// Stores are the four repositories the resource handlers run against.
type Stores struct {
	Users      Repository[models.User]
	Products   Repository[models.Product]
	Categories Repository[models.Category]
	Orders     Repository[models.Order]
}

// Options carries the optional Redis-backed features. A nil Cache or
// Limiter turns the feature off.
type Options struct {
	Cache      Cache
	CacheTTL   time.Duration
	Limiter    RateLimiter
	RateLimit  int
	RateWindow time.Duration
}

type Server struct {
	mux    *http.ServeMux
	server *http.Server
	db     Pinger
}

func NewServer(addr string, stores Stores, db Pinger, opts Options) *Server {
	s := &Server{
		mux: http.NewServeMux(),
		db:  db,
	}

	// Redis keeps a zero TTL forever, so caching needs a positive one.
	if opts.Cache != nil && opts.CacheTTL <= 0 {
		slog.Warn("Read-through cache disabled: cache TTL must be positive", "ttl", opts.CacheTTL)
		opts.Cache = nil
	}

	s.registerRoutes(stores, opts)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.applyMiddleware(s.mux, opts),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes(stores Stores, opts Options) {
	s.mux.HandleFunc("GET /{$}", s.handleHome)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	(&resource[models.User, models.UserInput]{
		name: "users", path: "/api/v1/users",
		repo: stores.Users, cache: opts.Cache, cacheTTL: opts.CacheTTL,
	}).register(s.mux)

	(&resource[models.Product, models.ProductInput]{
		name: "products", path: "/api/v1/products",
		repo: stores.Products, cache: opts.Cache, cacheTTL: opts.CacheTTL,
	}).register(s.mux)

	(&resource[models.Category, models.CategoryInput]{
		name: "categories", path: "/api/v1/categories",
		repo: stores.Categories, cache: opts.Cache, cacheTTL: opts.CacheTTL,
		envelopeOnPut: true,
	}).register(s.mux)

	(&resource[models.Order, models.OrderInput]{
		name: "orders", path: "/api/v1/orders",
		repo: stores.Orders, cache: opts.Cache, cacheTTL: opts.CacheTTL,
	}).register(s.mux)
}

// applyMiddleware wraps inside-out. Telemetry wraps recovery so panics are
// counted as 500s; it reads r.Pattern after the mux has set it on the same request.
func (s *Server) applyMiddleware(handler http.Handler, opts Options) http.Handler {
	if opts.Limiter != nil && opts.RateLimit > 0 {
		handler = RateLimitMiddleware(opts.Limiter, opts.RateLimit, opts.RateWindow)(handler)
	}
	handler = RecoveryMiddleware(handler)
	handler = telemetry.Middleware(handler)
	handler = LoggingMiddleware(handler)
	handler = RequestIDMiddleware(handler)
	return handler
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.server.Handler.ServeHTTP(w, r)
}

func (s *Server) Start() error {
	slog.Info("Server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down HTTP server")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
