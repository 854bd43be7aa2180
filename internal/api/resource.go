package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"shop-api/internal/cache"
	"shop-api/internal/models"
	"shop-api/internal/telemetry"
)

const maxBodyBytes = 1 << 20

// Repository is what a resource handler needs from its store.
type Repository[T any] interface {
	Get(ctx context.Context, id uuid.UUID) (T, error)
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, item T) error
	Update(ctx context.Context, item T) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Cache is the read-through cache for single-entity lookups.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// input is a request body that can check its own fields and build a T.
type input[T any] interface {
	Validate() error
	Model(id string) T
}

type resource[T any, In input[T]] struct {
	name     string
	path     string
	repo     Repository[T]
	cache    Cache
	cacheTTL time.Duration

	// envelopeOnPut makes PUT answer with the status envelope instead of an empty 200.
	envelopeOnPut bool

	// invalidations counts cache deletes. A GET that saw it move while
	// reading the store does not cache what it read.
	invalidations atomic.Uint64
}

func (h *resource[T, In]) register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+h.path, h.get)
	mux.HandleFunc("POST "+h.path, h.post)
	mux.HandleFunc("PUT "+h.path, h.put)
	mux.HandleFunc("DELETE "+h.path, h.delete)
}

func (h *resource[T, In]) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !r.URL.Query().Has("id") {
		items, err := h.repo.List(ctx)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if len(items) == 0 {
			writeError(w, r, fmt.Errorf("no %s: %w", h.name, errNotFound))
			return
		}
		writeEnvelope(w, http.StatusOK, items)
		return
	}

	id, err := requireID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if item, ok := h.cached(ctx, id); ok {
		writeEnvelope(w, http.StatusOK, item)
		return
	}

	seen := h.invalidations.Load()
	item, err := h.repo.Get(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if h.invalidations.Load() == seen {
		h.remember(ctx, id, item)
	}
	writeEnvelope(w, http.StatusOK, item)
}

func (h *resource[T, In]) post(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput[T, In](w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id := uuid.New()
	if err := h.repo.Create(r.Context(), in.Model(id.String())); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("Created", "resource", h.name, "id", id)
	w.Header().Set("Location", fmt.Sprintf("%s?id=%s", h.path, id))
	writeEnvelope(w, http.StatusOK, statusSent)
}

func (h *resource[T, In]) put(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := requireID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	in, err := decodeInput[T, In](w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Check and update are separate statements; a concurrent DELETE in
	// between turns the UPDATE into a no-op.
	if _, err := h.repo.Get(ctx, id); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.repo.Update(ctx, in.Model(id.String())); err != nil {
		writeError(w, r, err)
		return
	}
	h.forget(ctx, id)

	if h.envelopeOnPut {
		writeEnvelope(w, http.StatusOK, statusSent)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *resource[T, In]) delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := requireID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		writeError(w, r, err)
		return
	}
	h.forget(ctx, id)

	writeEnvelope(w, http.StatusOK, statusSent)
}

func requireID(r *http.Request) (uuid.UUID, error) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		return uuid.Nil, badRequest("missing required query parameter: id")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, badRequest("id must be a UUID")
	}
	return id, nil
}

func decodeInput[T any, In input[T]](w http.ResponseWriter, r *http.Request) (In, error) {
	var in In
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil {
		return in, fmt.Errorf("%w: invalid JSON body: %v", models.ErrBadInput, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return in, fmt.Errorf("%w: invalid JSON body: trailing data after object", models.ErrBadInput)
	}
	if err := in.Validate(); err != nil {
		return in, err
	}
	return in, nil
}

func (h *resource[T, In]) cacheKey(id uuid.UUID) string {
	return h.name + ":" + id.String()
}

func (h *resource[T, In]) cached(ctx context.Context, id uuid.UUID) (T, bool) {
	var item T
	if h.cache == nil {
		return item, false
	}

	data, err := h.cache.Get(ctx, h.cacheKey(id))
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			slog.Warn("Cache read failed", "resource", h.name, "error", err)
		}
		telemetry.CacheMiss()
		return item, false
	}
	if err := json.Unmarshal(data, &item); err != nil {
		slog.Warn("Dropping unreadable cache entry", "key", h.cacheKey(id), "error", err)
		telemetry.CacheMiss()
		return item, false
	}

	telemetry.CacheHit()
	return item, true
}

func (h *resource[T, In]) remember(ctx context.Context, id uuid.UUID, item T) {
	if h.cache == nil {
		return
	}
	data, err := json.Marshal(item)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, h.cacheKey(id), data, h.cacheTTL); err != nil {
		slog.Warn("Cache write failed", "resource", h.name, "error", err)
	}
}

func (h *resource[T, In]) forget(ctx context.Context, id uuid.UUID) {
	if h.cache == nil {
		return
	}
	h.invalidations.Add(1)
	if err := h.cache.Delete(ctx, h.cacheKey(id)); err != nil {
		slog.Warn("Cache invalidation failed", "resource", h.name, "error", err)
	}
}
