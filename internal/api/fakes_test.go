package api

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"

	"shop-api/internal/cache"
	"shop-api/internal/database"
)

// memRepo is an in-memory Repository keyed by the entity's ID field.
type memRepo[T any] struct {
	mu      sync.Mutex
	items   map[string]T
	order   []string
	updates int
	deletes []uuid.UUID
	err     error

	// afterGet runs once, after the next Get has read its row.
	afterGet func()
}

func newMemRepo[T any]() *memRepo[T] {
	return &memRepo[T]{items: make(map[string]T)}
}

func idOf(item any) string {
	return reflect.ValueOf(item).FieldByName("ID").String()
}

func (m *memRepo[T]) seed(items ...T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range items {
		id := idOf(it)
		m.items[id] = it
		m.order = append(m.order, id)
	}
}

func (m *memRepo[T]) Get(_ context.Context, id uuid.UUID) (T, error) {
	m.mu.Lock()
	var zero T
	if m.err != nil {
		m.mu.Unlock()
		return zero, m.err
	}
	it, ok := m.items[id.String()]
	hook := m.afterGet
	m.afterGet = nil
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	if !ok {
		return zero, fmt.Errorf("get %s: %w", id, database.ErrNoResult)
	}
	return it, nil
}

func (m *memRepo[T]) List(context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	out := []T{}
	for _, id := range m.order {
		if it, ok := m.items[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memRepo[T]) Create(_ context.Context, item T) error {
	if m.err != nil {
		return m.err
	}
	m.seed(item)
	return nil
}

func (m *memRepo[T]) Update(_ context.Context, item T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.updates++
	m.items[idOf(item)] = item
	return nil
}

func (m *memRepo[T]) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.deletes = append(m.deletes, id)
	delete(m.items, id.String())
	return nil
}

func (m *memRepo[T]) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	fail bool
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return nil, errors.New("redis down")
	}
	b, ok := c.data[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return b, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("redis down")
	}
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type stubLimiter struct {
	limited bool
	calls   int
}

func (l *stubLimiter) IsRateLimited(context.Context, string, int, time.Duration) bool {
	l.calls++
	return l.limited
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }
