// Package cache implements stale-while-revalidate read-through caching on top of the local store.
//
// ReadThrough returns whatever is cached immediately and refreshes it from the remote source in the
// background. A successful refresh overwrites the cache and is broadcast to subscribers; a failed one
// leaves the stale value in place and is reported on the Fresh channel instead of being returned.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/at-ishikawa/lingosync/internal/kvstore"
)

var (
	// ErrNoData is returned when a value is neither cached nor available remotely.
	ErrNoData = errors.New("no data cached locally or remotely")
	// ErrEmpty reports a refresh that returned an empty result and left the cache untouched.
	ErrEmpty = errors.New("remote returned no rows")
)

// Update is broadcast after every refresh attempt.
type Update struct {
	Key   string
	Value any
	Err   error
}

// Manager owns the refresh goroutines and the subscriber list.
type Manager struct {
	codec  *kvstore.Codec
	logger *slog.Logger

	group singleflight.Group
	wg    sync.WaitGroup

	mu     sync.Mutex
	subs   map[int]func(Update)
	nextID int
}

func NewManager(codec *kvstore.Codec, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		codec:  codec,
		logger: logger,
		subs:   make(map[int]func(Update)),
	}
}

func (m *Manager) Codec() *kvstore.Codec {
	return m.codec
}

// Subscribe registers fn for every Update and returns a function removing it.
func (m *Manager) Subscribe(fn func(Update)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// Wait blocks until every refresh started so far has finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) publish(u Update) {
	m.mu.Lock()
	subs := make([]func(Update), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(u)
	}
}

// Source describes one cached entity.
type Source[T any] struct {
	Key   string
	Fetch func(ctx context.Context) (T, error)
	// IsEmpty marks fresh values that must not replace the cache.
	IsEmpty func(T) bool
	// Store replaces the default write of a fresh value under Key.
	Store func(ctx context.Context, value T) error
}

// Refresh is the outcome of the background fetch.
type Refresh[T any] struct {
	Value T
	Err   error
}

// Result is what ReadThrough returns immediately.
type Result[T any] struct {
	Value  T
	Cached bool
	// Fresh receives at most one Refresh and is then closed.
	// Nothing is delivered when the caller's context is done first.
	Fresh <-chan Refresh[T]
}

// Await waits for the refresh and picks the best available value:
// a fresh value, else the cached one, else ErrNoData.
func (r Result[T]) Await(ctx context.Context) (T, error) {
	select {
	case refresh, ok := <-r.Fresh:
		if ok && refresh.Err == nil {
			return refresh.Value, nil
		}
		if r.Cached {
			return r.Value, nil
		}
		if ok && refresh.Err != nil {
			return r.Value, fmt.Errorf("%w: %v", ErrNoData, refresh.Err)
		}
		return r.Value, ErrNoData
	case <-ctx.Done():
		if r.Cached {
			return r.Value, nil
		}
		return r.Value, ctx.Err()
	}
}

// Peek reads the cached value only.
func Peek[T any](ctx context.Context, m *Manager, key string) (T, bool, error) {
	var value T
	ok, err := m.codec.Load(ctx, key, &value)
	if err != nil {
		return value, false, fmt.Errorf("codec.Load(%s) > %w", key, err)
	}
	return value, ok, nil
}

// ReadThrough returns the cached value for src.Key and starts a background refresh.
func ReadThrough[T any](ctx context.Context, m *Manager, src Source[T]) Result[T] {
	var result Result[T]
	cached, ok, err := Peek[T](ctx, m, src.Key)
	if err != nil {
		m.logger.Warn("cache read failed", "key", src.Key, "error", err)
	}
	result.Value, result.Cached = cached, ok

	fresh := make(chan Refresh[T], 1)
	result.Fresh = fresh

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer close(fresh)

		refresh := refreshOnce(ctx, m, src)
		m.publish(Update{Key: src.Key, Value: refresh.Value, Err: refresh.Err})
		if ctx.Err() != nil {
			return
		}
		fresh <- refresh
	}()
	return result
}

// refreshOnce coalesces concurrent refreshes of the same key into one fetch.
func refreshOnce[T any](ctx context.Context, m *Manager, src Source[T]) Refresh[T] {
	v, err, _ := m.group.Do(src.Key, func() (interface{}, error) {
		value, err := src.Fetch(ctx)
		if err != nil {
			return value, fmt.Errorf("fetch(%s) > %w", src.Key, err)
		}
		if src.IsEmpty != nil && src.IsEmpty(value) {
			return value, ErrEmpty
		}

		// the write outlives the caller's context
		storeCtx := context.WithoutCancel(ctx)
		store := src.Store
		if store == nil {
			store = func(ctx context.Context, value T) error {
				return m.codec.Save(ctx, src.Key, value)
			}
		}
		if err := store(storeCtx, value); err != nil {
			m.logger.Warn("cache write failed", "key", src.Key, "error", err)
		}
		return value, nil
	})

	refresh := Refresh[T]{Err: err}
	if typed, ok := v.(T); ok {
		refresh.Value = typed
	}
	if err != nil {
		m.logger.Debug("cache refresh failed, keeping stale value", "key", src.Key, "error", err)
	}
	return refresh
}
