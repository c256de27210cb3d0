// Package cache provides an in-memory TTL store used to memoize upstream
// feed payloads between pipeline runs.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/courtlog/nba-pbp/internal/platform/resilience"
)

type item struct {
	value   any
	expires time.Time
}

func (it item) live(now time.Time) bool {
	return it.expires.IsZero() || it.expires.After(now)
}

// Store is a concurrency-safe key-value cache with a single TTL for all
// entries. A ttl of zero keeps entries until process exit.
type Store struct {
	mu     sync.RWMutex
	items  map[string]item
	ttl    time.Duration
	flight resilience.SingleFlight
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		items: make(map[string]item),
		ttl:   ttl,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !it.live(time.Now()) {
		s.mu.Lock()
		delete(s.items, key)
		s.mu.Unlock()
		return nil, false
	}
	return it.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	it := item{value: value}
	if s.ttl > 0 {
		it.expires = time.Now().Add(s.ttl)
	}

	s.mu.Lock()
	s.items[key] = it
	s.mu.Unlock()
}

// GetOrLoad returns the cached value for key, or runs loader to produce and
// cache one. Concurrent loads for the same key are collapsed into a single
// loader call. An empty key bypasses the cache entirely.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if v, ok := s.Get(ctx, key); ok {
		return v, nil
	}

	v, err, _ := s.flight.Do(key, func() (any, error) {
		// A follower of an earlier flight may have populated the key
		// between the Get above and acquiring the flight slot.
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}
		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}
