// Package loader provides request-scoped batch loaders.
//
// A Loader deduplicates keys across one resolution pass and fetches all
// uncached keys with a single batch call. Its cache lives exactly as long
// as the Loader, which is created per top-level request.
package loader

import (
	"context"
	"sync"
)

// BatchFunc fetches many keys at once. Keys absent from the returned map do not exist.
type BatchFunc[K comparable, V any] func(ctx context.Context, keys []K) (map[K]V, error)

// Loader is a map-by-key cache in front of a BatchFunc.
type Loader[K comparable, V any] struct {
	fetch BatchFunc[K, V]

	// mu is held across fetch so that two resolvers sharing a pass never
	// fetch the same key twice.
	mu      sync.Mutex
	found   map[K]V
	missing map[K]struct{}
}

func New[K comparable, V any](fetch BatchFunc[K, V]) *Loader[K, V] {
	return &Loader[K, V]{
		fetch:   fetch,
		found:   make(map[K]V),
		missing: make(map[K]struct{}),
	}
}

// LoadMany returns the existing values among keys. It issues at most one
// fetch, for the distinct keys not yet seen by this Loader.
func (l *Loader[K, V]) LoadMany(ctx context.Context, keys []K) (map[K]V, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pending := make([]K, 0, len(keys))
	queued := make(map[K]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := queued[k]; ok {
			continue
		}
		queued[k] = struct{}{}
		if _, ok := l.found[k]; ok {
			continue
		}
		if _, ok := l.missing[k]; ok {
			continue
		}
		pending = append(pending, k)
	}

	if len(pending) > 0 {
		fetched, err := l.fetch(ctx, pending)
		if err != nil {
			return nil, err
		}
		for _, k := range pending {
			if v, ok := fetched[k]; ok {
				l.found[k] = v
			} else {
				l.missing[k] = struct{}{}
			}
		}
	}

	out := make(map[K]V, len(queued))
	for k := range queued {
		if v, ok := l.found[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

// Load returns the value for key and whether it exists.
func (l *Loader[K, V]) Load(ctx context.Context, key K) (V, bool, error) {
	values, err := l.LoadMany(ctx, []K{key})
	if err != nil {
		var zero V
		return zero, false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Prime seeds the cache with a value already in hand.
func (l *Loader[K, V]) Prime(key K, value V) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.found[key] = value
	delete(l.missing, key)
}
