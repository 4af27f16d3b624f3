// Package cache holds the last-known result of each distinct backend query,
// keyed by (query kind, parameters). It is process-wide per session state,
// constructed empty at startup and cleared on sign-out. Only the stores
// write to it; nothing else may touch entries directly.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Entry is one cached query result. Err holds the most recent fetch
// failure for the key; a failed refetch never clears a value the user
// is already looking at.
type Entry struct {
	Value     any
	FetchedAt time.Time
	Err       error
	Stale     bool
}

type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	// gens has an entry for every key that ever had a fetch in flight.
	// Invalidate bumps the generation of matching keys; a flight only
	// commits its result if the generation is unchanged since it started,
	// so data fetched before a mutation can never land after it.
	gens  map[string]uint64
	group singleflight.Group
}

func New() *Cache {
	return &Cache{
		entries: make(map[string]Entry),
		gens:    make(map[string]uint64),
	}
}

// Key builds a composite cache key: "kind:param:param".
func Key(kind string, params ...string) string {
	if len(params) == 0 {
		return kind
	}
	return kind + ":" + strings.Join(params, ":")
}

// Read returns the entry for key, stale or not. Absence means the key
// was never fetched (or was cleared).
func (c *Cache) Read(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

// Write stores a fresh value, overwriting any prior entry for the key.
func (c *Cache) Write(key string, value any, fetchedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry{Value: value, FetchedAt: fetchedAt}
}

// Invalidate marks every entry whose key matches prefix (exactly, or as a
// composite-key prefix) stale. The next GetOrFetch on a stale key refetches.
// Called by the stores after every successful mutation so dependent views
// observe new state without manual propagation.
func (c *Cache) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if matchesPrefix(key, prefix) {
			e.Stale = true
			c.entries[key] = e
		}
	}
	// Flights started before the invalidation must not satisfy reads
	// issued after it: bump the generation so their results are not
	// committed, and forget the flight so later readers start a new one.
	// gens covers in-flight keys that have no entry yet (first fetch).
	for key := range c.gens {
		if matchesPrefix(key, prefix) {
			c.gens[key]++
			c.group.Forget(key)
		}
	}
}

func matchesPrefix(key, prefix string) bool {
	return key == prefix || strings.HasPrefix(key, prefix+":")
}

// Clear drops everything. Sign-out teardown.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Entry)
	for key := range c.gens {
		c.gens[key]++
		c.group.Forget(key)
	}
}

// GetOrFetch returns the cached value for key if it is fresh; otherwise it
// runs fetch, de-duplicating concurrent callers per key: while a fetch for
// key is in flight, other callers await that same result instead of issuing
// their own request.
//
// On fetch failure the previous value (if any) stays cached with the error
// recorded on the entry, and the error is returned to the caller.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch func(ctx context.Context) (any, error)) (any, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && !e.Stale && e.Err == nil {
		return e.Value, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check under the flight: another caller may have completed a
		// write between our miss and the flight starting. Registering the
		// key in gens makes this flight visible to Invalidate.
		c.mu.Lock()
		e, ok := c.entries[key]
		if ok && !e.Stale && e.Err == nil {
			c.mu.Unlock()
			return e.Value, nil
		}
		if _, tracked := c.gens[key]; !tracked {
			c.gens[key] = 0
		}
		gen := c.gens[key]
		c.mu.Unlock()

		value, err := fetch(ctx)
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gens[key] != gen {
			// Invalidated while this flight was in the air: the result
			// predates the mutation. Callers already waiting on the
			// flight still receive it, but it is never committed over
			// the invalidation.
			return value, err
		}
		if err != nil {
			prev := c.entries[key]
			prev.Err = err
			prev.Stale = true
			c.entries[key] = prev
			return nil, err
		}
		c.entries[key] = Entry{Value: value, FetchedAt: time.Now()}
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}
