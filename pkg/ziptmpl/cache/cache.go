package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// Stats reports cache activity since creation.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// settings holds construction options.
type settings struct {
	maxSize int
	ttl     time.Duration
}

// Option configures a Cache.
type Option func(*settings)

// WithMaxSize bounds the number of entries. When full, the least recently
// used entry is evicted. Zero or negative means unbounded.
//
// Default: 0 (unbounded)
func WithMaxSize(n int) Option {
	return func(s *settings) {
		s.maxSize = n
	}
}

// WithTTL sets how long an entry stays valid after it was stored.
// Zero or negative means entries never expire.
//
// Default: 0 (no expiry)
func WithTTL(ttl time.Duration) Option {
	return func(s *settings) {
		s.ttl = ttl
	}
}

type entry[V any] struct {
	key    string
	value  V
	expiry time.Time
	elem   *list.Element
}

// Cache is a thread-safe string-keyed cache with get-or-create semantics.
// Unbounded caches serve reads under a read lock; bounded caches take the
// write lock on reads to maintain recency.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]*entry[V]
	lru     *list.List // front = most recently used
	maxSize int
	ttl     time.Duration
	now     func() time.Time
	flight  singleflight.Group // in-flight GetOrCreate factories by key

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// New creates an empty cache.
func New[V any](opts ...Option) *Cache[V] {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	return &Cache[V]{
		entries: make(map[string]*entry[V]),
		lru:     list.New(),
		maxSize: max(s.maxSize, 0),
		ttl:     max(s.ttl, 0),
		now:     time.Now,
	}
}

// Get returns the value for key and whether a live entry exists.
func (c *Cache[V]) Get(key string) (V, bool) {
	v, ok := c.lookup(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// lookup returns the live value for key without touching stats.
func (c *Cache[V]) lookup(key string) (V, bool) {
	if c.maxSize > 0 {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.touchLocked(key)
	}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.expired(e) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// touchLocked drops an expired entry for key or marks a live one as most
// recently used. Callers hold the write lock.
func (c *Cache[V]) touchLocked(key string) (V, bool) {
	e, ok := c.entries[key]
	if ok && c.expired(e) {
		c.removeLocked(e)
		ok = false
	}
	if !ok {
		var zero V
		return zero, false
	}
	c.lru.MoveToFront(e.elem)
	return e.value, true
}

// Put adds or replaces the value for key.
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.putLocked(key, value)
}

func (c *Cache[V]) putLocked(key string, value V) {
	var expiry time.Time
	if c.ttl > 0 {
		expiry = c.now().Add(c.ttl)
	}

	// Entries are never mutated in place: unbounded reads access them
	// outside the lock.
	if e, ok := c.entries[key]; ok {
		c.removeLocked(e)
	}

	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeLocked(oldest.Value.(*entry[V]))
			c.evictions.Add(1)
		}
	}

	e := &entry[V]{key: key, value: value, expiry: expiry}
	e.elem = c.lru.PushFront(e)
	c.entries[key] = e
}

// GetOrCreate returns the value for key, calling factory to create it if no
// live entry exists. The factory runs at most once per key even under
// concurrent access: concurrent callers for the same key wait for the
// running factory and share its result. A factory error is returned to every
// waiting caller and nothing is stored.
//
// The factory runs without holding the cache lock, so other keys stay
// available while it works. It may use the cache for other keys but must not
// request its own key.
func (c *Cache[V]) GetOrCreate(key string, factory func() (V, error)) (V, error) {
	if v, ok := c.lookup(key); ok {
		c.hits.Add(1)
		return v, nil
	}

	// created is only set by the caller whose flight runs the factory.
	created := false
	res, err, _ := c.flight.Do(key, func() (any, error) {
		// A previous flight may have stored the value after our lookup.
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		created = true
		v, err := factory()
		if err != nil {
			return nil, err
		}
		c.Put(key, v)
		return v, nil
	})

	if created || err != nil {
		c.misses.Add(1)
	} else {
		c.hits.Add(1)
	}
	if err != nil {
		var zero V
		return zero, err
	}
	v, _ := res.(V)
	return v, nil
}

// Has reports whether a live entry exists for key. It does not affect
// recency or stats.
func (c *Cache[V]) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return ok && !c.expired(e)
}

// Delete removes key. Deleting a missing key is a no-op.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		c.removeLocked(e)
	}
}

// Len returns the number of stored entries, including expired entries not
// yet pruned.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns the keys of live entries, most recently used first.
func (c *Cache[V]) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for el := c.lru.Front(); el != nil; el = el.Next() {
		e := el.Value.(*entry[V])
		if !c.expired(e) {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// Range calls fn for each live entry until fn returns false.
// It iterates over a snapshot, so fn may modify the cache.
func (c *Cache[V]) Range(fn func(key string, value V) bool) {
	c.mu.RLock()
	snapshot := make([]*entry[V], 0, len(c.entries))
	for el := c.lru.Front(); el != nil; el = el.Next() {
		e := el.Value.(*entry[V])
		if !c.expired(e) {
			snapshot = append(snapshot, &entry[V]{key: e.key, value: e.value})
		}
	}
	c.mu.RUnlock()

	for _, e := range snapshot {
		if !fn(e.key, e.value) {
			return
		}
	}
}

// Prune removes expired entries and returns how many were removed.
func (c *Cache[V]) Prune() int {
	if c.ttl == 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for _, e := range c.entries {
		if c.expired(e) {
			c.removeLocked(e)
			removed++
		}
	}
	return removed
}

// Purge removes all entries. Stats are kept.
func (c *Cache[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry[V])
	c.lru.Init()
}

// Stats returns hit, miss and eviction counts.
func (c *Cache[V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

func (c *Cache[V]) expired(e *entry[V]) bool {
	return c.ttl > 0 && c.now().After(e.expiry)
}

func (c *Cache[V]) removeLocked(e *entry[V]) {
	c.lru.Remove(e.elem)
	delete(c.entries, e.key)
}
