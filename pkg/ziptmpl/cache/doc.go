// Package cache provides a thread-safe string-keyed cache with get-or-create
// semantics, used to hold parsed templates keyed by their text.
//
// # Basic Usage
//
//	c := cache.New[*ziptmpl.ParsedTemplate]()
//
//	t, err := c.GetOrCreate(text, func() (*ziptmpl.ParsedTemplate, error) {
//	    return ziptmpl.Parse(text), nil
//	})
//
// GetOrCreate is atomic: the factory is called at most once per key, even
// when many goroutines ask for the same key at the same time. Concurrent
// callers wait for the running factory and share its result. Factories run
// without the cache lock, so a slow factory only delays callers of its own
// key. Factory errors are returned to the callers and nothing is cached.
//
// # Bounds and Expiry
//
// A cache is unbounded by default. WithMaxSize evicts the least recently
// used entry once the limit is reached; WithTTL expires entries a fixed time
// after they were stored:
//
//	c := cache.New[*ziptmpl.ParsedTemplate](
//	    cache.WithMaxSize(1000),
//	    cache.WithTTL(10*time.Minute),
//	)
//
// Expired entries are treated as absent and are dropped on the next write
// for their key, or by Prune.
//
// # Thread Safety
//
// All methods are safe for concurrent use. Range iterates over a snapshot,
// so the callback may modify the cache.
package cache
