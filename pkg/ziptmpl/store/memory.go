package store

import (
	"slices"
	"strings"
	"sync"

	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl"
)

// MemoryStore is an in-memory template store for testing.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]storedRecord // digest -> record
	closed bool
}

// storedRecord holds the encoded record with metadata for List().
type storedRecord struct {
	data []byte
	info Info
}

// NewMemoryStore creates a new in-memory template store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]storedRecord),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(key string, t *ziptmpl.ParsedTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	digest := Digest(key)
	r, data, err := encode(key, t, m.data[digest].info.ID)
	if err != nil {
		return err
	}

	m.data[digest] = storedRecord{
		data: data,
		info: r.Info(int64(len(data))),
	}
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(key string) (*ziptmpl.ParsedTemplate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	stored, ok := m.data[Digest(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return decode(stored.data)
}

// Record implements Store.
func (m *MemoryStore) Record(digest string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	stored, ok := m.data[digest]
	if !ok {
		return nil, ErrNotFound
	}
	return Unmarshal(stored.data)
}

// List implements Store.
func (m *MemoryStore) List() ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	infos := make([]Info, 0, len(m.data))
	for _, stored := range m.data {
		infos = append(infos, stored.info)
	}

	slices.SortFunc(infos, func(a, b Info) int {
		if c := a.SavedAt.Compare(b.SavedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Digest, b.Digest)
	})
	return infos, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(digest string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.data, digest)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.data = nil
	return nil
}

// Len returns the number of stored templates.
// Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
