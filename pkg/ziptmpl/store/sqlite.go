package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl"
)

// timeFormat sorts lexically in time order.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore persists templates to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore creates a new SQLite template store.
// The path should be a file path (e.g., "./templates.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS templates (
			digest TEXT PRIMARY KEY,
			id TEXT NOT NULL,
			placeholders INTEGER NOT NULL,
			saved_at TEXT NOT NULL,
			data BLOB NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_templates_saved_at
		ON templates(saved_at)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(key string, t *ziptmpl.ParsedTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	digest := Digest(key)
	var id string
	err := s.db.QueryRow(`SELECT id FROM templates WHERE digest = ?`, digest).Scan(&id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("save template: %w", err)
	}

	r, data, err := encode(key, t, id)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO templates (digest, id, placeholders, saved_at, data)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(digest) DO UPDATE SET
			placeholders = excluded.placeholders,
			saved_at = excluded.saved_at,
			data = excluded.data
	`, r.Digest, r.ID, len(r.Placeholders), r.SavedAt.Format(timeFormat), data)
	if err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}

// Load implements Store.
func (s *SQLiteStore) Load(key string) (*ziptmpl.ParsedTemplate, error) {
	data, err := s.load(Digest(key))
	if err != nil {
		return nil, err
	}
	return decode(data)
}

// Record implements Store.
func (s *SQLiteStore) Record(digest string) (*Record, error) {
	data, err := s.load(digest)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

func (s *SQLiteStore) load(digest string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	var data []byte
	err := s.db.QueryRow(`
		SELECT data FROM templates WHERE digest = ?
	`, digest).Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	return data, nil
}

// List implements Store.
func (s *SQLiteStore) List() ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT id, digest, placeholders, saved_at, LENGTH(data)
		FROM templates
		ORDER BY saved_at, digest
	`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	infos := []Info{}
	for rows.Next() {
		var info Info
		var savedAt string
		if err := rows.Scan(&info.ID, &info.Digest, &info.Placeholders, &savedAt, &info.Size); err != nil {
			return nil, fmt.Errorf("scan template info: %w", err)
		}
		info.SavedAt, err = time.Parse(timeFormat, savedAt)
		if err != nil {
			return nil, fmt.Errorf("parse saved_at of %s: %w", info.Digest, err)
		}
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}

	return infos, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(digest string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.Exec(`DELETE FROM templates WHERE digest = ?`, digest); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}
