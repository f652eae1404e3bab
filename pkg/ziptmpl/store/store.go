// Package store persists parsed templates so they survive process restarts.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl"
)

// Store persists parsed templates keyed by the digest of their source.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores the parsed form of key.
	// Overwrites the parts if key was saved before, keeping the record ID.
	Save(key string, t *ziptmpl.ParsedTemplate) error

	// Load retrieves the parsed form of key.
	// Returns ErrNotFound if key was never saved.
	Load(key string) (*ziptmpl.ParsedTemplate, error)

	// Record retrieves the full record for a digest.
	// Returns ErrNotFound if no record has that digest.
	Record(digest string) (*Record, error)

	// List returns metadata for all records, oldest first.
	// Returns empty slice (not error) if the store is empty.
	List() ([]Info, error)

	// Delete removes the record with the given digest.
	// Returns nil if it doesn't exist.
	Delete(digest string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides metadata without loading the template.
type Info struct {
	ID           string
	Digest       string
	Placeholders int
	Size         int64
	SavedAt      time.Time
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates a template was never saved.
	ErrNotFound = errors.New("template not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("template store closed")

	// ErrUnsupportedVersion indicates a record written by a newer format.
	ErrUnsupportedVersion = errors.New("unsupported record version")
)

// Digest returns the hex SHA-256 of key, the identity under which it is stored.
func Digest(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
