package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl"
)

// Version is the current record format version.
// Increment when making breaking changes to the record structure.
const Version = 1

// Record is the persisted form of a parsed template.
type Record struct {
	Version      int       `json:"version"`
	ID           string    `json:"id"`
	Digest       string    `json:"digest"`
	Statics      []string  `json:"statics"`
	Placeholders []string  `json:"placeholders"`
	SavedAt      time.Time `json:"saved_at"`
}

// NewRecord creates a record for key with a fresh ID.
func NewRecord(key string, t *ziptmpl.ParsedTemplate) *Record {
	return &Record{
		Version:      Version,
		ID:           uuid.NewString(),
		Digest:       Digest(key),
		Statics:      t.Statics(),
		Placeholders: t.Placeholders(),
		SavedAt:      time.Now().UTC(),
	}
}

// Marshal serializes a record to JSON.
func (r *Record) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// Unmarshal deserializes a record from JSON.
func Unmarshal(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	if r.Version > Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, r.Version)
	}
	return &r, nil
}

// Template rebuilds the parsed template held by the record.
func (r *Record) Template() (*ziptmpl.ParsedTemplate, error) {
	t, err := ziptmpl.FromParts(r.Statics, r.Placeholders)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", r.ID, err)
	}
	return t, nil
}

// Info returns the record's metadata. Size is the length of its encoding.
func (r *Record) Info(size int64) Info {
	return Info{
		ID:           r.ID,
		Digest:       r.Digest,
		Placeholders: len(r.Placeholders),
		Size:         size,
		SavedAt:      r.SavedAt,
	}
}

// encode builds the record for key, reusing id when non-empty.
func encode(key string, t *ziptmpl.ParsedTemplate, id string) (*Record, []byte, error) {
	if t == nil {
		return nil, nil, fmt.Errorf("save %s: nil template", Digest(key))
	}
	r := NewRecord(key, t)
	if id != "" {
		r.ID = id
	}
	data, err := r.Marshal()
	if err != nil {
		return nil, nil, fmt.Errorf("marshal record: %w", err)
	}
	return r, data, nil
}

// decode parses data and rebuilds its template.
func decode(data []byte) (*ziptmpl.ParsedTemplate, error) {
	r, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return r.Template()
}
