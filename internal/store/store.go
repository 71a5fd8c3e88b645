// Package store holds the keyed record stores the batch recalculation reads
// and writes. Field identifiers are opaque strings; FieldMap says which ones
// carry which value.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a key has no record.
var ErrNotFound = errors.New("record not found")

// Fields is one stored record: opaque field id to persisted string value.
type Fields map[string]string

// Clone returns an independent copy of f.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// RecordStore reads and writes records by key.
//
// Error Contract:
// - Get returns ErrNotFound (possibly wrapped) when the key does not exist
// - Put creates or replaces the record
// - infrastructure failures are returned wrapped with context
type RecordStore interface {
	Keys(ctx context.Context) ([]string, error)
	Get(ctx context.Context, key string) (Fields, error)
	Put(ctx context.Context, key string, fields Fields) error
}

// NewKey returns a fresh record key.
func NewKey() string {
	return uuid.NewString()
}

// FieldMap names the opaque field ids that hold each source and output value.
// An empty id means the value is not stored.
type FieldMap struct {
	Today                 string `yaml:"today"`
	LPRDate               string `yaml:"lpr_date"`
	MarriageDate          string `yaml:"marriage_date"`
	SpouseCitizenshipDate string `yaml:"spouse_citizenship_date"`
	MaritalStatus         string `yaml:"marital_status"`

	ControllingFactor  string `yaml:"controlling_factor"`
	ControllingDate    string `yaml:"controlling_date"`
	ControllingDesc    string `yaml:"controlling_desc"`
	Status             string `yaml:"status"`
	EarliestFilingDate string `yaml:"earliest_filing_date"`
	Message            string `yaml:"message"`
}

// DefaultFieldMap returns the field ids used by records written by this tool.
func DefaultFieldMap() FieldMap {
	return FieldMap{
		Today:                 "today",
		LPRDate:               "lpr_date",
		MarriageDate:          "marriage_date",
		SpouseCitizenshipDate: "spouse_citizenship_date",
		MaritalStatus:         "marital_status",
		ControllingFactor:     "controlling_factor",
		ControllingDate:       "controlling_date",
		ControllingDesc:       "controlling_desc",
		Status:                "status",
		EarliestFilingDate:    "earliest_filing_date",
		Message:               "message",
	}
}

// Lookup returns the value of field id in f; an empty id yields "".
func (f Fields) Lookup(id string) string {
	if id == "" {
		return ""
	}
	return f[id]
}

// Set writes v under id; an empty id is ignored.
func (f Fields) Set(id, v string) {
	if id == "" {
		return
	}
	f[id] = v
}

// Copy writes every record of src into dst.
func Copy(ctx context.Context, dst, src RecordStore) error {
	keys, err := src.Keys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}
	for _, k := range keys {
		f, err := src.Get(ctx, k)
		if err != nil {
			return err
		}
		if err := dst.Put(ctx, k, f); err != nil {
			return err
		}
	}
	return nil
}
