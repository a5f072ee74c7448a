// Package store persists synthesis run records so results can be listed,
// inspected and re-rendered later.
//
// Two backends are provided:
//   - file: JSON files in a config directory, for CLI use
//   - mongo: a MongoDB collection, for server deployments
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hausweber/heatnet/pkg/synth"
)

// ErrNotFound is returned when a run record does not exist.
var ErrNotFound = errors.New("run not found")

// RunRecord captures one synthesis run: the parameters it was invoked with,
// the fingerprint of its input and the resulting statistics. The geometry
// itself lives in the cache keyed by InputHash and Parameters; the record is
// the durable index over it.
type RunRecord struct {
	ID        string    `json:"id" bson:"id"`
	Label     string    `json:"label,omitempty" bson:"label,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	InputHash  string        `json:"input_hash" bson:"input_hash"`
	Parameters synth.Options `json:"parameters" bson:"parameters"`
	Stats      synth.Stats   `json:"stats" bson:"stats"`
}

// NewRunRecord builds a record for a completed run with a fresh ID.
func NewRunRecord(label, inputHash string, params synth.Options, stats synth.Stats) *RunRecord {
	return &RunRecord{
		ID:         uuid.NewString(),
		Label:      label,
		CreatedAt:  time.Now().UTC(),
		InputHash:  inputHash,
		Parameters: params,
		Stats:      stats,
	}
}

// Store is the interface for run record persistence backends.
type Store interface {
	// Save stores a record, overwriting any record with the same ID.
	Save(ctx context.Context, rec *RunRecord) error

	// Get retrieves a record by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*RunRecord, error)

	// List returns records newest first, at most limit entries.
	// A limit of zero or less returns all records.
	List(ctx context.Context, limit int) ([]*RunRecord, error)

	// Delete removes a record. Deleting an absent record is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
