package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ajayk/studisdb/internal/app/models"
)

// Record is one stored entity document. Reference fields hold ids (or id
// lists) of other records; the projection layer resolves them on read.
type Record map[string]interface{}

// Filter selects records by containment: a scalar filter value must equal
// the stored field value, a sequence filter value must be contained in the
// stored sequence. A nil filter matches everything.
type Filter map[string]interface{}

// Store is the storage capability consumed by the projection layer and the
// services. Each operation is independently atomic; no multi-record
// transaction is assumed.
type Store interface {
	// Get fetches one record, apperrors.ErrNotFound when absent.
	Get(ctx context.Context, entityType models.EntityType, id string) (Record, error)

	// GetMany fetches the records named by ids in a single lookup,
	// preserving input order and silently omitting missing ids.
	GetMany(ctx context.Context, entityType models.EntityType, ids []string) ([]Record, error)

	// Find returns records matching the containment filter, in insertion
	// order.
	Find(ctx context.Context, entityType models.EntityType, filter Filter) ([]Record, error)

	// Insert stores a new record, assigning its id. Domain-key collisions
	// fail with apperrors.ErrDuplicateKey atomically with the insert.
	Insert(ctx context.Context, entityType models.EntityType, fields Record) (Record, error)

	// Update merges partial into an existing record; unspecified fields
	// keep their prior value. apperrors.ErrNotFound when absent.
	Update(ctx context.Context, entityType models.EntityType, id string, partial Record) (Record, error)

	// Delete removes a record, apperrors.ErrNotFound when already gone.
	Delete(ctx context.Context, entityType models.EntityType, id string) error
}

// ID returns the record's id field.
func ID(rec Record) string {
	if id, ok := rec["id"].(string); ok {
		return id
	}
	return ""
}

// Normalize round-trips a record through JSON so that in-memory values use
// the same representation the database produces (float64 numbers,
// []interface{} sequences, map[string]interface{} sub-documents).
func Normalize(rec Record) (Record, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize record: %w", err)
	}
	var out Record
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to normalize record: %w", err)
	}
	return out, nil
}

// Copy returns a deep copy of the record. The projection layer works on
// copies so the stored document is never mutated by a read.
func Copy(rec Record) Record {
	out, err := Normalize(rec)
	if err != nil {
		// Records always come out of JSON columns, so they marshal.
		panic(fmt.Sprintf("record copy failed: %v", err))
	}
	return out
}

// StringIDs coerces a stored sequence reference field into its id strings,
// skipping entries that are not strings. Order is preserved.
func StringIDs(v interface{}) []string {
	seq, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(seq))
	for _, e := range seq {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
