package store

import (
	"context"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/ajayk/studisdb/internal/app/models"
	"github.com/ajayk/studisdb/internal/pkg/apperrors"
)

// MemoryStore is an in-memory Store with the same semantics as the Postgres
// implementation. It backs the tests and is handy for local runs without a
// database.
type MemoryStore struct {
	mu    sync.RWMutex
	docs  map[models.EntityType]map[string]Record
	order map[models.EntityType][]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:  make(map[models.EntityType]map[string]Record),
		order: make(map[models.EntityType][]string),
	}
}

// Get fetches one record by id.
func (s *MemoryStore) Get(ctx context.Context, entityType models.EntityType, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.docs[entityType][id]
	if !ok {
		return nil, apperrors.NewNotFoundError(string(entityType), id)
	}
	return Copy(rec), nil
}

// GetMany fetches records in input order, omitting missing ids.
func (s *MemoryStore) GetMany(ctx context.Context, entityType models.EntityType, ids []string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		if rec, ok := s.docs[entityType][id]; ok {
			out = append(out, Copy(rec))
		}
	}
	return out, nil
}

// Find returns matching records in insertion order.
func (s *MemoryStore) Find(ctx context.Context, entityType models.EntityType, filter Filter) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, id := range s.order[entityType] {
		rec, ok := s.docs[entityType][id]
		if !ok {
			continue
		}
		if matches(rec, filter) {
			out = append(out, Copy(rec))
		}
	}
	return out, nil
}

// Insert stores a new record under a fresh id, enforcing domain-key
// uniqueness.
func (s *MemoryStore) Insert(ctx context.Context, entityType models.EntityType, fields Record) (Record, error) {
	rec, err := Normalize(fields)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if field := s.duplicateKey(entityType, rec, ""); field != "" {
		return nil, apperrors.NewDuplicateKeyError(field)
	}

	id := uuid.New().String()
	rec["id"] = id

	if s.docs[entityType] == nil {
		s.docs[entityType] = make(map[string]Record)
	}
	s.docs[entityType][id] = rec
	s.order[entityType] = append(s.order[entityType], id)
	return Copy(rec), nil
}

// Update merges partial fields into an existing record.
func (s *MemoryStore) Update(ctx context.Context, entityType models.EntityType, id string, partial Record) (Record, error) {
	patch, err := Normalize(partial)
	if err != nil {
		return nil, err
	}
	delete(patch, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.docs[entityType][id]
	if !ok {
		return nil, apperrors.NewNotFoundError(string(entityType), id)
	}

	merged := Copy(rec)
	for k, v := range patch {
		merged[k] = v
	}

	if field := s.duplicateKey(entityType, merged, id); field != "" {
		return nil, apperrors.NewDuplicateKeyError(field)
	}

	s.docs[entityType][id] = merged
	return Copy(merged), nil
}

// Delete removes a record; deleting twice reports not-found the second time.
func (s *MemoryStore) Delete(ctx context.Context, entityType models.EntityType, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[entityType][id]; !ok {
		return apperrors.NewNotFoundError(string(entityType), id)
	}
	delete(s.docs[entityType], id)
	return nil
}

// duplicateKey reports the first domain key of rec colliding with another
// stored record, excluding the record identified by selfID.
func (s *MemoryStore) duplicateKey(entityType models.EntityType, rec Record, selfID string) string {
	schema, ok := models.Schema(entityType)
	if !ok {
		return ""
	}
	for _, key := range schema.UniqueKeys {
		val, present := rec[key]
		if !present || val == nil {
			continue
		}
		for id, other := range s.docs[entityType] {
			if id == selfID {
				continue
			}
			if reflect.DeepEqual(other[key], val) {
				return key
			}
		}
	}
	return ""
}

// matches implements the containment semantics of a JSONB @> filter for the
// value shapes this system stores.
func matches(rec Record, filter Filter) bool {
	for key, want := range filter {
		got, ok := rec[key]
		if !ok {
			return false
		}
		switch want := want.(type) {
		case []interface{}:
			seq, ok := got.([]interface{})
			if !ok {
				return false
			}
			for _, w := range want {
				if !seqContains(seq, w) {
					return false
				}
			}
		case []string:
			seq, ok := got.([]interface{})
			if !ok {
				return false
			}
			for _, w := range want {
				if !seqContains(seq, w) {
					return false
				}
			}
		default:
			if !looseEqual(got, want) {
				return false
			}
		}
	}
	return true
}

func seqContains(seq []interface{}, want interface{}) bool {
	for _, e := range seq {
		if looseEqual(e, want) {
			return true
		}
	}
	return false
}

// looseEqual compares values across JSON and Go numeric representations.
func looseEqual(a, b interface{}) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	return aok && bok && af == bf
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
