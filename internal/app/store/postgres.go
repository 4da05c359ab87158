package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ajayk/studisdb/internal/app/models"
	"github.com/ajayk/studisdb/internal/pkg/apperrors"
	"github.com/ajayk/studisdb/internal/pkg/dberrors"
)

// readRetries bounds the retry loop for idempotent reads hitting a transient
// storage failure. Writes are never retried.
const readRetries = 3

// PostgresStore implements Store over a single documents table: one JSONB
// document per record, partial unique indexes per domain key so uniqueness
// is atomic with the insert.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a PostgresStore on an existing pool.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get fetches one record by id.
func (s *PostgresStore) Get(ctx context.Context, entityType models.EntityType, id string) (Record, error) {
	var raw []byte
	err := s.readRow(ctx, &raw,
		`SELECT doc FROM documents WHERE entity_type = $1 AND id::text = $2`,
		string(entityType), id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(string(entityType), id)
	}
	if err != nil {
		return nil, err
	}
	return decodeDoc(raw)
}

// GetMany fetches all listed records in one query, then reorders to input
// order, omitting missing ids. A duplicated input id yields the record once
// per occurrence.
func (s *PostgresStore) GetMany(ctx context.Context, entityType models.EntityType, ids []string) ([]Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	byID := make(map[string]Record, len(ids))
	err := s.withReadRetry(ctx, func(ctx context.Context) error {
		rows, err := s.db.Query(ctx,
			`SELECT id::text, doc FROM documents WHERE entity_type = $1 AND id::text = ANY($2)`,
			string(entityType), ids)
		if err != nil {
			return err
		}
		defer rows.Close()

		clear(byID)
		for rows.Next() {
			var id string
			var raw []byte
			if err := rows.Scan(&id, &raw); err != nil {
				return err
			}
			rec, err := decodeDoc(raw)
			if err != nil {
				return err
			}
			byID[id] = rec
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		if rec, ok := byID[id]; ok {
			out = append(out, Copy(rec))
		}
	}
	return out, nil
}

// Find returns records matching the containment filter in insertion order.
func (s *PostgresStore) Find(ctx context.Context, entityType models.EntityType, filter Filter) ([]Record, error) {
	query := `SELECT doc FROM documents WHERE entity_type = $1 ORDER BY seq`
	args := []interface{}{string(entityType)}
	if len(filter) > 0 {
		filterJSON, err := json.Marshal(filter)
		if err != nil {
			return nil, fmt.Errorf("failed to encode filter: %w", err)
		}
		query = `SELECT doc FROM documents WHERE entity_type = $1 AND doc @> $2 ORDER BY seq`
		args = append(args, filterJSON)
	}

	var out []Record
	err := s.withReadRetry(ctx, func(ctx context.Context) error {
		rows, err := s.db.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = out[:0]
		for rows.Next() {
			var raw []byte
			if err := rows.Scan(&raw); err != nil {
				return err
			}
			rec, err := decodeDoc(raw)
			if err != nil {
				return err
			}
			out = append(out, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Insert stores a new record under a fresh uuid. A unique-index violation
// surfaces as ErrDuplicateKey naming the domain key.
func (s *PostgresStore) Insert(ctx context.Context, entityType models.EntityType, fields Record) (Record, error) {
	rec, err := Normalize(fields)
	if err != nil {
		return nil, err
	}
	id := uuid.New().String()
	rec["id"] = id

	docJSON, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO documents (entity_type, id, doc) VALUES ($1, $2, $3)`,
		string(entityType), id, docJSON)
	if err != nil {
		if field, ok := dberrors.UniqueViolationField(err, string(entityType)); ok {
			return nil, apperrors.NewDuplicateKeyError(field)
		}
		return nil, wrapStorageErr(err)
	}
	return rec, nil
}

// Update merges partial fields into the stored document with a single
// atomic JSONB concatenation.
func (s *PostgresStore) Update(ctx context.Context, entityType models.EntityType, id string, partial Record) (Record, error) {
	patch, err := Normalize(partial)
	if err != nil {
		return nil, err
	}
	delete(patch, "id")

	patchJSON, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to encode update: %w", err)
	}

	var raw []byte
	err = s.db.QueryRow(ctx,
		`UPDATE documents SET doc = doc || $3 WHERE entity_type = $1 AND id::text = $2 RETURNING doc`,
		string(entityType), id, patchJSON).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(string(entityType), id)
	}
	if err != nil {
		if field, ok := dberrors.UniqueViolationField(err, string(entityType)); ok {
			return nil, apperrors.NewDuplicateKeyError(field)
		}
		return nil, wrapStorageErr(err)
	}
	return decodeDoc(raw)
}

// Delete removes a record; the second delete of the same id reports
// not-found.
func (s *PostgresStore) Delete(ctx context.Context, entityType models.EntityType, id string) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM documents WHERE entity_type = $1 AND id::text = $2`,
		string(entityType), id)
	if err != nil {
		return wrapStorageErr(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(string(entityType), id)
	}
	return nil
}

// readRow runs a single-row read with bounded retry on transient failures.
func (s *PostgresStore) readRow(ctx context.Context, dst *[]byte, query string, args ...interface{}) error {
	return s.withReadRetry(ctx, func(ctx context.Context) error {
		return s.db.QueryRow(ctx, query, args...).Scan(dst)
	})
}

// withReadRetry retries idempotent reads a small bounded number of times
// when the failure looks transient. Non-transient errors pass through
// untouched so callers can match pgx.ErrNoRows.
func (s *PostgresStore) withReadRetry(ctx context.Context, fn func(context.Context) error) error {
	var err error
	for attempt := 0; attempt < readRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
			}
		}
		err = fn(ctx)
		if err == nil || !dberrors.IsTransient(err) {
			return err
		}
	}
	return wrapStorageErr(err)
}

func wrapStorageErr(err error) error {
	if dberrors.IsTransient(err) {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}
	return err
}

func decodeDoc(raw []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode stored document: %w", err)
	}
	return rec, nil
}
