package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajayk/studisdb/internal/pkg/apperrors"
)

func TestWithReadRetryNonTransientPassesThrough(t *testing.T) {
	s := &PostgresStore{}
	calls := 0

	err := s.withReadRetry(context.Background(), func(context.Context) error {
		calls++
		return pgx.ErrNoRows
	})
	require.ErrorIs(t, err, pgx.ErrNoRows, "callers still match no-rows")
	assert.Equal(t, 1, calls, "non-transient failures are never retried")
}

func TestWithReadRetryRecovers(t *testing.T) {
	s := &PostgresStore{}
	calls := 0

	err := s.withReadRetry(context.Background(), func(context.Context) error {
		calls++
		if calls == 1 {
			return &pgconn.PgError{Code: "08006"}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithReadRetryExhaustionWrapsUnavailable(t *testing.T) {
	s := &PostgresStore{}
	calls := 0

	err := s.withReadRetry(context.Background(), func(context.Context) error {
		calls++
		return &pgconn.PgError{Code: "57P03"}
	})
	require.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
	assert.Equal(t, readRetries, calls)
}

func TestWithReadRetryHonorsContext(t *testing.T) {
	s := &PostgresStore{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0

	err := s.withReadRetry(ctx, func(context.Context) error {
		calls++
		return &pgconn.PgError{Code: "08006"}
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "cancellation stops the retry loop before the backoff")
}

func TestWrapStorageErr(t *testing.T) {
	transient := &pgconn.PgError{Code: "53300"}
	err := wrapStorageErr(transient)
	require.ErrorIs(t, err, apperrors.ErrStorageUnavailable)

	plain := errors.New("constraint violated")
	assert.Equal(t, plain, wrapStorageErr(plain), "non-transient errors pass through untouched")
}
