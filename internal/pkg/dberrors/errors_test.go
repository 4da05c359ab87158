package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutErr struct{}

func (timeoutErr) Error() string { return "i/o timeout" }
func (timeoutErr) Timeout() bool { return true }

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"cannot connect now", &pgconn.PgError{Code: "57P03"}, true},
		{"too many connections", &pgconn.PgError{Code: "53300"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"syntax error", &pgconn.PgError{Code: "42601"}, false},
		{"net timeout", timeoutErr{}, true},
		{"wrapped net timeout", fmt.Errorf("query: %w", timeoutErr{}), true},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestUniqueViolationField(t *testing.T) {
	field, ok := UniqueViolationField(&pgconn.PgError{
		Code: "23505", ConstraintName: "uq_student_rollno",
	}, "student")
	require.True(t, ok)
	assert.Equal(t, "rollNo", field, "index name maps back to the schema's key casing")

	field, ok = UniqueViolationField(&pgconn.PgError{
		Code: "23505", ConstraintName: "uq_user_email",
	}, "user")
	require.True(t, ok)
	assert.Equal(t, "email", field)

	// A unique violation on an unrecognized constraint is still a
	// duplicate, just without a field name.
	field, ok = UniqueViolationField(&pgconn.PgError{
		Code: "23505", ConstraintName: "documents_pkey",
	}, "student")
	require.True(t, ok)
	assert.Empty(t, field)

	// Other error codes and non-pg errors are not unique violations.
	_, ok = UniqueViolationField(&pgconn.PgError{Code: "23503"}, "student")
	assert.False(t, ok)
	_, ok = UniqueViolationField(errors.New("boom"), "student")
	assert.False(t, ok)
}
