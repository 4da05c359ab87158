package dberrors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ajayk/studisdb/internal/app/models"
)

// UniqueViolationField maps a PostgreSQL unique violation (23505) back to
// the domain key it protects. Unique indexes follow the naming convention
// uq_<entity>_<field>; Postgres folds the index name to lowercase, so the
// field is recovered case-insensitively from the entity schema.
func UniqueViolationField(err error, entityType string) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return "", false
	}

	schema, ok := models.Schema(models.EntityType(entityType))
	if !ok {
		return "", false
	}
	prefix := "uq_" + strings.ToLower(entityType) + "_"
	for _, key := range schema.UniqueKeys {
		if pgErr.ConstraintName == prefix+strings.ToLower(key) {
			return key, true
		}
	}
	// Unique violation on this table but an unrecognized constraint; still a
	// duplicate, reported without a field name.
	return "", true
}

// IsTransient reports whether the error looks like a transient storage
// failure worth a bounded retry (for reads) or an ErrStorageUnavailable
// wrap (for writes). Connection-class failures and admin shutdowns qualify;
// constraint violations and bad SQL do not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if pgconn.SafeToRetry(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08: connection exception. 57P03: cannot_connect_now.
		// 53300: too_many_connections.
		return strings.HasPrefix(pgErr.Code, "08") ||
			pgErr.Code == "57P03" ||
			pgErr.Code == "53300"
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
