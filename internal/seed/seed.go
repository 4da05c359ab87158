package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ajayk/studisdb/internal/app/models"
	"github.com/ajayk/studisdb/internal/app/store"
	"github.com/ajayk/studisdb/internal/pkg/apperrors"
)

// CreateDefaultData creates the default roles if they don't exist.
func CreateDefaultData(ctx context.Context, st store.Store, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default roles...")

	roles := []store.Record{
		{"role_id": 1, "roleName": "admin"},
		{"role_id": 2, "roleName": "teacher"},
		{"role_id": 3, "roleName": "student"},
	}

	var finalErr error
	for _, role := range roles {
		if _, err := st.Insert(ctx, models.EntityRole, store.Copy(role)); err != nil {
			if errors.Is(err, apperrors.ErrDuplicateKey) {
				continue
			}
			lgr.Error().Err(err).Interface("role", role).Msg("Error creating default role")
			finalErr = errors.Join(finalErr, err)
		}
	}
	return finalErr
}
