package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ajayk/studisdb/internal/app/models"
	"github.com/ajayk/studisdb/internal/app/store"
	"github.com/ajayk/studisdb/internal/pkg/apperrors"
	"github.com/ajayk/studisdb/internal/pkg/auth"
)

// AuthService handles registration and login.
type AuthService struct {
	store      store.Store
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates the auth service.
func NewAuthService(st store.Store, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		store:      st,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates a user with a bcrypt password hash. Email uniqueness is
// enforced by the storage layer, atomically with the insert, so concurrent
// registrations of the same email cannot both succeed.
func (s *AuthService) Register(ctx context.Context, email, password, roleID string) (store.Record, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	fields := store.Record{
		"email":    email,
		"password": hash,
	}
	if roleID != "" {
		fields["role_id"] = roleID
	}

	rec, err := s.store.Insert(ctx, models.EntityUser, fields)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateKey) {
			return nil, &apperrors.CustomError{Err: apperrors.ErrEmailAlreadyExists, Message: "email already registered"}
		}
		return nil, err
	}

	s.logger.Info().Str("email", email).Msg("User registered")

	// Never hand the hash back to callers.
	delete(rec, "password")
	return rec, nil
}

// Login verifies credentials and issues an access token. The role name is
// resolved into the claims when the user carries a role reference.
func (s *AuthService) Login(ctx context.Context, email, password string) (token string, expiresIn int, err error) {
	email = strings.ToLower(strings.TrimSpace(email))

	users, err := s.store.Find(ctx, models.EntityUser, store.Filter{"email": email})
	if err != nil {
		return "", 0, err
	}
	if len(users) == 0 {
		return "", 0, apperrors.ErrInvalidCredentials
	}
	user := users[0]

	hash, _ := user["password"].(string)
	if !auth.CheckPassword(hash, password) {
		return "", 0, apperrors.ErrInvalidCredentials
	}

	roleName := s.roleNameOf(ctx, user)
	return s.jwtService.GenerateToken(store.ID(user), email, roleName)
}

// roleNameOf resolves the user's role name, tolerating a dangling or
// absent role reference.
func (s *AuthService) roleNameOf(ctx context.Context, user store.Record) string {
	roleID, ok := user["role_id"].(string)
	if !ok || roleID == "" {
		return ""
	}
	role, err := s.store.Get(ctx, models.EntityRole, roleID)
	if err != nil {
		return ""
	}
	name, _ := role["roleName"].(string)
	return name
}
