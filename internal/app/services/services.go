package services

import (
	"github.com/rs/zerolog"

	"github.com/ajayk/studisdb/internal/app/models"
	"github.com/ajayk/studisdb/internal/app/projection"
	"github.com/ajayk/studisdb/internal/app/store"
	"github.com/ajayk/studisdb/internal/pkg/auth"
)

// Services bundles every application service over one storage capability
// and one projector.
type Services struct {
	Roles    *EntityService
	Users    *EntityService
	Admins   *EntityService
	Teachers *EntityService
	Subjects *EntityService
	YearSems *EntityService
	Students *StudentService
	Auth     *AuthService

	Projector *projection.Projector
}

// Options carries the integrity configuration shared by all services.
type Options struct {
	// StrictReferences validates reference ids on writes.
	StrictReferences bool
	// DeletePolicies maps each entity type to its delete policy.
	DeletePolicies map[models.EntityType]projection.Policy
}

// NewServices wires the service layer.
func NewServices(st store.Store, jwtService *auth.JWTService, logger zerolog.Logger, opts Options) *Services {
	projector := projection.NewProjector(st)

	entity := func(t models.EntityType) *EntityService {
		return NewEntityService(EntityServiceConfig{
			Type:             t,
			Store:            st,
			Projector:        projector,
			StrictReferences: opts.StrictReferences,
			DeletePolicy:     opts.DeletePolicies[t],
		})
	}

	return &Services{
		Roles:     entity(models.EntityRole),
		Users:     entity(models.EntityUser),
		Admins:    entity(models.EntityAdmin),
		Teachers:  entity(models.EntityTeacher),
		Subjects:  entity(models.EntitySubject),
		YearSems:  entity(models.EntityYearSem),
		Students:  NewStudentService(entity(models.EntityStudent)),
		Auth:      NewAuthService(st, jwtService, logger),
		Projector: projector,
	}
}
