package services

import (
	"context"

	"github.com/ajayk/studisdb/internal/app/models"
	"github.com/ajayk/studisdb/internal/app/projection"
	"github.com/ajayk/studisdb/internal/app/store"
	"github.com/ajayk/studisdb/internal/pkg/apperrors"
)

// EntityService implements the CRUD operations shared by every entity
// type: create with optional strict reference checking, reads through the
// projection layer, partial updates, and policy-guarded deletes.
type EntityService struct {
	entityType models.EntityType
	store      store.Store
	projector  *projection.Projector
	spec       *projection.Spec

	strictRefs   bool
	deletePolicy projection.Policy
}

// EntityServiceConfig configures an EntityService.
type EntityServiceConfig struct {
	Type      models.EntityType
	Store     store.Store
	Projector *projection.Projector
	// Spec overrides the default full-population projection spec.
	Spec *projection.Spec
	// StrictReferences validates reference ids on create/update.
	StrictReferences bool
	// DeletePolicy applies when a delete has no explicit policy.
	DeletePolicy projection.Policy
}

// NewEntityService creates a service for one entity type.
func NewEntityService(cfg EntityServiceConfig) *EntityService {
	spec := cfg.Spec
	if spec == nil {
		spec = projection.DefaultSpec(cfg.Type)
	}
	return &EntityService{
		entityType:   cfg.Type,
		store:        cfg.Store,
		projector:    cfg.Projector,
		spec:         spec,
		strictRefs:   cfg.StrictReferences,
		deletePolicy: cfg.DeletePolicy,
	}
}

// Type returns the entity type this service manages.
func (s *EntityService) Type() models.EntityType {
	return s.entityType
}

// Create inserts a new record. In strict mode every supplied reference id
// must name an existing record.
func (s *EntityService) Create(ctx context.Context, fields store.Record) (store.Record, error) {
	if s.strictRefs {
		if err := s.projector.CheckRefs(ctx, s.entityType, fields); err != nil {
			return nil, err
		}
	}
	return s.store.Insert(ctx, s.entityType, fields)
}

// GetByID returns one record with its references resolved.
func (s *EntityService) GetByID(ctx context.Context, id string) (store.Record, error) {
	return s.projector.ProjectOne(ctx, s.entityType, id, s.spec)
}

// List returns matching records with references resolved.
func (s *EntityService) List(ctx context.Context, filter store.Filter) ([]store.Record, error) {
	return s.projector.ProjectMany(ctx, s.entityType, filter, s.spec)
}

// ListWithSpec lists with a caller-chosen projection spec.
func (s *EntityService) ListWithSpec(ctx context.Context, filter store.Filter, spec *projection.Spec) ([]store.Record, error) {
	return s.projector.ProjectMany(ctx, s.entityType, filter, spec)
}

// GetByKey finds the single record whose domain-key field equals value.
func (s *EntityService) GetByKey(ctx context.Context, field string, value interface{}) (store.Record, error) {
	recs, err := s.store.Find(ctx, s.entityType, store.Filter{field: value})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, apperrors.NewNotFoundError(string(s.entityType), "")
	}
	return recs[0], nil
}

// Update merges the patch into an existing record and returns it with
// references resolved. Strict mode validates any reference fields the patch
// touches.
func (s *EntityService) Update(ctx context.Context, id string, patch store.Record) (store.Record, error) {
	if s.strictRefs {
		if err := s.projector.CheckRefs(ctx, s.entityType, patch); err != nil {
			return nil, err
		}
	}
	updated, err := s.store.Update(ctx, s.entityType, id, patch)
	if err != nil {
		return nil, err
	}
	return s.projector.Project(ctx, s.entityType, updated, s.spec)
}

// Delete removes a record under the service's configured policy.
func (s *EntityService) Delete(ctx context.Context, id string) error {
	return s.projector.DeleteWithIntegrity(ctx, s.entityType, id, s.deletePolicy)
}

// DeleteWithPolicy removes a record under an explicit policy, overriding
// the configured default.
func (s *EntityService) DeleteWithPolicy(ctx context.Context, id string, policy projection.Policy) error {
	return s.projector.DeleteWithIntegrity(ctx, s.entityType, id, policy)
}
