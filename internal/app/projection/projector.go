package projection

import (
	"context"
	"errors"

	"github.com/ajayk/studisdb/internal/app/models"
	"github.com/ajayk/studisdb/internal/app/store"
	"github.com/ajayk/studisdb/internal/pkg/apperrors"
)

// Projector resolves reference fields on read. It never mutates the stored
// records it resolves: every projection works on a copy, so the raw id
// values stay retrievable from the store. Projections are purely reads and
// safe to run concurrently; given unchanged underlying data the output is
// deterministic.
type Projector struct {
	store store.Store
}

// NewProjector creates a projector over a storage capability.
func NewProjector(st store.Store) *Projector {
	return &Projector{store: st}
}

// ProjectOne fetches a record and resolves its references per spec. It
// fails with ErrNotFound only when the primary record itself is absent; a
// dangling reference resolves to null (scalar) or is omitted (sequence).
func (p *Projector) ProjectOne(ctx context.Context, t models.EntityType, id string, spec *Spec) (store.Record, error) {
	rec, err := p.store.Get(ctx, t, id)
	if err != nil {
		return nil, err
	}
	return p.Project(ctx, t, rec, spec)
}

// ProjectMany fetches records by filter and resolves each one's references.
func (p *Projector) ProjectMany(ctx context.Context, t models.EntityType, filter store.Filter, spec *Spec) ([]store.Record, error) {
	recs, err := p.store.Find(ctx, t, filter)
	if err != nil {
		return nil, err
	}
	out := make([]store.Record, 0, len(recs))
	for _, rec := range recs {
		projected, err := p.Project(ctx, t, rec, spec)
		if err != nil {
			return nil, err
		}
		out = append(out, projected)
	}
	return out, nil
}

// Project resolves the reference fields of an already-fetched record,
// returning a denormalized copy.
func (p *Projector) Project(ctx context.Context, t models.EntityType, rec store.Record, spec *Spec) (store.Record, error) {
	if spec.IsEmpty() {
		return store.Copy(rec), nil
	}

	schema, ok := models.Schema(t)
	if !ok {
		return store.Copy(rec), nil
	}

	out := store.Copy(rec)
	for field, nested := range spec.Fields {
		ref, ok := schema.RefByName(field)
		if !ok {
			// Spec names a field this entity does not reference; leave the
			// stored value as is.
			continue
		}
		switch ref.Kind {
		case models.RefScalar:
			if err := p.resolveScalar(ctx, out, ref, nested); err != nil {
				return nil, err
			}
		case models.RefSequence:
			if err := p.resolveSequence(ctx, out, ref, nested); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// resolveScalar replaces a single-valued reference with the target record,
// or null when the target no longer exists.
func (p *Projector) resolveScalar(ctx context.Context, out store.Record, ref models.RefField, nested *Spec) error {
	id, ok := out[ref.Name].(string)
	if !ok || id == "" {
		return nil
	}

	target, err := p.store.Get(ctx, ref.Target, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		out[ref.Name] = nil
		return nil
	}
	if err != nil {
		return err
	}

	if !nested.IsEmpty() {
		target, err = p.Project(ctx, ref.Target, target, nested)
		if err != nil {
			return err
		}
	}
	out[ref.Name] = target
	return nil
}

// resolveSequence replaces a list of reference ids with the target records,
// batch-fetched in a single id-in-set lookup. Relative order is preserved
// and ids whose target no longer exists are omitted.
func (p *Projector) resolveSequence(ctx context.Context, out store.Record, ref models.RefField, nested *Spec) error {
	val := out[ref.Name]
	if val == nil {
		return nil
	}
	ids := store.StringIDs(val)

	targets, err := p.store.GetMany(ctx, ref.Target, ids)
	if err != nil {
		return err
	}

	resolved := make([]interface{}, 0, len(targets))
	for _, target := range targets {
		if !nested.IsEmpty() {
			target, err = p.Project(ctx, ref.Target, target, nested)
			if err != nil {
				return err
			}
		}
		resolved = append(resolved, map[string]interface{}(target))
	}
	out[ref.Name] = resolved
	return nil
}
