package projection

import (
	"context"
	"errors"
	"fmt"

	"github.com/ajayk/studisdb/internal/app/models"
	"github.com/ajayk/studisdb/internal/app/store"
	"github.com/ajayk/studisdb/internal/pkg/apperrors"
	"github.com/ajayk/studisdb/internal/pkg/logger"
)

// Policy selects how a delete treats live references to the target.
type Policy int

const (
	// PolicyRestrict rejects the delete while other records still
	// reference the target, naming the referrers.
	PolicyRestrict Policy = iota
	// PolicyCascadeNull deletes the target, then strips its id from every
	// referrer: scalar fields set to null, sequence fields filtered.
	PolicyCascadeNull
)

// ParsePolicy parses the wire/config spelling of a policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "restrict":
		return PolicyRestrict, nil
	case "cascade-null":
		return PolicyCascadeNull, nil
	default:
		return 0, fmt.Errorf("unknown delete policy %q", s)
	}
}

func (p Policy) String() string {
	if p == PolicyCascadeNull {
		return "cascade-null"
	}
	return "restrict"
}

// DeleteWithIntegrity deletes a record under the given referential policy.
// Deleting an id that no longer exists reports not-found, so a racing
// second delete observes the same outcome as the historical behavior.
//
// Under PolicyCascadeNull the referrer cleanup runs after the delete as a
// best-effort sequence of single-record updates; there is no multi-record
// transaction. A cleanup failure is logged and surfaced as
// ErrCascadeIncomplete naming the records left pointing at the deleted id.
func (p *Projector) DeleteWithIntegrity(ctx context.Context, t models.EntityType, id string, policy Policy) error {
	// The target must exist before references to it count as a conflict.
	// Dangling ids written in lax mode can name a record that was never
	// created; deleting such an id is a plain not-found.
	if _, err := p.store.Get(ctx, t, id); err != nil {
		return err
	}

	referrers, err := p.findReferrers(ctx, t, id)
	if err != nil {
		return err
	}

	if policy == PolicyRestrict && len(referrers) > 0 {
		return apperrors.NewReferentialConflictError(referrers)
	}

	if err := p.store.Delete(ctx, t, id); err != nil {
		return err
	}

	if policy != PolicyCascadeNull || len(referrers) == 0 {
		return nil
	}

	var failed []apperrors.Referrer
	var firstErr error
	for _, ref := range referrers {
		if err := p.stripReference(ctx, ref, id); err != nil {
			logger.Error().Err(err).
				Str("entityType", ref.EntityType).
				Str("recordId", ref.ID).
				Str("field", ref.Field).
				Str("deletedId", id).
				Msg("Cascade cleanup failed; reference left dangling")
			failed = append(failed, ref)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if len(failed) > 0 {
		return apperrors.NewCascadeIncompleteError(failed, firstErr)
	}
	return nil
}

// CheckRefs validates, in strict mode, that every reference field present
// on the record names an existing target. The first dangling reference
// fails with ErrDanglingReference naming the field and id. Applies to
// creates and to updates that touch reference fields.
func (p *Projector) CheckRefs(ctx context.Context, t models.EntityType, rec store.Record) error {
	schema, ok := models.Schema(t)
	if !ok {
		return nil
	}
	for _, ref := range schema.Refs {
		val, present := rec[ref.Name]
		if !present || val == nil {
			continue
		}
		switch ref.Kind {
		case models.RefScalar:
			id, ok := val.(string)
			if !ok || id == "" {
				continue
			}
			_, err := p.store.Get(ctx, ref.Target, id)
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewDanglingReferenceError(ref.Name, id)
			}
			if err != nil {
				return err
			}
		case models.RefSequence:
			ids := store.StringIDs(val)
			if len(ids) == 0 {
				continue
			}
			targets, err := p.store.GetMany(ctx, ref.Target, ids)
			if err != nil {
				return err
			}
			found := make(map[string]bool, len(targets))
			for _, target := range targets {
				found[store.ID(target)] = true
			}
			for _, id := range ids {
				if !found[id] {
					return apperrors.NewDanglingReferenceError(ref.Name, id)
				}
			}
		}
	}
	return nil
}

// findReferrers scans every entity field able to reference the target type
// for occurrences of id. Sequence fields use a containment filter, so the
// scan is one Find per referencing field, not per record.
func (p *Projector) findReferrers(ctx context.Context, target models.EntityType, id string) ([]apperrors.Referrer, error) {
	var out []apperrors.Referrer
	for _, r := range models.ReferrersOf(target) {
		var filter store.Filter
		if r.Field.Kind == models.RefSequence {
			filter = store.Filter{r.Field.Name: []string{id}}
		} else {
			filter = store.Filter{r.Field.Name: id}
		}
		recs, err := p.store.Find(ctx, r.Type, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s.%s for referrers: %w", r.Type, r.Field.Name, err)
		}
		for _, rec := range recs {
			out = append(out, apperrors.Referrer{
				EntityType: string(r.Type),
				ID:         store.ID(rec),
				Field:      r.Field.Name,
			})
		}
	}
	return out, nil
}

// stripReference removes id from one referrer's reference field. Scalar
// fields become null; sequence fields drop every occurrence, preserving the
// order of the rest. The read-modify-write on sequence fields is not
// atomic with respect to concurrent writers; the delete already committed,
// so a lost update here degrades to a dangling reference the projector
// tolerates.
func (p *Projector) stripReference(ctx context.Context, ref apperrors.Referrer, id string) error {
	t := models.EntityType(ref.EntityType)
	schema, _ := models.Schema(t)
	field, ok := schema.RefByName(ref.Field)
	if !ok {
		return fmt.Errorf("unknown reference field %s.%s", ref.EntityType, ref.Field)
	}

	if field.Kind == models.RefScalar {
		_, err := p.store.Update(ctx, t, ref.ID, store.Record{ref.Field: nil})
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}

	rec, err := p.store.Get(ctx, t, ref.ID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	seq, _ := rec[ref.Field].([]interface{})
	filtered := make([]interface{}, 0, len(seq))
	for _, e := range seq {
		if s, ok := e.(string); ok && s == id {
			continue
		}
		filtered = append(filtered, e)
	}
	_, err = p.store.Update(ctx, t, ref.ID, store.Record{ref.Field: filtered})
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	return err
}
