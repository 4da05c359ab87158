package projection

import "github.com/ajayk/studisdb/internal/app/models"

// Spec names the reference fields to resolve on a record. A field may carry
// a nested Spec applied to the fetched target (User's role_id under a
// Student's user_id); a nil nested Spec resolves the target one level only.
type Spec struct {
	Fields map[string]*Spec
}

// NewSpec builds a flat spec over the named fields.
func NewSpec(fields ...string) *Spec {
	s := &Spec{Fields: make(map[string]*Spec, len(fields))}
	for _, f := range fields {
		s.Fields[f] = nil
	}
	return s
}

// With attaches a nested spec for one field, returning the receiver for
// chaining.
func (s *Spec) With(field string, nested *Spec) *Spec {
	if s.Fields == nil {
		s.Fields = make(map[string]*Spec)
	}
	s.Fields[field] = nested
	return s
}

// IsEmpty reports whether the spec resolves nothing.
func (s *Spec) IsEmpty() bool {
	return s == nil || len(s.Fields) == 0
}

// DefaultSpec derives the full population spec of an entity type from the
// schema registry: every reference field resolved, nested references of the
// targets resolved recursively. The reference graph is acyclic (Student ->
// User -> Role), so recursion terminates.
func DefaultSpec(t models.EntityType) *Spec {
	schema, ok := models.Schema(t)
	if !ok || len(schema.Refs) == 0 {
		return nil
	}
	s := &Spec{Fields: make(map[string]*Spec, len(schema.Refs))}
	for _, ref := range schema.Refs {
		s.Fields[ref.Name] = DefaultSpec(ref.Target)
	}
	return s
}
