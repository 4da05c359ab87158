package models

// EntityType names a stored entity collection.
type EntityType string

const (
	EntityRole    EntityType = "role"
	EntityUser    EntityType = "user"
	EntityAdmin   EntityType = "admin"
	EntityTeacher EntityType = "teacher"
	EntitySubject EntityType = "subject"
	EntityYearSem EntityType = "yearsem"
	EntityStudent EntityType = "student"
)

// YearSem status values
const (
	YearSemActive   = "active"
	YearSemInactive = "inactive"
)

// RefKind distinguishes scalar from sequence reference fields.
type RefKind int

const (
	// RefScalar is a single-valued reference (user_id, role_id).
	RefScalar RefKind = iota
	// RefSequence is an ordered list of references, duplicates allowed,
	// insertion order preserved (subjectIds, yearSemIds).
	RefSequence
)

// RefField describes one reference field of an entity schema.
type RefField struct {
	Name   string
	Target EntityType
	Kind   RefKind
}

// EntitySchema is the typed definition of one entity: its domain-unique
// keys (enforced at the storage layer) and its reference fields (resolved
// by the projection layer).
type EntitySchema struct {
	Type       EntityType
	UniqueKeys []string
	Refs       []RefField
}

// Registry holds the schema of every entity type.
var Registry = map[EntityType]EntitySchema{
	EntityRole: {
		Type:       EntityRole,
		UniqueKeys: []string{"role_id"},
	},
	EntityUser: {
		Type:       EntityUser,
		UniqueKeys: []string{"email"},
		Refs: []RefField{
			{Name: "role_id", Target: EntityRole, Kind: RefScalar},
		},
	},
	EntityAdmin: {
		Type:       EntityAdmin,
		UniqueKeys: []string{"admin_id"},
		Refs: []RefField{
			{Name: "user_id", Target: EntityUser, Kind: RefScalar},
		},
	},
	EntityTeacher: {
		Type:       EntityTeacher,
		UniqueKeys: []string{"teacherID"},
		Refs: []RefField{
			{Name: "subjectIds", Target: EntitySubject, Kind: RefSequence},
			{Name: "user_id", Target: EntityUser, Kind: RefScalar},
		},
	},
	EntitySubject: {
		Type:       EntitySubject,
		UniqueKeys: []string{"subID"},
	},
	EntityYearSem: {
		Type: EntityYearSem,
	},
	EntityStudent: {
		Type:       EntityStudent,
		UniqueKeys: []string{"rollNo"},
		Refs: []RefField{
			{Name: "subjectIds", Target: EntitySubject, Kind: RefSequence},
			{Name: "yearSemIds", Target: EntityYearSem, Kind: RefSequence},
			{Name: "user_id", Target: EntityUser, Kind: RefScalar},
		},
	},
}

// Schema returns the schema for an entity type; ok is false for unknown types.
func Schema(t EntityType) (EntitySchema, bool) {
	s, ok := Registry[t]
	return s, ok
}

// Referrer is one (entity type, field) pair that can reference a target type.
type Referrer struct {
	Type  EntityType
	Field RefField
}

// ReferrersOf returns every entity field able to reference the target type.
// Iteration is ordered by collection name so integrity scans are
// deterministic.
func ReferrersOf(target EntityType) []Referrer {
	var out []Referrer
	for _, t := range orderedTypes {
		schema := Registry[t]
		for _, ref := range schema.Refs {
			if ref.Target == target {
				out = append(out, Referrer{Type: t, Field: ref})
			}
		}
	}
	return out
}

// RefByName looks up a reference field on an entity schema by field name.
func (s EntitySchema) RefByName(name string) (RefField, bool) {
	for _, ref := range s.Refs {
		if ref.Name == name {
			return ref, true
		}
	}
	return RefField{}, false
}

var orderedTypes = []EntityType{
	EntityRole,
	EntityUser,
	EntityAdmin,
	EntityTeacher,
	EntitySubject,
	EntityYearSem,
	EntityStudent,
}

// AllTypes lists every registered entity type in a stable order.
func AllTypes() []EntityType {
	return orderedTypes
}
