package projection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajayk/studisdb/internal/app/models"
	"github.com/ajayk/studisdb/internal/app/store"
	"github.com/ajayk/studisdb/internal/pkg/apperrors"
)

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"restrict", PolicyRestrict, false},
		{"cascade-null", PolicyCascadeNull, false},
		{"cascade", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestDeleteRestrictNamesReferrers(t *testing.T) {
	st := store.NewMemoryStore()
	p := NewProjector(st)
	ctx := context.Background()

	subject := seedSubject(t, st, "CS101", "Databases")
	student, err := st.Insert(ctx, models.EntityStudent, store.Record{
		"rollNo": 1, "name": "Ann", "subjectIds": []string{store.ID(subject)},
	})
	require.NoError(t, err)

	err = p.DeleteWithIntegrity(ctx, models.EntitySubject, store.ID(subject), PolicyRestrict)
	require.ErrorIs(t, err, apperrors.ErrReferentialConflict)

	referrers := apperrors.ReferrersFrom(err)
	require.Len(t, referrers, 1)
	assert.Equal(t, string(models.EntityStudent), referrers[0].EntityType)
	assert.Equal(t, store.ID(student), referrers[0].ID)
	assert.Equal(t, "subjectIds", referrers[0].Field)

	// The target survives a rejected delete.
	_, err = st.Get(ctx, models.EntitySubject, store.ID(subject))
	require.NoError(t, err)
}

func TestDeleteDanglingTargetNotFound(t *testing.T) {
	st := store.NewMemoryStore()
	p := NewProjector(st)
	ctx := context.Background()

	// A lax-mode write can enroll a student in a subject id that was never
	// created. Deleting that id is a plain not-found, not a conflict.
	_, err := st.Insert(ctx, models.EntityStudent, store.Record{
		"rollNo": 1, "name": "Ann", "subjectIds": []string{"ghost-id"},
	})
	require.NoError(t, err)

	err = p.DeleteWithIntegrity(ctx, models.EntitySubject, "ghost-id", PolicyRestrict)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NotErrorIs(t, err, apperrors.ErrReferentialConflict)

	err = p.DeleteWithIntegrity(ctx, models.EntitySubject, "ghost-id", PolicyCascadeNull)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	// The dangling enrollment is untouched.
	recs, err := st.Find(ctx, models.EntityStudent, nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, []interface{}{"ghost-id"}, recs[0]["subjectIds"])
}

func TestDeleteRestrictUnreferenced(t *testing.T) {
	st := store.NewMemoryStore()
	p := NewProjector(st)
	ctx := context.Background()

	subject := seedSubject(t, st, "CS101", "Databases")
	require.NoError(t, p.DeleteWithIntegrity(ctx, models.EntitySubject, store.ID(subject), PolicyRestrict))

	err := p.DeleteWithIntegrity(ctx, models.EntitySubject, store.ID(subject), PolicyRestrict)
	require.ErrorIs(t, err, apperrors.ErrNotFound, "second delete of the same id reports not-found")
}

func TestDeleteCascadeNullSequence(t *testing.T) {
	st := store.NewMemoryStore()
	p := NewProjector(st)
	ctx := context.Background()

	keep := seedSubject(t, st, "CS102", "Networks")
	doomed := seedSubject(t, st, "CS101", "Databases")
	student, err := st.Insert(ctx, models.EntityStudent, store.Record{
		"rollNo": 1, "name": "Ann",
		"subjectIds": []string{store.ID(keep), store.ID(doomed), store.ID(keep)},
	})
	require.NoError(t, err)
	teacher, err := st.Insert(ctx, models.EntityTeacher, store.Record{
		"teacherID": "T1", "teacherName": "Prof", "subjectIds": []string{store.ID(doomed)},
	})
	require.NoError(t, err)

	require.NoError(t, p.DeleteWithIntegrity(ctx, models.EntitySubject, store.ID(doomed), PolicyCascadeNull))

	got, err := st.Get(ctx, models.EntityStudent, store.ID(student))
	require.NoError(t, err)
	assert.Equal(t, []interface{}{store.ID(keep), store.ID(keep)}, got["subjectIds"],
		"every occurrence dropped, remaining order kept")

	gotTeacher, err := st.Get(ctx, models.EntityTeacher, store.ID(teacher))
	require.NoError(t, err)
	assert.Equal(t, []interface{}{}, gotTeacher["subjectIds"], "emptied list stays a list")
}

func TestDeleteCascadeNullScalar(t *testing.T) {
	st := store.NewMemoryStore()
	p := NewProjector(st)
	ctx := context.Background()

	user, err := st.Insert(ctx, models.EntityUser, store.Record{"email": "ann@example.edu"})
	require.NoError(t, err)
	student, err := st.Insert(ctx, models.EntityStudent, store.Record{
		"rollNo": 1, "name": "Ann", "user_id": store.ID(user),
	})
	require.NoError(t, err)

	require.NoError(t, p.DeleteWithIntegrity(ctx, models.EntityUser, store.ID(user), PolicyCascadeNull))

	got, err := st.Get(ctx, models.EntityStudent, store.ID(student))
	require.NoError(t, err)
	val, present := got["user_id"]
	assert.True(t, present)
	assert.Nil(t, val, "scalar reference nulled, field kept")
}

// updateFailStore fails every Update on one entity type; everything else
// passes through to the wrapped store.
type updateFailStore struct {
	store.Store
	failType models.EntityType
	err      error
}

func (s *updateFailStore) Update(ctx context.Context, t models.EntityType, id string, partial store.Record) (store.Record, error) {
	if t == s.failType {
		return nil, s.err
	}
	return s.Store.Update(ctx, t, id, partial)
}

func TestDeleteCascadeNullReportsFailedCleanup(t *testing.T) {
	mem := store.NewMemoryStore()
	ctx := context.Background()

	subject := seedSubject(t, mem, "CS101", "Databases")
	studentA, err := mem.Insert(ctx, models.EntityStudent, store.Record{
		"rollNo": 1, "name": "Ann", "subjectIds": []string{store.ID(subject)},
	})
	require.NoError(t, err)
	studentB, err := mem.Insert(ctx, models.EntityStudent, store.Record{
		"rollNo": 2, "name": "Ben", "subjectIds": []string{store.ID(subject)},
	})
	require.NoError(t, err)

	failing := &updateFailStore{
		Store:    mem,
		failType: models.EntityStudent,
		err:      apperrors.ErrStorageUnavailable,
	}
	p := NewProjector(failing)

	err = p.DeleteWithIntegrity(ctx, models.EntitySubject, store.ID(subject), PolicyCascadeNull)
	require.ErrorIs(t, err, apperrors.ErrCascadeIncomplete)

	// Degraded success: the delete itself committed.
	_, getErr := mem.Get(ctx, models.EntitySubject, store.ID(subject))
	require.ErrorIs(t, getErr, apperrors.ErrNotFound)

	// Every referrer whose cleanup failed is named.
	failed := apperrors.ReferrersFrom(err)
	require.Len(t, failed, 2)
	ids := []string{failed[0].ID, failed[1].ID}
	assert.ElementsMatch(t, []string{store.ID(studentA), store.ID(studentB)}, ids)

	// The references are left dangling, which reads tolerate.
	got, getErr := mem.Get(ctx, models.EntityStudent, store.ID(studentA))
	require.NoError(t, getErr)
	assert.Equal(t, []interface{}{store.ID(subject)}, got["subjectIds"])
}

func TestCheckRefs(t *testing.T) {
	st := store.NewMemoryStore()
	p := NewProjector(st)
	ctx := context.Background()

	subject := seedSubject(t, st, "CS101", "Databases")

	tests := []struct {
		name    string
		rec     store.Record
		wantErr error
	}{
		{"valid sequence", store.Record{"subjectIds": []interface{}{store.ID(subject)}}, nil},
		{"dangling sequence", store.Record{"subjectIds": []interface{}{store.ID(subject), "missing"}}, apperrors.ErrDanglingReference},
		{"dangling scalar", store.Record{"user_id": "missing"}, apperrors.ErrDanglingReference},
		{"absent fields pass", store.Record{"name": "Ann"}, nil},
		{"nil reference passes", store.Record{"user_id": nil}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.CheckRefs(ctx, models.EntityStudent, tt.rec)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
