package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajayk/studisdb/internal/app/models"
	"github.com/ajayk/studisdb/internal/app/projection"
	"github.com/ajayk/studisdb/internal/app/store"
	"github.com/ajayk/studisdb/internal/pkg/apperrors"
)

func newTestServices(t *testing.T, opts Options) (*Services, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	return NewServices(st, nil, zerolog.Nop(), opts), st
}

func createSubject(t *testing.T, svcs *Services, subID string) store.Record {
	t.Helper()
	rec, err := svcs.Subjects.Create(context.Background(), store.Record{"subID": subID, "name": subID})
	require.NoError(t, err)
	return rec
}

func TestStudentCreateAppliesDefaults(t *testing.T) {
	svcs, _ := newTestServices(t, Options{})
	ctx := context.Background()

	rec, err := svcs.Students.Create(ctx, store.Record{"rollNo": 1, "name": "Ann", "branch": "CSE"})
	require.NoError(t, err)

	bio, ok := rec["studentBioDetails"].(map[string]interface{})
	require.True(t, ok, "missing bio gets the default sub-document")
	assert.NotEmpty(t, bio)
	curriculum, ok := rec["curriculumPrimary"].(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, curriculum)
	assert.NotEmpty(t, rec["createdAt"])
	assert.Equal(t, rec["createdAt"], rec["updatedAt"])
}

func TestStudentProfileImageField(t *testing.T) {
	svcs, _ := newTestServices(t, Options{})
	ctx := context.Background()

	_, err := svcs.Students.Create(ctx, store.Record{"rollNo": 1, "name": "Ann"})
	require.NoError(t, err)

	rec, err := svcs.Students.SetProfileImage(ctx, 1, "uploads/students/pic.png")
	require.NoError(t, err)
	assert.Equal(t, "uploads/students/pic.png", rec["imageUrl"])

	url, err := svcs.Students.ClearProfileImage(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "uploads/students/pic.png", url, "clearing hands back the stored URL")

	got, err := svcs.Students.GetByRollNo(ctx, 1)
	require.NoError(t, err)
	val, present := got["imageUrl"]
	assert.True(t, present)
	assert.Nil(t, val)

	// Clearing an already-clear image is not an error.
	url, err = svcs.Students.ClearProfileImage(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, url)

	_, err = svcs.Students.ClearProfileImage(ctx, 99)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStudentCreateKeepsProvidedSubDocuments(t *testing.T) {
	svcs, _ := newTestServices(t, Options{})
	ctx := context.Background()

	bio := map[string]interface{}{"nationality": "IN"}
	rec, err := svcs.Students.Create(ctx, store.Record{
		"rollNo": 2, "name": "Bea", "studentBioDetails": bio,
	})
	require.NoError(t, err)
	got, ok := rec["studentBioDetails"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "IN", got["nationality"], "caller-provided bio wins over the default")
}

func TestStudentRollNoCollision(t *testing.T) {
	svcs, _ := newTestServices(t, Options{})
	ctx := context.Background()

	_, err := svcs.Students.Create(ctx, store.Record{"rollNo": 1, "name": "Ann"})
	require.NoError(t, err)
	_, err = svcs.Students.Create(ctx, store.Record{"rollNo": 1, "name": "Bea"})
	require.ErrorIs(t, err, apperrors.ErrDuplicateKey)
}

func TestStudentUpdateByRollNo(t *testing.T) {
	svcs, _ := newTestServices(t, Options{})
	ctx := context.Background()

	created, err := svcs.Students.Create(ctx, store.Record{"rollNo": 1, "name": "Ann", "branch": "CSE"})
	require.NoError(t, err)

	updated, err := svcs.Students.UpdateByRollNo(ctx, 1, store.Record{"branch": "ECE"})
	require.NoError(t, err)
	assert.Equal(t, "ECE", updated["branch"])
	assert.Equal(t, "Ann", updated["name"])
	assert.Equal(t, created["createdAt"], updated["createdAt"], "createdAt survives updates")

	_, err = svcs.Students.UpdateByRollNo(ctx, 99, store.Record{"branch": "X"})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStudentAddSubject(t *testing.T) {
	svcs, _ := newTestServices(t, Options{})
	ctx := context.Background()

	s1 := createSubject(t, svcs, "CS101")
	s2 := createSubject(t, svcs, "CS102")

	_, err := svcs.Students.Create(ctx, store.Record{
		"rollNo": 1, "name": "Ann", "subjectIds": []string{store.ID(s1)},
	})
	require.NoError(t, err)

	require.NoError(t, svcs.Students.AddSubject(ctx, 1, store.ID(s2)))
	// Duplicates are allowed.
	require.NoError(t, svcs.Students.AddSubject(ctx, 1, store.ID(s2)))

	rec, err := svcs.Students.GetByRollNo(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{store.ID(s1), store.ID(s2), store.ID(s2)}, store.StringIDs(rec["subjectIds"]))
}

func TestStudentAddSubjectStrictMode(t *testing.T) {
	svcs, _ := newTestServices(t, Options{StrictReferences: true})
	ctx := context.Background()

	_, err := svcs.Students.Create(ctx, store.Record{"rollNo": 1, "name": "Ann"})
	require.NoError(t, err)

	err = svcs.Students.AddSubject(ctx, 1, "no-such-subject")
	require.ErrorIs(t, err, apperrors.ErrDanglingReference)
}

func TestStudentStrictCreateRejectsDanglingRefs(t *testing.T) {
	svcs, _ := newTestServices(t, Options{StrictReferences: true})
	ctx := context.Background()

	_, err := svcs.Students.Create(ctx, store.Record{
		"rollNo": 1, "name": "Ann", "subjectIds": []string{"missing"},
	})
	require.ErrorIs(t, err, apperrors.ErrDanglingReference)

	// The historical lax mode accepts any id.
	lax, _ := newTestServices(t, Options{})
	_, err = lax.Students.Create(ctx, store.Record{
		"rollNo": 1, "name": "Ann", "subjectIds": []string{"missing"},
	})
	require.NoError(t, err)
}

func TestStudentSearch(t *testing.T) {
	svcs, _ := newTestServices(t, Options{})
	ctx := context.Background()

	_, err := svcs.Students.Create(ctx, store.Record{"rollNo": 1, "name": "Ann Smith", "percentage": 91.5})
	require.NoError(t, err)
	_, err = svcs.Students.Create(ctx, store.Record{"rollNo": 2, "name": "Bea Jones", "percentage": 77})
	require.NoError(t, err)

	tests := []struct {
		name        string
		field, term string
		wantRolls   []int
		wantErr     error
	}{
		{"by rollNo", "rollNo", "2", []int{2}, nil},
		{"by percentage", "percentage", "91.5", []int{1}, nil},
		{"by name substring case-insensitive", "name", "smith", []int{1}, nil},
		{"name matches nothing", "name", "zzz", nil, nil},
		{"non-numeric term for rollNo", "rollNo", "abc", nil, apperrors.ErrValidationFailed},
		{"unknown field", "email", "x", nil, apperrors.ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := svcs.Students.Search(ctx, tt.field, tt.term)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			var got []int
			for _, rec := range recs {
				got = append(got, int(rec["rollNo"].(float64)))
			}
			assert.Equal(t, tt.wantRolls, got)
		})
	}
}

func TestStudentDeleteByRollNo(t *testing.T) {
	svcs, _ := newTestServices(t, Options{})
	ctx := context.Background()

	_, err := svcs.Students.Create(ctx, store.Record{"rollNo": 1, "name": "Ann"})
	require.NoError(t, err)

	require.NoError(t, svcs.Students.DeleteByRollNo(ctx, 1))
	err = svcs.Students.DeleteByRollNo(ctx, 1)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEntityDeleteWithPolicyOverride(t *testing.T) {
	// Default policy restrict; a per-call cascade-null override wins.
	svcs, st := newTestServices(t, Options{})
	ctx := context.Background()

	subject := createSubject(t, svcs, "CS101")
	student, err := svcs.Students.Create(ctx, store.Record{
		"rollNo": 1, "name": "Ann", "subjectIds": []string{store.ID(subject)},
	})
	require.NoError(t, err)

	err = svcs.Subjects.Delete(ctx, store.ID(subject))
	require.ErrorIs(t, err, apperrors.ErrReferentialConflict)

	require.NoError(t, svcs.Subjects.DeleteWithPolicy(ctx, store.ID(subject), projection.PolicyCascadeNull))

	rec, err := st.Get(ctx, models.EntityStudent, store.ID(student))
	require.NoError(t, err)
	assert.Empty(t, store.StringIDs(rec["subjectIds"]))
}

func TestStudentGetByRollNoProjectsSubjects(t *testing.T) {
	svcs, _ := newTestServices(t, Options{})
	ctx := context.Background()

	subject := createSubject(t, svcs, "CS101")
	_, err := svcs.Students.Create(ctx, store.Record{
		"rollNo": 1, "name": "Ann", "subjectIds": []string{store.ID(subject)},
	})
	require.NoError(t, err)

	rec, err := svcs.Students.ProjectByRollNo(ctx, 1)
	require.NoError(t, err)
	resolved, ok := rec["subjectIds"].([]interface{})
	require.True(t, ok)
	require.Len(t, resolved, 1)
	assert.Equal(t, "CS101", resolved[0].(map[string]interface{})["subID"])
}
