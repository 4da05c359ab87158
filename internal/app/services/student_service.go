package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/ajayk/studisdb/internal/app/models"
	"github.com/ajayk/studisdb/internal/app/projection"
	"github.com/ajayk/studisdb/internal/app/store"
	"github.com/ajayk/studisdb/internal/pkg/apperrors"
)

// Students are addressed by rollNo on the HTTP surface, so this service
// layers rollNo lookups, subject enrollment, search, and the bio/curriculum
// defaults on top of the shared entity CRUD.
type StudentService struct {
	*EntityService
}

// NewStudentService creates the student service.
func NewStudentService(entity *EntityService) *StudentService {
	return &StudentService{EntityService: entity}
}

// Create inserts a student, applying the default bio and curriculum
// sub-documents when the caller did not provide them, and stamping
// creation time.
func (s *StudentService) Create(ctx context.Context, fields store.Record) (store.Record, error) {
	rec := store.Copy(fields)
	if _, ok := rec["studentBioDetails"]; !ok {
		rec["studentBioDetails"] = models.DefaultStudentBioDetails()
	}
	if _, ok := rec["curriculumPrimary"]; !ok {
		rec["curriculumPrimary"] = models.DefaultCurriculumPrimary()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	rec["createdAt"] = now
	rec["updatedAt"] = now
	return s.EntityService.Create(ctx, rec)
}

// GetByRollNo returns the raw student record for a roll number.
func (s *StudentService) GetByRollNo(ctx context.Context, rollNo int) (store.Record, error) {
	return s.GetByKey(ctx, "rollNo", rollNo)
}

// ProjectByRollNo returns the student with references resolved.
func (s *StudentService) ProjectByRollNo(ctx context.Context, rollNo int) (store.Record, error) {
	rec, err := s.GetByRollNo(ctx, rollNo)
	if err != nil {
		return nil, err
	}
	return s.projector.ProjectOne(ctx, models.EntityStudent, store.ID(rec), s.spec)
}

// UpdateByRollNo merges a patch into the student addressed by rollNo.
func (s *StudentService) UpdateByRollNo(ctx context.Context, rollNo int, patch store.Record) (store.Record, error) {
	rec, err := s.GetByRollNo(ctx, rollNo)
	if err != nil {
		return nil, err
	}
	stamped := store.Copy(patch)
	stamped["updatedAt"] = time.Now().UTC().Format(time.RFC3339)
	return s.Update(ctx, store.ID(rec), stamped)
}

// DeleteByRollNo removes the student addressed by rollNo under the
// service's delete policy.
func (s *StudentService) DeleteByRollNo(ctx context.Context, rollNo int) error {
	rec, err := s.GetByRollNo(ctx, rollNo)
	if err != nil {
		return err
	}
	return s.Delete(ctx, store.ID(rec))
}

// AddSubject appends a subject reference to a student's subjectIds,
// keeping insertion order. Duplicates are allowed; the list has no set
// semantics.
func (s *StudentService) AddSubject(ctx context.Context, rollNo int, subjectID string) error {
	if s.strictRefs {
		if err := s.projector.CheckRefs(ctx, models.EntityStudent, store.Record{"subjectIds": []interface{}{subjectID}}); err != nil {
			return err
		}
	}

	rec, err := s.GetByRollNo(ctx, rollNo)
	if err != nil {
		return err
	}
	ids := store.StringIDs(rec["subjectIds"])
	ids = append(ids, subjectID)
	_, err = s.store.Update(ctx, models.EntityStudent, store.ID(rec), store.Record{
		"subjectIds": ids,
		"updatedAt":  time.Now().UTC().Format(time.RFC3339),
	})
	return err
}

// SetProfileImage records the uploaded profile image URL on the student.
func (s *StudentService) SetProfileImage(ctx context.Context, rollNo int, imageURL string) (store.Record, error) {
	rec, err := s.GetByRollNo(ctx, rollNo)
	if err != nil {
		return nil, err
	}
	return s.store.Update(ctx, models.EntityStudent, store.ID(rec), store.Record{
		"imageUrl":  imageURL,
		"updatedAt": time.Now().UTC().Format(time.RFC3339),
	})
}

// ClearProfileImage nulls the student's image URL and returns the URL that
// was stored so the caller can remove the file itself.
func (s *StudentService) ClearProfileImage(ctx context.Context, rollNo int) (string, error) {
	rec, err := s.GetByRollNo(ctx, rollNo)
	if err != nil {
		return "", err
	}
	imageURL, _ := rec["imageUrl"].(string)
	_, err = s.store.Update(ctx, models.EntityStudent, store.ID(rec), store.Record{
		"imageUrl":  nil,
		"updatedAt": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}
	return imageURL, nil
}

// SubjectsOnly is the projection spec of the /students-subjects listing:
// subjectIds resolved, everything else raw.
func SubjectsOnly() *projection.Spec {
	return projection.NewSpec("subjectIds")
}

// Search finds students by rollNo, name, or percentage. Name search is a
// case-insensitive substring match; the other fields match exactly.
func (s *StudentService) Search(ctx context.Context, searchField, searchTerm string) ([]store.Record, error) {
	switch searchField {
	case "rollNo", "percentage":
		n, err := strconv.ParseFloat(searchTerm, 64)
		if err != nil {
			return nil, apperrors.NewValidationError("search term must be a number for field " + searchField)
		}
		return s.store.Find(ctx, models.EntityStudent, store.Filter{searchField: n})
	case "name":
		recs, err := s.store.Find(ctx, models.EntityStudent, nil)
		if err != nil {
			return nil, err
		}
		term := strings.ToLower(searchTerm)
		var out []store.Record
		for _, rec := range recs {
			if name, ok := rec["name"].(string); ok && strings.Contains(strings.ToLower(name), term) {
				out = append(out, rec)
			}
		}
		return out, nil
	default:
		return nil, apperrors.NewValidationError("invalid search field")
	}
}
