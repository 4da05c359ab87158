package dto

import "github.com/ajayk/studisdb/internal/app/store"

// CreateStudentRequest is the payload for creating a student.
type CreateStudentRequest struct {
	RollNo     *int     `json:"rollNo" binding:"required" example:"7"`
	Name       string   `json:"name" binding:"required" example:"Ann"`
	Percentage *float64 `json:"percentage"`
	Branch     string   `json:"branch"`
	SubjectIDs []string `json:"subjectIds"`
	YearSemIDs []string `json:"yearSemIds"`
	UserID     string   `json:"userId"`

	// Optional sub-documents; missing fields get defaults at construction.
	StudentBioDetails map[string]interface{} `json:"studentBioDetails"`
	CurriculumPrimary map[string]interface{} `json:"curriculumPrimary"`
}

// ToRecord converts the request into a storable record. Sub-document
// defaults are applied by the student service, not here.
func (r CreateStudentRequest) ToRecord() store.Record {
	rec := store.Record{
		"rollNo": *r.RollNo,
		"name":   r.Name,
	}
	if r.Percentage != nil {
		rec["percentage"] = *r.Percentage
	}
	if r.Branch != "" {
		rec["branch"] = r.Branch
	}
	if r.SubjectIDs != nil {
		rec["subjectIds"] = r.SubjectIDs
	}
	if r.YearSemIDs != nil {
		rec["yearSemIds"] = r.YearSemIDs
	}
	if r.UserID != "" {
		rec["user_id"] = r.UserID
	}
	if r.StudentBioDetails != nil {
		rec["studentBioDetails"] = r.StudentBioDetails
	}
	if r.CurriculumPrimary != nil {
		rec["curriculumPrimary"] = r.CurriculumPrimary
	}
	return rec
}

// UpdateStudentRequest is the partial-update payload for a student.
type UpdateStudentRequest struct {
	Name       *string  `json:"name"`
	Percentage *float64 `json:"percentage"`
	Branch     *string  `json:"branch"`
	SubjectIDs []string `json:"subjectIds"`
	YearSemIDs []string `json:"yearSemIds"`
	UserID     *string  `json:"userId"`

	StudentBioDetails map[string]interface{} `json:"studentBioDetails"`
	CurriculumPrimary map[string]interface{} `json:"curriculumPrimary"`
}

// ToRecord converts the provided fields into an update patch.
func (r UpdateStudentRequest) ToRecord() store.Record {
	patch := store.Record{}
	if r.Name != nil {
		patch["name"] = *r.Name
	}
	if r.Percentage != nil {
		patch["percentage"] = *r.Percentage
	}
	if r.Branch != nil {
		patch["branch"] = *r.Branch
	}
	if r.SubjectIDs != nil {
		patch["subjectIds"] = r.SubjectIDs
	}
	if r.YearSemIDs != nil {
		patch["yearSemIds"] = r.YearSemIDs
	}
	if r.UserID != nil {
		patch["user_id"] = *r.UserID
	}
	if r.StudentBioDetails != nil {
		patch["studentBioDetails"] = r.StudentBioDetails
	}
	if r.CurriculumPrimary != nil {
		patch["curriculumPrimary"] = r.CurriculumPrimary
	}
	return patch
}

// AddStudentSubjectRequest appends one subject reference to a student.
type AddStudentSubjectRequest struct {
	SubjectID string `json:"subjectId" binding:"required"`
}
