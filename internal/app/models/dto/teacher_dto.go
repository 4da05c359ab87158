package dto

import "github.com/ajayk/studisdb/internal/app/store"

// CreateTeacherRequest is the payload for creating a teacher.
type CreateTeacherRequest struct {
	TeacherID   string   `json:"teacherID" binding:"required"`
	TeacherName string   `json:"teacherName" binding:"required"`
	SubjectIDs  []string `json:"subjectIds"`
	UserID      string   `json:"userId"`
}

// ToRecord converts the request into a storable record.
func (r CreateTeacherRequest) ToRecord() store.Record {
	rec := store.Record{
		"teacherID":   r.TeacherID,
		"teacherName": r.TeacherName,
	}
	if r.SubjectIDs != nil {
		rec["subjectIds"] = r.SubjectIDs
	}
	if r.UserID != "" {
		rec["user_id"] = r.UserID
	}
	return rec
}

// UpdateTeacherRequest is the partial-update payload for a teacher.
type UpdateTeacherRequest struct {
	TeacherID   *string  `json:"teacherID"`
	TeacherName *string  `json:"teacherName"`
	SubjectIDs  []string `json:"subjectIds"`
	UserID      *string  `json:"userId"`
}

// ToRecord converts the provided fields into an update patch.
func (r UpdateTeacherRequest) ToRecord() store.Record {
	patch := store.Record{}
	if r.TeacherID != nil {
		patch["teacherID"] = *r.TeacherID
	}
	if r.TeacherName != nil {
		patch["teacherName"] = *r.TeacherName
	}
	if r.SubjectIDs != nil {
		patch["subjectIds"] = r.SubjectIDs
	}
	if r.UserID != nil {
		patch["user_id"] = *r.UserID
	}
	return patch
}
