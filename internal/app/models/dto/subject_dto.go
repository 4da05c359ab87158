package dto

import "github.com/ajayk/studisdb/internal/app/store"

// CreateSubjectRequest is the payload for creating a subject.
type CreateSubjectRequest struct {
	SubID       string   `json:"subID" binding:"required" example:"CS101"`
	Name        string   `json:"name" binding:"required" example:"Intro"`
	Description string   `json:"description"`
	Topics      []string `json:"topics"`
}

// ToRecord converts the request into a storable record.
func (r CreateSubjectRequest) ToRecord() store.Record {
	rec := store.Record{
		"subID": r.SubID,
		"name":  r.Name,
	}
	if r.Description != "" {
		rec["description"] = r.Description
	}
	if r.Topics != nil {
		rec["topics"] = r.Topics
	}
	return rec
}

// UpdateSubjectRequest is the partial-update payload for a subject.
type UpdateSubjectRequest struct {
	SubID       *string  `json:"subID"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Topics      []string `json:"topics"`
}

// ToRecord converts the provided fields into an update patch.
func (r UpdateSubjectRequest) ToRecord() store.Record {
	patch := store.Record{}
	if r.SubID != nil {
		patch["subID"] = *r.SubID
	}
	if r.Name != nil {
		patch["name"] = *r.Name
	}
	if r.Description != nil {
		patch["description"] = *r.Description
	}
	if r.Topics != nil {
		patch["topics"] = r.Topics
	}
	return patch
}
