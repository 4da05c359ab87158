package dto

import (
	"github.com/ajayk/studisdb/internal/app/models"
	"github.com/ajayk/studisdb/internal/app/store"
)

// CreateYearSemRequest is the payload for creating a year-semester term.
type CreateYearSemRequest struct {
	Year   *int   `json:"year" binding:"required" example:"2024"`
	Sem    string `json:"sem" binding:"required" example:"Fall"`
	Status string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// ToRecord converts the request into a storable record, defaulting the
// status to active.
func (r CreateYearSemRequest) ToRecord() store.Record {
	status := r.Status
	if status == "" {
		status = models.YearSemActive
	}
	return store.Record{
		"year":   *r.Year,
		"sem":    r.Sem,
		"status": status,
	}
}

// UpdateYearSemRequest is the partial-update payload for a term.
type UpdateYearSemRequest struct {
	Year   *int    `json:"year"`
	Sem    *string `json:"sem"`
	Status *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// ToRecord converts the provided fields into an update patch.
func (r UpdateYearSemRequest) ToRecord() store.Record {
	patch := store.Record{}
	if r.Year != nil {
		patch["year"] = *r.Year
	}
	if r.Sem != nil {
		patch["sem"] = *r.Sem
	}
	if r.Status != nil {
		patch["status"] = *r.Status
	}
	return patch
}
