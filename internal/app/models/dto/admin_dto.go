package dto

import "github.com/ajayk/studisdb/internal/app/store"

// CreateAdminRequest is the payload for creating an admin.
type CreateAdminRequest struct {
	AdminID   *int   `json:"admin_id" binding:"required"`
	AdminName string `json:"adminName" binding:"required"`
	UserID    string `json:"userId"`
}

// ToRecord converts the request into a storable record.
func (r CreateAdminRequest) ToRecord() store.Record {
	rec := store.Record{
		"admin_id":  *r.AdminID,
		"adminName": r.AdminName,
	}
	if r.UserID != "" {
		rec["user_id"] = r.UserID
	}
	return rec
}

// UpdateAdminRequest is the partial-update payload for an admin.
type UpdateAdminRequest struct {
	AdminID   *int    `json:"admin_id"`
	AdminName *string `json:"adminName"`
	UserID    *string `json:"userId"`
}

// ToRecord converts the provided fields into an update patch.
func (r UpdateAdminRequest) ToRecord() store.Record {
	patch := store.Record{}
	if r.AdminID != nil {
		patch["admin_id"] = *r.AdminID
	}
	if r.AdminName != nil {
		patch["adminName"] = *r.AdminName
	}
	if r.UserID != nil {
		patch["user_id"] = *r.UserID
	}
	return patch
}
