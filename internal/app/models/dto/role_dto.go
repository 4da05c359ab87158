package dto

import "github.com/ajayk/studisdb/internal/app/store"

// CreateRoleRequest is the payload for creating a role.
type CreateRoleRequest struct {
	RoleID   *int   `json:"role_id" binding:"required"`
	RoleName string `json:"roleName" binding:"required"`
}

// ToRecord converts the request into a storable record.
func (r CreateRoleRequest) ToRecord() store.Record {
	return store.Record{
		"role_id":  *r.RoleID,
		"roleName": r.RoleName,
	}
}

// UpdateRoleRequest is the partial-update payload for a role. Nil fields
// keep their stored value.
type UpdateRoleRequest struct {
	RoleID   *int    `json:"role_id"`
	RoleName *string `json:"roleName"`
}

// ToRecord converts the provided fields into an update patch.
func (r UpdateRoleRequest) ToRecord() store.Record {
	patch := store.Record{}
	if r.RoleID != nil {
		patch["role_id"] = *r.RoleID
	}
	if r.RoleName != nil {
		patch["roleName"] = *r.RoleName
	}
	return patch
}
