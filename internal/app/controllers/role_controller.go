package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ajayk/studisdb/internal/app/models/dto"
	"github.com/ajayk/studisdb/internal/app/services"
	"github.com/ajayk/studisdb/internal/middleware"
	"github.com/ajayk/studisdb/internal/pkg/apperrors"
)

// RoleController handles role CRUD. Roles are addressed by their numeric
// role_id rather than the document id.
type RoleController struct {
	roleService *services.EntityService
}

// NewRoleController creates a new RoleController.
func NewRoleController(roleService *services.EntityService) *RoleController {
	return &RoleController{roleService: roleService}
}

// CreateRole handles role creation
// @Summary Create a new role
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRoleRequest true "Role information"
// @Success 201 {object} dto.APIResponse "Role created"
// @Failure 409 {object} dto.ErrorResponse "role_id already exists"
// @Router /roles [post]
func (c *RoleController) CreateRole(ctx *gin.Context) {
	var req dto.CreateRoleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	rec, err := c.roleService.Create(ctx, req.ToRecord())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(rec))
}

// GetAllRoles lists roles
// @Summary List roles
// @Tags roles
// @Produce json
// @Success 200 {object} dto.APIResponse "Roles"
// @Router /roles [get]
func (c *RoleController) GetAllRoles(ctx *gin.Context) {
	recs, err := c.roleService.List(ctx, nil)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(recs))
}

// GetRoleByRoleID retrieves one role
// @Summary Get role by role_id
// @Tags roles
// @Produce json
// @Param roleId path int true "Role number"
// @Success 200 {object} dto.APIResponse "Role"
// @Failure 404 {object} dto.ErrorResponse "Role not found"
// @Router /roles/{roleId} [get]
func (c *RoleController) GetRoleByRoleID(ctx *gin.Context) {
	roleID, ok := c.roleIDParam(ctx)
	if !ok {
		return
	}

	rec, err := c.roleService.GetByKey(ctx, "role_id", roleID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(rec))
}

// UpdateRole partially updates a role
// @Summary Update role
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param roleId path int true "Role number"
// @Param request body dto.UpdateRoleRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse "Updated role"
// @Failure 404 {object} dto.ErrorResponse "Role not found"
// @Router /roles/{roleId} [put]
func (c *RoleController) UpdateRole(ctx *gin.Context) {
	roleID, ok := c.roleIDParam(ctx)
	if !ok {
		return
	}
	var req dto.UpdateRoleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	rec, err := c.roleService.GetByKey(ctx, "role_id", roleID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	updated, err := c.roleService.Update(ctx, recordID(rec), req.ToRecord())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(updated))
}

// DeleteRole deletes a role
// @Summary Delete role
// @Description Deletes a role under the configured referential policy; restrict rejects the delete while users still hold it
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param roleId path int true "Role number"
// @Param policy query string false "restrict | cascade-null"
// @Success 204 "Role deleted"
// @Failure 404 {object} dto.ErrorResponse "Role not found"
// @Failure 409 {object} dto.ErrorResponse "Blocked by referencing users"
// @Router /roles/{roleId} [delete]
func (c *RoleController) DeleteRole(ctx *gin.Context) {
	roleID, ok := c.roleIDParam(ctx)
	if !ok {
		return
	}

	rec, err := c.roleService.GetByKey(ctx, "role_id", roleID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleteEntity(ctx, c.roleService, recordID(rec))
}

func (c *RoleController) roleIDParam(ctx *gin.Context) (int, bool) {
	roleID, err := strconv.Atoi(ctx.Param("roleId"))
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("roleId must be an integer"))
		return 0, false
	}
	return roleID, true
}
