package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ajayk/studisdb/internal/app/models/dto"
	"github.com/ajayk/studisdb/internal/app/services"
	"github.com/ajayk/studisdb/internal/middleware"
)

// AdminController handles admin CRUD.
type AdminController struct {
	adminService *services.EntityService
}

// NewAdminController creates a new AdminController.
func NewAdminController(adminService *services.EntityService) *AdminController {
	return &AdminController{adminService: adminService}
}

// CreateAdmin handles admin creation
// @Summary Create a new admin
// @Tags admins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAdminRequest true "Admin information"
// @Success 201 {object} dto.APIResponse "Admin created"
// @Failure 409 {object} dto.ErrorResponse "admin_id already exists"
// @Failure 422 {object} dto.ErrorResponse "Referenced user does not exist"
// @Router /admins [post]
func (c *AdminController) CreateAdmin(ctx *gin.Context) {
	var req dto.CreateAdminRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	rec, err := c.adminService.Create(ctx, req.ToRecord())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(rec))
}

// GetAllAdmins lists admins
// @Summary List admins
// @Tags admins
// @Produce json
// @Success 200 {object} dto.APIResponse "Admins"
// @Router /admins [get]
func (c *AdminController) GetAllAdmins(ctx *gin.Context) {
	recs, err := c.adminService.List(ctx, nil)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(recs))
}

// GetAdminByID retrieves one admin
// @Summary Get admin by id
// @Tags admins
// @Produce json
// @Param id path string true "Admin id"
// @Success 200 {object} dto.APIResponse "Admin"
// @Failure 404 {object} dto.ErrorResponse "Admin not found"
// @Router /admins/{id} [get]
func (c *AdminController) GetAdminByID(ctx *gin.Context) {
	rec, err := c.adminService.GetByID(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(rec))
}

// UpdateAdmin partially updates an admin
// @Summary Update admin
// @Tags admins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Admin id"
// @Param request body dto.UpdateAdminRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse "Updated admin"
// @Failure 404 {object} dto.ErrorResponse "Admin not found"
// @Router /admins/{id} [put]
func (c *AdminController) UpdateAdmin(ctx *gin.Context) {
	var req dto.UpdateAdminRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	rec, err := c.adminService.Update(ctx, ctx.Param("id"), req.ToRecord())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(rec))
}

// DeleteAdmin deletes an admin
// @Summary Delete admin
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Param id path string true "Admin id"
// @Param policy query string false "restrict | cascade-null"
// @Success 204 "Admin deleted"
// @Failure 404 {object} dto.ErrorResponse "Admin not found"
// @Router /admins/{id} [delete]
func (c *AdminController) DeleteAdmin(ctx *gin.Context) {
	deleteEntity(ctx, c.adminService, ctx.Param("id"))
}
