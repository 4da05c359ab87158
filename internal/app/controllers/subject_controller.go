package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ajayk/studisdb/internal/app/models/dto"
	"github.com/ajayk/studisdb/internal/app/services"
	"github.com/ajayk/studisdb/internal/middleware"
)

// SubjectController handles subject CRUD.
type SubjectController struct {
	subjectService *services.EntityService
}

// NewSubjectController creates a new SubjectController.
func NewSubjectController(subjectService *services.EntityService) *SubjectController {
	return &SubjectController{subjectService: subjectService}
}

// CreateSubject handles subject creation
// @Summary Create a new subject
// @Tags subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSubjectRequest true "Subject information"
// @Success 201 {object} dto.APIResponse "Subject created"
// @Failure 409 {object} dto.ErrorResponse "subID already exists"
// @Router /subjects [post]
func (c *SubjectController) CreateSubject(ctx *gin.Context) {
	var req dto.CreateSubjectRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	rec, err := c.subjectService.Create(ctx, req.ToRecord())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(rec))
}

// GetAllSubjects lists subjects
// @Summary List subjects
// @Tags subjects
// @Produce json
// @Success 200 {object} dto.APIResponse "Subjects"
// @Router /subjects [get]
func (c *SubjectController) GetAllSubjects(ctx *gin.Context) {
	recs, err := c.subjectService.List(ctx, nil)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(recs))
}

// GetSubjectByID retrieves one subject
// @Summary Get subject by id
// @Tags subjects
// @Produce json
// @Param id path string true "Subject id"
// @Success 200 {object} dto.APIResponse "Subject"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /subjects/{id} [get]
func (c *SubjectController) GetSubjectByID(ctx *gin.Context) {
	rec, err := c.subjectService.GetByID(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(rec))
}

// UpdateSubject partially updates a subject
// @Summary Update subject
// @Tags subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subject id"
// @Param request body dto.UpdateSubjectRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse "Updated subject"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /subjects/{id} [put]
func (c *SubjectController) UpdateSubject(ctx *gin.Context) {
	var req dto.UpdateSubjectRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	rec, err := c.subjectService.Update(ctx, ctx.Param("id"), req.ToRecord())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(rec))
}

// DeleteSubject deletes a subject
// @Summary Delete subject
// @Description Deletes a subject under the configured referential policy; restrict rejects the delete while students or teachers still reference it
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subject id"
// @Param policy query string false "restrict | cascade-null"
// @Success 204 "Subject deleted"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 409 {object} dto.ErrorResponse "Blocked by referencing records"
// @Router /subjects/{id} [delete]
func (c *SubjectController) DeleteSubject(ctx *gin.Context) {
	deleteEntity(ctx, c.subjectService, ctx.Param("id"))
}
