package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ajayk/studisdb/internal/app/models/dto"
	"github.com/ajayk/studisdb/internal/app/services"
	"github.com/ajayk/studisdb/internal/middleware"
)

// TeacherController handles teacher CRUD.
type TeacherController struct {
	teacherService *services.EntityService
}

// NewTeacherController creates a new TeacherController.
func NewTeacherController(teacherService *services.EntityService) *TeacherController {
	return &TeacherController{teacherService: teacherService}
}

// CreateTeacher handles teacher creation
// @Summary Create a new teacher
// @Tags teachers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTeacherRequest true "Teacher information"
// @Success 201 {object} dto.APIResponse "Teacher created"
// @Failure 409 {object} dto.ErrorResponse "teacherID already exists"
// @Failure 422 {object} dto.ErrorResponse "Referenced subject or user does not exist"
// @Router /teachers [post]
func (c *TeacherController) CreateTeacher(ctx *gin.Context) {
	var req dto.CreateTeacherRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	rec, err := c.teacherService.Create(ctx, req.ToRecord())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(rec))
}

// GetAllTeachers lists teachers with their subjects resolved
// @Summary List teachers
// @Tags teachers
// @Produce json
// @Success 200 {object} dto.APIResponse "Teachers"
// @Router /teachers [get]
func (c *TeacherController) GetAllTeachers(ctx *gin.Context) {
	recs, err := c.teacherService.List(ctx, nil)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(recs))
}

// GetTeacherByID retrieves one teacher
// @Summary Get teacher by id
// @Tags teachers
// @Produce json
// @Param id path string true "Teacher id"
// @Success 200 {object} dto.APIResponse "Teacher"
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Router /teachers/{id} [get]
func (c *TeacherController) GetTeacherByID(ctx *gin.Context) {
	rec, err := c.teacherService.GetByID(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(rec))
}

// UpdateTeacher partially updates a teacher
// @Summary Update teacher
// @Tags teachers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Teacher id"
// @Param request body dto.UpdateTeacherRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse "Updated teacher"
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Router /teachers/{id} [put]
func (c *TeacherController) UpdateTeacher(ctx *gin.Context) {
	var req dto.UpdateTeacherRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	rec, err := c.teacherService.Update(ctx, ctx.Param("id"), req.ToRecord())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(rec))
}

// DeleteTeacher deletes a teacher
// @Summary Delete teacher
// @Tags teachers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Teacher id"
// @Param policy query string false "restrict | cascade-null"
// @Success 204 "Teacher deleted"
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Router /teachers/{id} [delete]
func (c *TeacherController) DeleteTeacher(ctx *gin.Context) {
	deleteEntity(ctx, c.teacherService, ctx.Param("id"))
}
