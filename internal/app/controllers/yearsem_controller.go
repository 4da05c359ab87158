package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ajayk/studisdb/internal/app/models/dto"
	"github.com/ajayk/studisdb/internal/app/services"
	"github.com/ajayk/studisdb/internal/app/store"
	"github.com/ajayk/studisdb/internal/middleware"
)

// YearSemController handles year-semester term CRUD.
type YearSemController struct {
	yearSemService *services.EntityService
}

// NewYearSemController creates a new YearSemController.
func NewYearSemController(yearSemService *services.EntityService) *YearSemController {
	return &YearSemController{yearSemService: yearSemService}
}

// CreateYearSem handles term creation
// @Summary Create a new year-semester term
// @Tags yearsem
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateYearSemRequest true "Term information"
// @Success 201 {object} dto.APIResponse "Term created"
// @Router /yearsem [post]
func (c *YearSemController) CreateYearSem(ctx *gin.Context) {
	var req dto.CreateYearSemRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	rec, err := c.yearSemService.Create(ctx, req.ToRecord())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(rec))
}

// GetAllYearSems lists terms, optionally filtered by status
// @Summary List year-semester terms
// @Tags yearsem
// @Produce json
// @Param status query string false "active | inactive"
// @Success 200 {object} dto.APIResponse "Terms"
// @Router /yearsem [get]
func (c *YearSemController) GetAllYearSems(ctx *gin.Context) {
	var filter store.Filter
	if status := ctx.Query("status"); status != "" {
		filter = store.Filter{"status": status}
	}

	recs, err := c.yearSemService.List(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(recs))
}

// GetYearSemByID retrieves one term
// @Summary Get term by id
// @Tags yearsem
// @Produce json
// @Param id path string true "Term id"
// @Success 200 {object} dto.APIResponse "Term"
// @Failure 404 {object} dto.ErrorResponse "Term not found"
// @Router /yearsem/{id} [get]
func (c *YearSemController) GetYearSemByID(ctx *gin.Context) {
	rec, err := c.yearSemService.GetByID(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(rec))
}

// UpdateYearSem partially updates a term
// @Summary Update term
// @Tags yearsem
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Term id"
// @Param request body dto.UpdateYearSemRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse "Updated term"
// @Failure 404 {object} dto.ErrorResponse "Term not found"
// @Router /yearsem/{id} [put]
func (c *YearSemController) UpdateYearSem(ctx *gin.Context) {
	var req dto.UpdateYearSemRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	rec, err := c.yearSemService.Update(ctx, ctx.Param("id"), req.ToRecord())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(rec))
}

// DeleteYearSem deletes a term
// @Summary Delete term
// @Tags yearsem
// @Produce json
// @Security BearerAuth
// @Param id path string true "Term id"
// @Param policy query string false "restrict | cascade-null"
// @Success 204 "Term deleted"
// @Failure 404 {object} dto.ErrorResponse "Term not found"
// @Failure 409 {object} dto.ErrorResponse "Blocked by referencing students"
// @Router /yearsem/{id} [delete]
func (c *YearSemController) DeleteYearSem(ctx *gin.Context) {
	deleteEntity(ctx, c.yearSemService, ctx.Param("id"))
}
