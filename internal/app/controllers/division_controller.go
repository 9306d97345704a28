package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uteq/division-service/internal/app/models/dto"
	"github.com/uteq/division-service/internal/app/services"
	"github.com/uteq/division-service/internal/middleware"
	"github.com/uteq/division-service/internal/pkg/apperrors"
	"github.com/uteq/division-service/internal/pkg/helpers"
)

// DivisionController handles division endpoints
type DivisionController struct {
	divisionService *services.DivisionService
	pageLimits      helpers.PageLimits
}

// NewDivisionController creates a new DivisionController
func NewDivisionController(divisionService *services.DivisionService, pageLimits helpers.PageLimits) *DivisionController {
	return &DivisionController{
		divisionService: divisionService,
		pageLimits:      pageLimits,
	}
}

func toDivisionInput(req *dto.DivisionRequest) services.DivisionInput {
	input := services.DivisionInput{
		Name:     req.Name,
		Programs: make([]services.ProgramInput, 0, len(req.Programs)),
	}
	for _, p := range req.Programs {
		input.Programs = append(input.Programs, services.ProgramInput{ID: p.ID, Name: p.Name, Active: p.Active})
	}
	return input
}

// GetAllDivisions lists every division
// @Summary List divisions
// @Description Lists every division, active or not, ordered by id
// @Tags divisions
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.DivisionView} "Divisions retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /divisiones [get]
func (c *DivisionController) GetAllDivisions(ctx *gin.Context) {
	views, err := c.divisionService.List(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, views)
}

// GetActiveDivisions lists active divisions
// @Summary List active divisions
// @Tags divisions
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.DivisionView} "Active divisions retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /divisiones/activas [get]
func (c *DivisionController) GetActiveDivisions(ctx *gin.Context) {
	views, err := c.divisionService.ListActive(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, views)
}

// SearchDivisions lists divisions whose name contains the query, ignoring case
// @Summary Search divisions by name
// @Tags divisions
// @Produce json
// @Param nombre query string false "Name fragment"
// @Success 200 {object} dto.APIResponse{data=[]dto.DivisionView} "Matching divisions"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /divisiones/search [get]
func (c *DivisionController) SearchDivisions(ctx *gin.Context) {
	views, err := c.divisionService.SearchByName(ctx, ctx.Query("nombre"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, views)
}

// GetDivisionsPaginated returns one page of divisions
// @Summary List divisions (paginated)
// @Tags divisions
// @Produce json
// @Param page query int false "0-based page index" default(0)
// @Param size query int false "Page size, capped at the configured maximum" default(10)
// @Param sortBy query string false "Sort field (id, nombre, activo)" default(id)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]dto.DivisionView}} "Page of divisions"
// @Failure 400 {object} dto.ErrorResponse "Invalid pagination parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /divisiones/paginated [get]
func (c *DivisionController) GetDivisionsPaginated(ctx *gin.Context) {
	page, ok := parsePage(ctx, c.pageLimits)
	if !ok {
		return
	}
	result, err := c.divisionService.ListPage(ctx, page)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, result)
}

// GetActiveDivisionsPaginated returns one page of active divisions
// @Summary List active divisions (paginated)
// @Tags divisions
// @Produce json
// @Param page query int false "0-based page index" default(0)
// @Param size query int false "Page size" default(10)
// @Param sortBy query string false "Sort field (id, nombre, activo)" default(id)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]dto.DivisionView}} "Page of active divisions"
// @Failure 400 {object} dto.ErrorResponse "Invalid pagination parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /divisiones/activas/paginated [get]
func (c *DivisionController) GetActiveDivisionsPaginated(ctx *gin.Context) {
	page, ok := parsePage(ctx, c.pageLimits)
	if !ok {
		return
	}
	result, err := c.divisionService.ListActivePage(ctx, page)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, result)
}

// SearchDivisionsPaginated returns one page of divisions matching a name fragment
// @Summary Search divisions by name (paginated)
// @Tags divisions
// @Produce json
// @Param nombre query string false "Name fragment"
// @Param page query int false "0-based page index" default(0)
// @Param size query int false "Page size" default(10)
// @Param sortBy query string false "Sort field (id, nombre, activo)" default(id)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]dto.DivisionView}} "Page of matching divisions"
// @Failure 400 {object} dto.ErrorResponse "Invalid pagination parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /divisiones/search/paginated [get]
func (c *DivisionController) SearchDivisionsPaginated(ctx *gin.Context) {
	page, ok := parsePage(ctx, c.pageLimits)
	if !ok {
		return
	}
	result, err := c.divisionService.SearchByNamePage(ctx, ctx.Query("nombre"), page)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, result)
}

// GetDivisionByID retrieves a division by ID
// @Summary Get division by ID
// @Tags divisions
// @Produce json
// @Param id path int true "Division ID"
// @Success 200 {object} dto.APIResponse{data=dto.DivisionView} "Division retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid division ID"
// @Failure 404 {object} dto.ErrorResponse "Division not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /divisiones/{id} [get]
func (c *DivisionController) GetDivisionByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	view, err := c.divisionService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, view)
}

// CreateDivision handles division creation
// @Summary Create a division
// @Description Creates an active division. Every supplied program is created active.
// @Tags divisions
// @Accept json
// @Produce json
// @Param request body dto.DivisionRequest true "Division information"
// @Success 201 {object} dto.APIResponse{data=dto.DivisionView} "Division created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Division name already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /divisiones [post]
func (c *DivisionController) CreateDivision(ctx *gin.Context) {
	req, ok := bindBody[dto.DivisionRequest](ctx)
	if !ok {
		return
	}
	view, err := c.divisionService.Create(ctx, toDivisionInput(req))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(view))
}

// UpdateDivision replaces a division and its program collection
// @Summary Update a division
// @Description Replaces the name and the whole program list. Programs echoed with their id keep it.
// @Tags divisions
// @Accept json
// @Produce json
// @Param id path int true "Division ID"
// @Param request body dto.DivisionRequest true "Division information"
// @Success 200 {object} dto.APIResponse{data=dto.DivisionView} "Division updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Division not found"
// @Failure 409 {object} dto.ErrorResponse "Division name already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /divisiones/{id} [put]
func (c *DivisionController) UpdateDivision(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	req, ok := bindBody[dto.DivisionRequest](ctx)
	if !ok {
		return
	}
	view, err := c.divisionService.Update(ctx, id, toDivisionInput(req))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, view)
}

// DeleteDivision soft deletes a division and deactivates its programs
// @Summary Delete a division
// @Tags divisions
// @Param id path int true "Division ID"
// @Success 204 "Division deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid division ID"
// @Failure 404 {object} dto.ErrorResponse "Division not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /divisiones/{id} [delete]
func (c *DivisionController) DeleteDivision(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	deleted, err := c.divisionService.Delete(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if !deleted {
		middleware.HandleAPIError(ctx, apperrors.ErrDivisionNotFound)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ToggleDivisionStatus flips the active flag of a division
// @Summary Toggle division status
// @Tags divisions
// @Produce json
// @Param id path int true "Division ID"
// @Success 200 {object} dto.APIResponse{data=dto.DivisionView} "Division status toggled"
// @Failure 400 {object} dto.ErrorResponse "Invalid division ID"
// @Failure 404 {object} dto.ErrorResponse "Division not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /divisiones/{id}/toggle-status [patch]
func (c *DivisionController) ToggleDivisionStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	view, err := c.divisionService.ToggleStatus(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, view)
}
