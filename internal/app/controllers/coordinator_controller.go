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

// CoordinatorController handles coordinator endpoints
type CoordinatorController struct {
	coordinatorService *services.CoordinatorService
	pageLimits         helpers.PageLimits
}

// NewCoordinatorController creates a new CoordinatorController
func NewCoordinatorController(coordinatorService *services.CoordinatorService, pageLimits helpers.PageLimits) *CoordinatorController {
	return &CoordinatorController{
		coordinatorService: coordinatorService,
		pageLimits:         pageLimits,
	}
}

func toCoordinatorInput(req *dto.CoordinatorCreateRequest, active *bool) services.CoordinatorInput {
	return services.CoordinatorInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		DivisionID: req.DivisionID,
		Active:     active,
	}
}

// GetAllCoordinators lists every coordinator
// @Summary List coordinators
// @Description Lists every coordinator, active or not, ordered by id
// @Tags coordinators
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.CoordinatorView} "Coordinators retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /coordinadores [get]
func (c *CoordinatorController) GetAllCoordinators(ctx *gin.Context) {
	views, err := c.coordinatorService.List(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, views)
}

// GetActiveCoordinators lists active coordinators
// @Summary List active coordinators
// @Tags coordinators
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.CoordinatorView} "Active coordinators retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /coordinadores/activos [get]
func (c *CoordinatorController) GetActiveCoordinators(ctx *gin.Context) {
	views, err := c.coordinatorService.ListActive(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, views)
}

// GetCoordinatorsByDivision lists the coordinators assigned to a division
// @Summary List coordinators of a division
// @Tags coordinators
// @Produce json
// @Param divisionId path int true "Division ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.CoordinatorView} "Coordinators of the division"
// @Failure 400 {object} dto.ErrorResponse "Invalid division ID"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /coordinadores/division/{divisionId} [get]
func (c *CoordinatorController) GetCoordinatorsByDivision(ctx *gin.Context) {
	divisionID, ok := parseIDParam(ctx, "divisionId")
	if !ok {
		return
	}
	views, err := c.coordinatorService.ListByDivision(ctx, divisionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, views)
}

// GetCoordinatorsPaginated returns one page of coordinators
// @Summary List coordinators (paginated)
// @Tags coordinators
// @Produce json
// @Param page query int false "0-based page index" default(0)
// @Param size query int false "Page size" default(10)
// @Param sortBy query string false "Sort field (id, nombre, apellido, correo, divisionId, activo)" default(id)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]dto.CoordinatorView}} "Page of coordinators"
// @Failure 400 {object} dto.ErrorResponse "Invalid pagination parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /coordinadores/paginated [get]
func (c *CoordinatorController) GetCoordinatorsPaginated(ctx *gin.Context) {
	page, ok := parsePage(ctx, c.pageLimits)
	if !ok {
		return
	}
	result, err := c.coordinatorService.ListPage(ctx, page)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, result)
}

// GetActiveCoordinatorsPaginated returns one page of active coordinators
// @Summary List active coordinators (paginated)
// @Tags coordinators
// @Produce json
// @Param page query int false "0-based page index" default(0)
// @Param size query int false "Page size" default(10)
// @Param sortBy query string false "Sort field" default(id)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]dto.CoordinatorView}} "Page of active coordinators"
// @Failure 400 {object} dto.ErrorResponse "Invalid pagination parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /coordinadores/activos/paginated [get]
func (c *CoordinatorController) GetActiveCoordinatorsPaginated(ctx *gin.Context) {
	page, ok := parsePage(ctx, c.pageLimits)
	if !ok {
		return
	}
	result, err := c.coordinatorService.ListActivePage(ctx, page)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, result)
}

// GetCoordinatorsByDivisionPaginated returns one page of a division's coordinators
// @Summary List coordinators of a division (paginated)
// @Tags coordinators
// @Produce json
// @Param divisionId path int true "Division ID"
// @Param page query int false "0-based page index" default(0)
// @Param size query int false "Page size" default(10)
// @Param sortBy query string false "Sort field" default(id)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]dto.CoordinatorView}} "Page of coordinators"
// @Failure 400 {object} dto.ErrorResponse "Invalid division ID or pagination parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /coordinadores/division/{divisionId}/paginated [get]
func (c *CoordinatorController) GetCoordinatorsByDivisionPaginated(ctx *gin.Context) {
	divisionID, ok := parseIDParam(ctx, "divisionId")
	if !ok {
		return
	}
	page, ok := parsePage(ctx, c.pageLimits)
	if !ok {
		return
	}
	result, err := c.coordinatorService.ListByDivisionPage(ctx, divisionID, page)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, result)
}

// GetCoordinatorByID retrieves a coordinator by ID
// @Summary Get coordinator by ID
// @Tags coordinators
// @Produce json
// @Param id path int true "Coordinator ID"
// @Success 200 {object} dto.APIResponse{data=dto.CoordinatorView} "Coordinator retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid coordinator ID"
// @Failure 404 {object} dto.ErrorResponse "Coordinator not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /coordinadores/{id} [get]
func (c *CoordinatorController) GetCoordinatorByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	view, err := c.coordinatorService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, view)
}

// CreateCoordinator handles coordinator creation
// @Summary Create a coordinator
// @Description Creates an active coordinator assigned to an existing division
// @Tags coordinators
// @Accept json
// @Produce json
// @Param request body dto.CoordinatorCreateRequest true "Coordinator information"
// @Success 201 {object} dto.APIResponse{data=dto.CoordinatorView} "Coordinator created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or unknown division"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /coordinadores [post]
func (c *CoordinatorController) CreateCoordinator(ctx *gin.Context) {
	req, ok := bindBody[dto.CoordinatorCreateRequest](ctx)
	if !ok {
		return
	}
	view, err := c.coordinatorService.Create(ctx, toCoordinatorInput(req, nil))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(view))
}

// UpdateCoordinator replaces every mutable coordinator field
// @Summary Update a coordinator
// @Tags coordinators
// @Accept json
// @Produce json
// @Param id path int true "Coordinator ID"
// @Param request body dto.CoordinatorUpdateRequest true "Coordinator information"
// @Success 200 {object} dto.APIResponse{data=dto.CoordinatorView} "Coordinator updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or unknown division"
// @Failure 404 {object} dto.ErrorResponse "Coordinator not found"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /coordinadores/{id} [put]
func (c *CoordinatorController) UpdateCoordinator(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	req, ok := bindBody[dto.CoordinatorUpdateRequest](ctx)
	if !ok {
		return
	}
	view, err := c.coordinatorService.Update(ctx, id, toCoordinatorInput(&req.CoordinatorCreateRequest, req.Active))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, view)
}

// DeleteCoordinator soft deletes a coordinator
// @Summary Delete a coordinator
// @Tags coordinators
// @Param id path int true "Coordinator ID"
// @Success 204 "Coordinator deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid coordinator ID"
// @Failure 404 {object} dto.ErrorResponse "Coordinator not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /coordinadores/{id} [delete]
func (c *CoordinatorController) DeleteCoordinator(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	deleted, err := c.coordinatorService.Delete(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if !deleted {
		middleware.HandleAPIError(ctx, apperrors.ErrCoordinatorNotFound)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ToggleCoordinatorStatus flips the active flag of a coordinator
// @Summary Toggle coordinator status
// @Tags coordinators
// @Produce json
// @Param id path int true "Coordinator ID"
// @Success 200 {object} dto.APIResponse{data=dto.CoordinatorView} "Coordinator status toggled"
// @Failure 400 {object} dto.ErrorResponse "Invalid coordinator ID"
// @Failure 404 {object} dto.ErrorResponse "Coordinator not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /coordinadores/{id}/toggle-status [patch]
func (c *CoordinatorController) ToggleCoordinatorStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	view, err := c.coordinatorService.ToggleStatus(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, view)
}
