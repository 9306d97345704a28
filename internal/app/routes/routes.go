package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uteq/division-service/internal/app/controllers"
	"github.com/uteq/division-service/internal/app/models/dto"
	"github.com/uteq/division-service/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	divisionController *controllers.DivisionController,
	coordinatorController *controllers.CoordinatorController,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// Division routes. Static segments are registered before /:id.
	divisions := v1.Group("/divisiones")
	{
		divisions.GET("", divisionController.GetAllDivisions)
		divisions.GET("/activas", divisionController.GetActiveDivisions)
		divisions.GET("/search", divisionController.SearchDivisions)
		divisions.GET("/paginated", divisionController.GetDivisionsPaginated)
		divisions.GET("/activas/paginated", divisionController.GetActiveDivisionsPaginated)
		divisions.GET("/search/paginated", divisionController.SearchDivisionsPaginated)
		divisions.GET("/:id", divisionController.GetDivisionByID)
		divisions.POST("", middleware.ValidateRequest[dto.DivisionRequest](), divisionController.CreateDivision)
		divisions.PUT("/:id", middleware.ValidateRequest[dto.DivisionRequest](), divisionController.UpdateDivision)
		divisions.DELETE("/:id", divisionController.DeleteDivision)
		divisions.PATCH("/:id/toggle-status", divisionController.ToggleDivisionStatus)
	}

	// Coordinator routes
	coordinators := v1.Group("/coordinadores")
	{
		coordinators.GET("", coordinatorController.GetAllCoordinators)
		coordinators.GET("/activos", coordinatorController.GetActiveCoordinators)
		coordinators.GET("/division/:divisionId", coordinatorController.GetCoordinatorsByDivision)
		coordinators.GET("/paginated", coordinatorController.GetCoordinatorsPaginated)
		coordinators.GET("/activos/paginated", coordinatorController.GetActiveCoordinatorsPaginated)
		coordinators.GET("/division/:divisionId/paginated", coordinatorController.GetCoordinatorsByDivisionPaginated)
		coordinators.GET("/:id", coordinatorController.GetCoordinatorByID)
		coordinators.POST("", middleware.ValidateRequest[dto.CoordinatorCreateRequest](), coordinatorController.CreateCoordinator)
		coordinators.PUT("/:id", middleware.ValidateRequest[dto.CoordinatorUpdateRequest](), coordinatorController.UpdateCoordinator)
		coordinators.DELETE("/:id", coordinatorController.DeleteCoordinator)
		coordinators.PATCH("/:id/toggle-status", coordinatorController.ToggleCoordinatorStatus)
	}

	// Health check endpoint
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.NoRoute(func(c *gin.Context) {
		detail := dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Route not found").
			WithSeverity(dto.ErrorSeverityInfo)
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(detail))
	})
}
