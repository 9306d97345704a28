package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/uteq/division-service/internal/app/models"
	"github.com/uteq/division-service/internal/app/models/dto"
	"github.com/uteq/division-service/internal/middleware"
	"github.com/uteq/division-service/internal/pkg/helpers"
)

// parseIDParam reads a positive int64 path parameter, answering 400 when it is not one
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.RespondInvalidID(ctx, name)
		return 0, false
	}
	return id, true
}

// bindBody returns the body validated by middleware.ValidateRequest, binding it
// here when the route was registered without that middleware
func bindBody[T any](ctx *gin.Context) (*T, bool) {
	if body, ok := middleware.ValidatedBody[T](ctx); ok {
		return body, true
	}
	body := new(T)
	if err := ctx.ShouldBindJSON(body); err != nil {
		middleware.RespondBindingError(ctx, err)
		return nil, false
	}
	return body, true
}

// parsePage reads the pagination query, answering 400 on invalid values
func parsePage(ctx *gin.Context, limits helpers.PageLimits) (models.PageRequest, bool) {
	page, err := helpers.ParsePageRequest(ctx, limits)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return page, false
	}
	return page, true
}

func respondOK(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

func respondPage[T any](ctx *gin.Context, page models.Page[T]) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(helpers.NewPaginatedResponse(page)))
}
