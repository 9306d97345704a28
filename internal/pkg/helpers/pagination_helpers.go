package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/uteq/division-service/internal/app/models"
	"github.com/uteq/division-service/internal/app/models/dto"
	"github.com/uteq/division-service/internal/pkg/apperrors"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 0 // Pages are 0-based
	DefaultSortBy   = "id"
)

// PageLimits bounds the size a client may request
type PageLimits struct {
	DefaultSize int
	MaxSize     int
}

// DefaultPageLimits returns the built-in limits
func DefaultPageLimits() PageLimits {
	return PageLimits{DefaultSize: DefaultPageSize, MaxSize: MaxPageSize}
}

// ParsePageRequest extracts page, size and sortBy from the query string.
// A negative or non-numeric page, or a non-positive size, is a bad request.
// Sizes above the maximum are capped, and so are pages whose offset would overflow.
func ParsePageRequest(c *gin.Context, limits PageLimits) (models.PageRequest, error) {
	if limits.DefaultSize <= 0 {
		limits.DefaultSize = DefaultPageSize
	}
	if limits.MaxSize < limits.DefaultSize {
		limits.MaxSize = limits.DefaultSize
	}

	req := models.PageRequest{Page: DefaultPage, Size: limits.DefaultSize, SortBy: DefaultSortBy}

	if raw, ok := c.GetQuery("page"); ok {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			return req, apperrors.NewBadRequestError("page must be a non-negative integer")
		}
		req.Page = page
	}

	if raw, ok := c.GetQuery("size"); ok {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return req, apperrors.NewBadRequestError("size must be a positive integer")
		}
		if size > limits.MaxSize {
			size = limits.MaxSize
		}
		req.Size = size
	}

	if req.Page > math.MaxInt/req.Size {
		req.Page = math.MaxInt / req.Size
	}

	if sortBy := c.Query("sortBy"); sortBy != "" {
		req.SortBy = sortBy
	}

	return req, nil
}

// NewPaginationInfo builds the pagination metadata for a page of results
func NewPaginationInfo[T any](page models.Page[T]) dto.PaginationInfo {
	totalPages := page.TotalPages()
	return dto.PaginationInfo{
		CurrentPage: page.Page,
		TotalPages:  totalPages,
		PageSize:    page.Size,
		TotalItems:  page.TotalItems,
		First:       page.Page == 0,
		Last:        page.Page >= totalPages-1,
	}
}

// NewPaginatedResponse wraps a page of results with its metadata
func NewPaginatedResponse[T any](page models.Page[T]) dto.PaginatedResponse {
	return dto.PaginatedResponse{
		Items:      page.Items,
		Pagination: NewPaginationInfo(page),
	}
}
