package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uteq/division-service/internal/app/models/dto"
	"github.com/uteq/division-service/internal/pkg/apperrors"
	"github.com/uteq/division-service/internal/pkg/logger"
)

// --- Central Error Handling ---

// errorMessage prefers the message carried by a CustomError
func errorMessage(err error, fallback string) string {
	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) && customErr.Message != "" {
		return customErr.Message
	}
	return fallback
}

// HandleAPIError maps service errors to HTTP responses. It is the only place where
// domain errors are translated to status codes.
func HandleAPIError(c *gin.Context, err error) {
	var (
		status int
		detail *dto.ErrorDetail
	)

	switch {
	case apperrors.IsNotFound(err):
		status = http.StatusNotFound
		detail = dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, errorMessage(err, "Resource not found")).
			WithSeverity(dto.ErrorSeverityInfo)
	case apperrors.IsConflict(err):
		status = http.StatusConflict
		detail = dto.NewErrorDetail(dto.ErrorCodeConflict, errorMessage(err, "Resource already exists")).
			WithSeverity(dto.ErrorSeverityWarning)
	case apperrors.IsValidation(err):
		status = http.StatusBadRequest
		detail = dto.NewErrorDetail(dto.ErrorCodeValidationFailed, errorMessage(err, "Validation failed")).
			WithSeverity(dto.ErrorSeverityWarning)
	case errors.Is(err, apperrors.ErrBadRequest):
		status = http.StatusBadRequest
		detail = dto.NewErrorDetail(dto.ErrorCodeBadRequest, errorMessage(err, "Bad request")).
			WithSeverity(dto.ErrorSeverityWarning)
	default:
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Str("requestId", c.GetString(RequestIDKey)).
			Msg("Unhandled error while serving request")
		status = http.StatusInternalServerError
		detail = dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
			WithSeverity(dto.ErrorSeverityCritical)
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

// RespondBindingError reports a malformed or invalid request body
func RespondBindingError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}

// RespondInvalidID reports a path parameter that is not a positive integer
func RespondInvalidID(c *gin.Context, param string) {
	detail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid "+param).
		WithField(param).
		WithDetails(param + " must be a positive integer")
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
}
