package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tmorell/chorus/internal/services"
	"github.com/tmorell/chorus/pkg/response"
)

// handleServiceError maps the service error taxonomy onto HTTP responses.
// AccessDenied -> 403, NotFound -> 404, InvalidState/Conflict -> 409,
// Validation -> 400; anything else is a 500.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		response.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAccessDenied):
		response.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidState), errors.Is(err, services.ErrConflict):
		response.Conflict(c, err.Error())
	default:
		response.Error(c, err)
	}
}

// paramID parses a numeric path parameter. The second return is false when
// the parameter is missing or not a number; the caller should have already
// responded in that case.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
