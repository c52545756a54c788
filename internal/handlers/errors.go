package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	apierrors "github.com/maoucrm/crm/internal/errors"
	"github.com/maoucrm/crm/internal/services"
)

// respondServiceError maps the service error taxonomy onto HTTP responses.
// Store failures are attached to the context for the request logger and
// reported without detail.
func respondServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError

	switch {
	case errors.As(err, &verr):
		apierrors.BadRequestWithDetails(c, verr.Error(), gin.H{"field": verr.Field})
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, err.Error())
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	}
}

// fieldError reports a request field that could not be decoded.
type fieldError struct {
	field  string
	reason string
}

func (e *fieldError) Error() string {
	return e.field + " " + e.reason
}

func respondFieldError(c *gin.Context, err error) {
	var ferr *fieldError
	if errors.As(err, &ferr) {
		apierrors.BadRequestWithDetails(c, ferr.Error(), gin.H{"field": ferr.field})
		return
	}
	apierrors.BadRequest(c, "Invalid request body")
}
