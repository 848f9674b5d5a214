package response

import (
	"errors"
	"net/http"

	"github.com/openleave/lms-backend-go/internal/domain/leave"
	"github.com/openleave/lms-backend-go/internal/domain/session"
	"github.com/openleave/lms-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Session domain errors
	case errors.Is(err, session.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, session.ErrAdminPrivilegeRequired):
		Forbidden(w, err.Error())
	case errors.Is(err, session.ErrNoActiveSession):
		Unauthorized(w, err.Error())

	// Leave domain errors
	case errors.Is(err, leave.ErrRecordNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, leave.ErrRetroactiveLeave),
		errors.Is(err, leave.ErrInvalidDateRange),
		errors.Is(err, leave.ErrInsufficientBalance),
		errors.Is(err, leave.ErrOverlappingLeave),
		errors.Is(err, leave.ErrInvalidStatus):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
