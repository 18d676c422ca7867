package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/servicedesk/helpdesk-backend-go/internal/domain/businessunit"
	"github.com/servicedesk/helpdesk-backend-go/internal/domain/outshift"
	"github.com/servicedesk/helpdesk-backend-go/internal/domain/user"
	"github.com/servicedesk/helpdesk-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Outshift domain errors
	case errors.Is(err, outshift.ErrAgentNotFound):
		NotFound(w, "Agent not found")
	case errors.Is(err, outshift.ErrInvalidAgentID):
		BadRequest(w, "Invalid agent ID format", nil)
	case errors.Is(err, outshift.ErrInvalidDateRange):
		BadRequest(w, "Invalid date range", nil)

	// Business unit domain errors
	case errors.Is(err, businessunit.ErrBusinessUnitNotFound):
		NotFound(w, "Business unit not found")
	case errors.Is(err, businessunit.ErrInvalidBusinessUnitID):
		BadRequest(w, "Invalid business unit ID", nil)

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrSuperAdminRequired):
		Forbidden(w, "Super admin access required")

	case errors.Is(err, context.DeadlineExceeded):
		ServiceUnavailable(w, "Report generation timed out")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
