package businessunit

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/servicedesk/helpdesk-backend-go/internal/pkg/shift"
	"github.com/servicedesk/helpdesk-backend-go/internal/pkg/validator"
)

type UpdateWorkingHoursRequest struct {
	ID           int             `json:"-"`
	WorkingHours json.RawMessage `json:"working_hours"`
	UpdatedBy    *uuid.UUID      `json:"-"`
}

func (r *UpdateWorkingHoursRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "business unit id must be a positive integer",
		})
	}

	if err := shift.Validate(r.WorkingHours); err != nil {
		if hoursErrs, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, hoursErrs...)
		} else {
			errs = append(errs, validator.ValidationError{Field: "working_hours", Message: err.Error()})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	// An empty object is stored as "no working hours".
	trimmed := bytes.TrimSpace(r.WorkingHours)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("{}")) {
		r.WorkingHours = json.RawMessage("null")
	}
	return nil
}

type WorkingHoursResponse struct {
	BusinessUnitID  int                           `json:"business_unit_id"`
	Name            string                        `json:"name"`
	HasWorkingHours bool                          `json:"has_working_hours"`
	WorkingHours    json.RawMessage               `json:"working_hours"`
	Normalized      map[string][]shift.ClockRange `json:"normalized"`
	Issues          []string                      `json:"issues,omitempty"`
}
