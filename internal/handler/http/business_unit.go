package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/servicedesk/helpdesk-backend-go/internal/domain/businessunit"
	"github.com/servicedesk/helpdesk-backend-go/internal/handler/http/middleware"
	"github.com/servicedesk/helpdesk-backend-go/internal/handler/http/response"
)

type BusinessUnitHandler interface {
	GetWorkingHours(w http.ResponseWriter, r *http.Request)
	UpdateWorkingHours(w http.ResponseWriter, r *http.Request)
}

type businessUnitHandlerImpl struct {
	businessUnitService businessunit.BusinessUnitService
}

func NewBusinessUnitHandler(businessUnitService businessunit.BusinessUnitService) BusinessUnitHandler {
	return &businessUnitHandlerImpl{
		businessUnitService: businessUnitService,
	}
}

// GetWorkingHours handles GET /business-units/{id}/working-hours
func (h *businessUnitHandlerImpl) GetWorkingHours(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, businessunit.ErrInvalidBusinessUnitID)
		return
	}

	result, err := h.businessUnitService.GetWorkingHours(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateWorkingHours handles PUT /business-units/{id}/working-hours
func (h *businessUnitHandlerImpl) UpdateWorkingHours(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, businessunit.ErrInvalidBusinessUnitID)
		return
	}

	var req businessunit.UpdateWorkingHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id
	if principal, ok := middleware.PrincipalFromContext(r.Context()); ok {
		updatedBy := principal.UserID
		req.UpdatedBy = &updatedBy
	}

	result, err := h.businessUnitService.UpdateWorkingHours(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Working hours updated", result)
}
