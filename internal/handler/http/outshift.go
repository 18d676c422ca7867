package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/servicedesk/helpdesk-backend-go/internal/domain/outshift"
	"github.com/servicedesk/helpdesk-backend-go/internal/domain/user"
	"github.com/servicedesk/helpdesk-backend-go/internal/handler/http/middleware"
	"github.com/servicedesk/helpdesk-backend-go/internal/handler/http/response"
	"github.com/servicedesk/helpdesk-backend-go/internal/pkg/validator"
)

type OutshiftHandler interface {
	// Agent Outshift Report
	GetAgentReport(w http.ResponseWriter, r *http.Request)

	// Global Outshift Report
	GetGlobalReport(w http.ResponseWriter, r *http.Request)
}

type outshiftHandlerImpl struct {
	outshiftService outshift.OutshiftService
	location        *time.Location
}

func NewOutshiftHandler(outshiftService outshift.OutshiftService, location *time.Location) OutshiftHandler {
	return &outshiftHandlerImpl{
		outshiftService: outshiftService,
		location:        location,
	}
}

// GetAgentReport handles GET /reports/outshift/agent/{agentID}
func (h *outshiftHandlerImpl) GetAgentReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	agentID, err := uuid.Parse(chi.URLParam(r, "agentID"))
	if err != nil {
		response.HandleError(w, outshift.ErrInvalidAgentID)
		return
	}

	filter, err := parseReportFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.outshiftService.GetAgentReport(ctx, agentID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, h.meta())
}

// GetGlobalReport handles GET /reports/outshift/global. Callers allowed to
// see every unit get the whole fleet whatever business_unit_ids says.
func (h *outshiftHandlerImpl) GetGlobalReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := parseReportFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if principal, ok := middleware.PrincipalFromContext(ctx); ok &&
		user.HasPermission(principal.Role, user.PermissionOutshiftViewAllUnits) {
		filter.BusinessUnitIDs = nil
	}

	result, err := h.outshiftService.GetGlobalReport(ctx, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, h.meta())
}

func (h *outshiftHandlerImpl) meta() *response.Meta {
	return &response.Meta{
		GeneratedAt: time.Now().In(h.location).Format(time.RFC3339),
		Timezone:    h.location.String(),
	}
}

// parseReportFilter reads date_preset, start_date, end_date and
// business_unit_ids (comma separated) from the query string.
func parseReportFilter(r *http.Request) (outshift.ReportFilter, error) {
	q := r.URL.Query()

	filter := outshift.ReportFilter{
		DatePreset: outshift.DatePreset(strings.ToLower(strings.TrimSpace(q.Get("date_preset")))),
		StartDate:  strings.TrimSpace(q.Get("start_date")),
		EndDate:    strings.TrimSpace(q.Get("end_date")),
	}

	if raw := q.Get("business_unit_ids"); raw != "" {
		ids, ok := validator.ParseIntList(raw)
		if !ok {
			return outshift.ReportFilter{}, validator.ValidationErrors{{
				Field:   "business_unit_ids",
				Message: "business_unit_ids must be a comma separated list of integers",
			}}
		}
		filter.BusinessUnitIDs = ids
	}

	return filter, nil
}
