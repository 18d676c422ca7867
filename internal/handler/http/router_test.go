package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/servicedesk/helpdesk-backend-go/internal/domain/businessunit"
	"github.com/servicedesk/helpdesk-backend-go/internal/domain/outshift"
	"github.com/servicedesk/helpdesk-backend-go/internal/domain/user"
	"github.com/servicedesk/helpdesk-backend-go/internal/pkg/jwt"
	"github.com/servicedesk/helpdesk-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type fakeOutshiftService struct {
	agentReport  outshift.AgentReport
	globalReport outshift.GlobalReport
	err          error

	agentCalls  int
	globalCalls int
	lastAgentID uuid.UUID
	lastFilter  outshift.ReportFilter
}

func (f *fakeOutshiftService) GetAgentReport(ctx context.Context, agentID uuid.UUID, filter outshift.ReportFilter) (outshift.AgentReport, error) {
	f.agentCalls++
	f.lastAgentID = agentID
	f.lastFilter = filter
	return f.agentReport, f.err
}

func (f *fakeOutshiftService) GetGlobalReport(ctx context.Context, filter outshift.ReportFilter) (outshift.GlobalReport, error) {
	f.globalCalls++
	f.lastFilter = filter
	return f.globalReport, f.err
}

type fakeBusinessUnitService struct {
	result  businessunit.WorkingHoursResponse
	err     error
	lastID  int
	lastReq businessunit.UpdateWorkingHoursRequest
	updates int
}

func (f *fakeBusinessUnitService) GetWorkingHours(ctx context.Context, id int) (businessunit.WorkingHoursResponse, error) {
	f.lastID = id
	return f.result, f.err
}

func (f *fakeBusinessUnitService) UpdateWorkingHours(ctx context.Context, req businessunit.UpdateWorkingHoursRequest) (businessunit.WorkingHoursResponse, error) {
	f.updates++
	f.lastReq = req
	return f.result, f.err
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		GeneratedAt string `json:"generated_at"`
		Timezone    string `json:"timezone"`
	} `json:"meta"`
}

type testServer struct {
	handler      http.Handler
	jwt          jwt.Service
	outshift     *fakeOutshiftService
	businessUnit *fakeBusinessUnitService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	jwtService := jwt.NewJWTService(handlerTestSecret, time.Hour)
	outshiftSvc := &fakeOutshiftService{}
	businessUnitSvc := &fakeBusinessUnitService{}

	router := NewRouter(
		RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		jwtService,
		NewOutshiftHandler(outshiftSvc, time.UTC),
		NewBusinessUnitHandler(businessUnitSvc),
	)
	return &testServer{
		handler:      router,
		jwt:          jwtService,
		outshift:     outshiftSvc,
		businessUnit: businessUnitSvc,
	}
}

func (s *testServer) token(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(userID, "tester", role)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, target, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/api/v1/reports/outshift/global", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/reports/outshift/global", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	other := jwt.NewJWTService("some-other-secret", time.Hour)
	forged, _, err := other.GenerateAccessToken(uuid.New(), "mallory", user.RoleSuperAdmin)
	require.NoError(t, err)
	rec, _ = s.do(t, http.MethodGet, "/api/v1/reports/outshift/global", forged, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Zero(t, s.outshift.globalCalls)
}

func TestRouter_UnknownRoleForbidden(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, uuid.New(), user.Role("guest"))

	rec, env := s.do(t, http.MethodGet, "/api/v1/reports/outshift/global", token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, env.Success)
	assert.Zero(t, s.outshift.globalCalls)
}

func TestGetAgentReport(t *testing.T) {
	s := newTestServer(t)
	agentID := uuid.New()
	s.outshift.agentReport = outshift.AgentReport{
		AgentID:              agentID,
		AgentName:            "alice",
		PeriodStart:          "2024-01-01",
		PeriodEnd:            "2024-01-07",
		TotalActivityMinutes: 90,
		HasActivity:          true,
	}
	token := s.token(t, uuid.New(), user.RoleTechnician)

	rec, env := s.do(t, http.MethodGet,
		"/api/v1/reports/outshift/agent/"+agentID.String()+"?date_preset=CUSTOM&start_date=2024-01-01&end_date=2024-01-07",
		token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, agentID, s.outshift.lastAgentID)
	assert.Equal(t, outshift.ReportFilter{
		DatePreset: outshift.PresetCustom,
		StartDate:  "2024-01-01",
		EndDate:    "2024-01-07",
	}, s.outshift.lastFilter)

	var report outshift.AgentReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, "alice", report.AgentName)
	assert.Equal(t, 90.0, report.TotalActivityMinutes)

	require.NotNil(t, env.Meta)
	assert.Equal(t, "UTC", env.Meta.Timezone)
	_, err := time.Parse(time.RFC3339, env.Meta.GeneratedAt)
	assert.NoError(t, err)
}

func TestGetAgentReport_Errors(t *testing.T) {
	cases := []struct {
		name       string
		agentID    string
		serviceErr error
		wantStatus int
		wantCalled bool
	}{
		{"malformed agent id", "not-a-uuid", nil, http.StatusBadRequest, false},
		{"agent not found", uuid.NewString(), outshift.ErrAgentNotFound, http.StatusNotFound, true},
		{"invalid filter", uuid.NewString(), validator.ValidationErrors{{Field: "start_date", Message: "bad"}}, http.StatusUnprocessableEntity, true},
		{"timeout", uuid.NewString(), context.DeadlineExceeded, http.StatusServiceUnavailable, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := newTestServer(t)
			s.outshift.err = c.serviceErr
			token := s.token(t, uuid.New(), user.RoleAuditor)

			rec, env := s.do(t, http.MethodGet, "/api/v1/reports/outshift/agent/"+c.agentID, token, "")
			assert.Equal(t, c.wantStatus, rec.Code, rec.Body.String())
			assert.False(t, env.Success)
			assert.Equal(t, c.wantCalled, s.outshift.agentCalls == 1)
		})
	}
}

func TestGetGlobalReport_BusinessUnitFilter(t *testing.T) {
	cases := []struct {
		role user.Role
		want []int
	}{
		{user.RoleTechnician, []int{1, 2}},
		{user.RoleAuditor, nil},
		{user.RoleSuperAdmin, nil},
	}
	for _, c := range cases {
		t.Run(string(c.role), func(t *testing.T) {
			s := newTestServer(t)
			s.outshift.globalReport = outshift.GlobalReport{TotalAgents: 3, HasData: true}
			token := s.token(t, uuid.New(), c.role)

			rec, env := s.do(t, http.MethodGet,
				"/api/v1/reports/outshift/global?date_preset=last_7_days&business_unit_ids=1,%202",
				token, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			assert.Equal(t, outshift.PresetLast7Days, s.outshift.lastFilter.DatePreset)
			assert.Equal(t, c.want, s.outshift.lastFilter.BusinessUnitIDs)

			var report outshift.GlobalReport
			require.NoError(t, json.Unmarshal(env.Data, &report))
			assert.Equal(t, 3, report.TotalAgents)
			assert.True(t, report.HasData)
		})
	}
}

func TestGetGlobalReport_InvalidBusinessUnitIDs(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, uuid.New(), user.RoleTechnician)

	rec, env := s.do(t, http.MethodGet, "/api/v1/reports/outshift/global?business_unit_ids=1,x", token, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "business_unit_ids")
	assert.Zero(t, s.outshift.globalCalls)
}

func TestGetWorkingHours(t *testing.T) {
	s := newTestServer(t)
	s.businessUnit.result = businessunit.WorkingHoursResponse{
		BusinessUnitID:  7,
		Name:            "Support",
		HasWorkingHours: true,
		WorkingHours:    json.RawMessage(`{"monday":{"from":"09:00","to":"17:00"}}`),
	}
	token := s.token(t, uuid.New(), user.RoleTechnician)

	rec, env := s.do(t, http.MethodGet, "/api/v1/business-units/7/working-hours", token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 7, s.businessUnit.lastID)

	var got businessunit.WorkingHoursResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Support", got.Name)
	assert.JSONEq(t, `{"monday":{"from":"09:00","to":"17:00"}}`, string(got.WorkingHours))

	rec, _ = s.do(t, http.MethodGet, "/api/v1/business-units/seven/working-hours", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.businessUnit.err = businessunit.ErrBusinessUnitNotFound
	rec, _ = s.do(t, http.MethodGet, "/api/v1/business-units/99/working-hours", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateWorkingHours(t *testing.T) {
	s := newTestServer(t)
	adminID := uuid.New()
	admin := s.token(t, adminID, user.RoleSuperAdmin)
	body := `{"working_hours": {"monday": [{"from": "09:00", "to": "17:00"}]}}`

	rec, env := s.do(t, http.MethodPut, "/api/v1/business-units/3/working-hours", admin, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, env.Success)

	require.Equal(t, 1, s.businessUnit.updates)
	assert.Equal(t, 3, s.businessUnit.lastReq.ID)
	require.NotNil(t, s.businessUnit.lastReq.UpdatedBy)
	assert.Equal(t, adminID, *s.businessUnit.lastReq.UpdatedBy)
	assert.JSONEq(t, `{"monday": [{"from": "09:00", "to": "17:00"}]}`, string(s.businessUnit.lastReq.WorkingHours))
}

func TestUpdateWorkingHours_Rejected(t *testing.T) {
	s := newTestServer(t)
	body := `{"working_hours": null}`

	for _, role := range []user.Role{user.RoleTechnician, user.RoleAuditor} {
		rec, _ := s.do(t, http.MethodPut, "/api/v1/business-units/3/working-hours", s.token(t, uuid.New(), role), body)
		assert.Equal(t, http.StatusForbidden, rec.Code, string(role))
	}

	admin := s.token(t, uuid.New(), user.RoleSuperAdmin)
	rec, _ := s.do(t, http.MethodPut, "/api/v1/business-units/3/working-hours", admin, `{"working_hours":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPut, "/api/v1/business-units/x/working-hours", admin, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Zero(t, s.businessUnit.updates)

	s.businessUnit.err = validator.ValidationErrors{{Field: "working_hours.funday", Message: "invalid day"}}
	rec, env := s.do(t, http.MethodPut, "/api/v1/business-units/3/working-hours", admin, `{"working_hours": {"funday": []}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid day", env.Error.Details["working_hours.funday"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, uuid.New(), user.RoleSuperAdmin)
	rec, _ := s.do(t, http.MethodGet, "/api/v1/reports/outshift/global", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metricsRec := httptest.NewRecorder()
	s.handler.ServeHTTP(metricsRec, req)

	require.Equal(t, http.StatusOK, metricsRec.Code)
	body := metricsRec.Body.String()
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, `route="/api/v1/reports/outshift/global"`)
}
