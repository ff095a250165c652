package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
	"github.com/aryan0dhankhar/venueguard/internal/infrastructure/events"
	"github.com/aryan0dhankhar/venueguard/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/venueguard/internal/repository"
	"github.com/aryan0dhankhar/venueguard/internal/repository/memory"
	"github.com/aryan0dhankhar/venueguard/internal/security/auth"
	"github.com/aryan0dhankhar/venueguard/internal/security/middleware"
	"github.com/aryan0dhankhar/venueguard/internal/service"
)

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

type testServer struct {
	t       *testing.T
	handler http.Handler
	store   *memory.Store
	tokens  *auth.TokenManager

	admin, manager, staff *domain.User
	downtown, beachside   *domain.Venue
	incident              *domain.Incident
	warning               *domain.Warning
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	log := logger.New(io.Discard, "error")

	s := &testServer{
		t:      t,
		store:  memory.NewStore(),
		tokens: auth.NewTokenManager("handler-secret", "venueguard"),
	}
	repos := s.store.Repos()

	s.downtown = &domain.Venue{Name: "Downtown Club", Address: "123 Main St"}
	s.beachside = &domain.Venue{Name: "Beachside Bar", Address: "456 Ocean Ave"}
	require.NoError(t, repos.Venues.Create(ctx, s.downtown))
	require.NoError(t, repos.Venues.Create(ctx, s.beachside))

	s.admin = s.user("admin", domain.RoleAdmin, nil)
	s.manager = s.user("manager", domain.RoleManager, nil)
	s.staff = s.user("staff", domain.RoleStaff, []string{s.downtown.ID})

	offender := &domain.Offender{FirstName: "John", LastName: "Doe"}
	require.NoError(t, repos.Offenders.Create(ctx, offender))

	s.incident = &domain.Incident{
		Date:        time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC),
		Description: "Verbal altercation at the bar",
		VenueID:     s.downtown.ID,
		SubmittedBy: s.staff.ID,
	}
	require.NoError(t, repos.Incidents.Create(ctx, s.incident))

	s.warning = &domain.Warning{
		Date:        time.Date(2024, time.May, 11, 0, 0, 0, 0, time.UTC),
		OffenderID:  offender.ID,
		Incidents:   []string{s.incident.ID},
		SubmittedBy: s.staff.ID,
	}
	require.NoError(t, repos.Warnings.Create(ctx, s.warning))

	svc := service.New(service.Dependencies{
		Store:      s.store,
		Events:     events.NoopPublisher{},
		StatsCache: repository.NewMemoryStatsCache(time.Minute),
		Tokens:     s.tokens,
		TokenTTL:   time.Hour,
		Logger:     log,
	})

	mux := http.NewServeMux()
	health := NewHealthHandler(map[string]Pinger{"store": s.store, "redis": nil}, log)
	Register(mux, svc, health, log)
	s.handler = middleware.JWTMiddleware(s.tokens, log)(mux)
	return s
}

func (s *testServer) user(name string, role domain.Role, venues []string) *domain.User {
	s.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(name+"password"), bcrypt.MinCost)
	require.NoError(s.t, err)
	u := &domain.User{Username: name, Email: name + "@example.com", PasswordHash: string(hash), Role: role, Venues: venues}
	require.NoError(s.t, s.store.Repos().Users.Create(context.Background(), u))
	return u
}

// do sends a request as u, or anonymously when u is nil
func (s *testServer) do(u *domain.User, method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if u != nil {
		token, err := s.tokens.GenerateToken(u.ID, u.Role, u.Email, time.Hour)
		require.NoError(s.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dst))
}

func TestCreateIncidentIgnoresSubmittedBy(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(s.staff, http.MethodPost, "/api/incidents", map[string]any{
		"date":        "2024-07-01",
		"description": "Fight near the entrance",
		"venue":       s.downtown.ID,
		"submittedBy": s.admin.ID,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		Message  string               `json:"message"`
		Incident service.IncidentView `json:"incident"`
	}
	decodeBody(t, rr, &resp)
	assert.Equal(t, "Incident created successfully", resp.Message)
	require.NotNil(t, resp.Incident.SubmittedBy)
	assert.Equal(t, s.staff.ID, resp.Incident.SubmittedBy.ID)
	assert.Equal(t, "staff", resp.Incident.SubmittedBy.Username)
	require.NotNil(t, resp.Incident.Venue)
	assert.Equal(t, "Downtown Club", resp.Incident.Venue.Name)
}

func TestCreateIncidentRejectsBadInput(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(s.staff, http.MethodPost, "/api/incidents", map[string]any{"description": "no date", "venue": s.downtown.ID})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_INPUT")

	rr = s.do(s.staff, http.MethodPost, "/api/incidents", map[string]any{"date": "yesterday", "description": "x", "venue": s.downtown.ID})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(nil, http.MethodGet, "/api/incidents", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestStaffSeeOnlyTheirVenues(t *testing.T) {
	s := newTestServer(t)
	other := &domain.Incident{Date: time.Now().Add(-time.Hour), Description: "Elsewhere", VenueID: s.beachside.ID, SubmittedBy: s.manager.ID}
	require.NoError(t, s.store.Repos().Incidents.Create(context.Background(), other))

	rr := s.do(s.staff, http.MethodGet, "/api/incidents", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var views []service.IncidentView
	decodeBody(t, rr, &views)
	require.Len(t, views, 1)
	assert.Equal(t, s.incident.ID, views[0].ID)

	rr = s.do(s.staff, http.MethodGet, "/api/incidents/"+other.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "NOT_FOUND")

	rr = s.do(s.admin, http.MethodGet, "/api/incidents", nil)
	decodeBody(t, rr, &views)
	assert.Len(t, views, 2)
}

func TestDeleteIncidentCascadesIntoWarnings(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(s.staff, http.MethodDelete, "/api/incidents/"+s.incident.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "Incident deleted successfully")

	w, err := s.store.Repos().Warnings.GetByID(context.Background(), s.warning.ID)
	require.NoError(t, err)
	assert.Empty(t, w.Incidents)

	rr = s.do(s.staff, http.MethodDelete, "/api/incidents/"+s.incident.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReportPermissionsAndValidation(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(s.staff, http.MethodPost, "/api/reports/incidents", ReportRequest{StartDate: "2024-05-01", EndDate: "2024-05-31"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "FORBIDDEN")

	rr = s.do(s.manager, http.MethodPost, "/api/reports/incidents", ReportRequest{StartDate: "2024-05-01"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(s.manager, http.MethodPost, "/api/reports/incidents", ReportRequest{StartDate: "2024-05-01", EndDate: "2024-05-31"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var report service.IncidentReport
	decodeBody(t, rr, &report)
	assert.Equal(t, 1, report.TotalIncidents)
	require.Len(t, report.Incidents, 1)
	assert.Equal(t, "Downtown Club", report.Incidents[0].Venue)
	assert.Equal(t, "staff", report.Incidents[0].SubmittedBy)
}

func TestPermissionCheckedBeforeBody(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(s.staff, http.MethodPost, "/api/reports/incidents", "{not an object")
	assert.Equal(t, http.StatusForbidden, rr.Code, rr.Body.String())

	rr = s.do(s.staff, http.MethodPost, "/api/venues", "{not an object")
	assert.Equal(t, http.StatusForbidden, rr.Code, rr.Body.String())

	rr = s.do(s.manager, http.MethodPut, "/api/contacts/"+s.downtown.ID, "{not an object")
	assert.Equal(t, http.StatusForbidden, rr.Code, rr.Body.String())

	rr = s.do(s.manager, http.MethodPost, "/api/reports/incidents", "{not an object")
	assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
}

func TestLoginEndpoint(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(nil, http.MethodPost, "/api/auth/login", LoginRequest{Email: "manager@example.com", Password: "managerpassword"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var result service.LoginResult
	decodeBody(t, rr, &result)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, domain.RoleManager, result.User.Role)

	rr = s.do(nil, http.MethodPost, "/api/auth/login", LoginRequest{Email: "manager@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(s.manager, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "manager@example.com")
	assert.NotContains(t, rr.Body.String(), "PasswordHash")
}

func TestVenueRoundTripAndDelete(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(s.manager, http.MethodPost, "/api/venues", map[string]any{"name": "Harbor Lounge", "address": "1 Pier Rd"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created struct {
		Venue service.VenueView `json:"venue"`
	}
	decodeBody(t, rr, &created)

	rr = s.do(s.staff, http.MethodGet, "/api/venues/"+created.Venue.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var got service.VenueView
	decodeBody(t, rr, &got)
	assert.Equal(t, "Harbor Lounge", got.Name)

	rr = s.do(s.manager, http.MethodDelete, "/api/venues/"+s.downtown.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(s.admin, http.MethodGet, "/api/incidents/"+s.incident.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var incident service.IncidentView
	decodeBody(t, rr, &incident)
	assert.Nil(t, incident.Venue)
}

func TestDashboardEndpoints(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(s.staff, http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var stats domain.DashboardStats
	decodeBody(t, rr, &stats)
	assert.Equal(t, domain.DashboardStats{TotalIncidents: 1, TotalWarnings: 1, TotalBans: 0, TotalVenues: 1}, stats)

	rr = s.do(s.manager, http.MethodGet, "/api/dashboard/recent/warnings", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var warnings []service.WarningView
	decodeBody(t, rr, &warnings)
	require.Len(t, warnings, 1)
	assert.Equal(t, "Doe", warnings[0].Offender.LastName)
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(nil, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(nil, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var ready ReadinessResponse
	decodeBody(t, rr, &ready)
	assert.Equal(t, "ok", ready.Checks["store"])
	assert.Equal(t, "not configured", ready.Checks["redis"])

	h := NewHealthHandler(map[string]Pinger{"redis": failingPinger{}}, nil)
	rr = httptest.NewRecorder()
	h.Ready(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
