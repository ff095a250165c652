package handler

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aryan0dhankhar/venueguard/internal/security"
	"github.com/aryan0dhankhar/venueguard/internal/service"
)

// Register mounts every endpoint on mux
func Register(mux *http.ServeMux, svc *service.Services, health *HealthHandler, logger *slog.Logger) {
	authH := NewAuthHandler(svc.Auth, logger)
	users := NewUserHandler(svc.Users, logger)
	incidents := NewIncidentHandler(svc.Incidents, logger)
	warnings := NewWarningHandler(svc.Warnings, logger)
	bans := NewBanHandler(svc.Bans, logger)
	offenders := NewOffenderHandler(svc.Offenders, logger)
	venues := NewVenueHandler(svc.Venues, svc.Contacts, logger)
	dashboard := NewDashboardHandler(svc.Dashboard, svc.Reports, logger)

	authz := security.NewAuthorizationService(logger)
	gate := func(perm security.Permission, next http.HandlerFunc) http.HandlerFunc {
		return permit(authz, perm, logger, next)
	}

	mux.HandleFunc("POST /api/auth/login", authH.Login)
	mux.HandleFunc("GET /api/auth/me", authH.Me)
	mux.HandleFunc("POST /api/auth/password", authH.ChangePassword)

	mux.HandleFunc("GET /api/users", users.List)
	mux.HandleFunc("POST /api/users", gate(security.PermManageUsers, users.Create))
	mux.HandleFunc("PUT /api/users/{id}/venues", gate(security.PermManageUsers, users.SetVenues))
	mux.HandleFunc("DELETE /api/users/{id}", users.Delete)

	mux.HandleFunc("GET /api/incidents", incidents.List)
	mux.HandleFunc("POST /api/incidents", gate(security.PermManageIncidents, incidents.Create))
	mux.HandleFunc("GET /api/incidents/venue/{venueId}", incidents.ForVenue)
	mux.HandleFunc("GET /api/incidents/{id}", incidents.Get)
	mux.HandleFunc("PUT /api/incidents/{id}", gate(security.PermManageIncidents, incidents.Update))
	mux.HandleFunc("DELETE /api/incidents/{id}", incidents.Delete)

	mux.HandleFunc("GET /api/warnings", warnings.List)
	mux.HandleFunc("POST /api/warnings", gate(security.PermManageWarnings, warnings.Create))
	mux.HandleFunc("GET /api/warnings/offender/{offenderId}", warnings.ForOffender)
	mux.HandleFunc("GET /api/warnings/{id}", warnings.Get)
	mux.HandleFunc("PUT /api/warnings/{id}", gate(security.PermManageWarnings, warnings.Update))
	mux.HandleFunc("DELETE /api/warnings/{id}", warnings.Delete)

	mux.HandleFunc("GET /api/bans", bans.List)
	mux.HandleFunc("POST /api/bans", gate(security.PermManageBans, bans.Create))
	mux.HandleFunc("GET /api/bans/offender/{offenderId}", bans.ForOffender)
	mux.HandleFunc("GET /api/bans/{id}", bans.Get)
	mux.HandleFunc("PUT /api/bans/{id}", gate(security.PermManageBans, bans.Update))
	mux.HandleFunc("DELETE /api/bans/{id}", bans.Delete)

	mux.HandleFunc("GET /api/offenders", offenders.List)
	mux.HandleFunc("POST /api/offenders", gate(security.PermManageOffenders, offenders.Create))
	mux.HandleFunc("GET /api/offenders/{id}", offenders.Get)
	mux.HandleFunc("PUT /api/offenders/{id}", gate(security.PermManageOffenders, offenders.Update))
	mux.HandleFunc("DELETE /api/offenders/{id}", offenders.Delete)

	mux.HandleFunc("GET /api/venues", venues.List)
	mux.HandleFunc("POST /api/venues", gate(security.PermManageVenues, venues.Create))
	mux.HandleFunc("GET /api/venues/{id}", venues.Get)
	mux.HandleFunc("PUT /api/venues/{id}", gate(security.PermManageVenues, venues.Update))
	mux.HandleFunc("DELETE /api/venues/{id}", venues.Delete)
	mux.HandleFunc("POST /api/venues/{id}/contacts", gate(security.PermManageVenues, venues.AttachContact))

	mux.HandleFunc("GET /api/contacts", venues.ListContacts)
	mux.HandleFunc("POST /api/contacts", gate(security.PermManageContacts, venues.CreateContact))
	mux.HandleFunc("GET /api/contacts/{id}", venues.GetContact)
	mux.HandleFunc("PUT /api/contacts/{id}", gate(security.PermManageContacts, venues.UpdateContact))
	mux.HandleFunc("DELETE /api/contacts/{id}", venues.DeleteContact)

	mux.HandleFunc("GET /api/dashboard/recent/incidents", dashboard.RecentIncidents)
	mux.HandleFunc("GET /api/dashboard/recent/warnings", dashboard.RecentWarnings)
	mux.HandleFunc("GET /api/dashboard/recent/bans", dashboard.RecentBans)
	mux.HandleFunc("GET /api/dashboard/stats", dashboard.Stats)
	mux.HandleFunc("POST /api/reports/incidents", gate(security.PermGenerateReports, dashboard.IncidentReport))

	mux.HandleFunc("GET /healthz", health.Health)
	mux.HandleFunc("GET /readyz", health.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())
}
