package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/venueguard/internal/service"
)

// DashboardHandler serves the dashboard views and the incident report
type DashboardHandler struct {
	dashboard *service.DashboardService
	reports   *service.ReportService
	logger    *slog.Logger
}

func NewDashboardHandler(dashboard *service.DashboardService, reports *service.ReportService, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{dashboard: dashboard, reports: reports, logger: logger}
}

// ReportRequest is the body of POST /api/reports/incidents
type ReportRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func (h *DashboardHandler) RecentIncidents(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	views, err := h.dashboard.RecentIncidents(r.Context(), a)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *DashboardHandler) RecentWarnings(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	views, err := h.dashboard.RecentWarnings(r.Context(), a)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *DashboardHandler) RecentBans(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	views, err := h.dashboard.RecentBans(r.Context(), a)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// Stats handles GET /api/dashboard/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	stats, err := h.dashboard.Stats(r.Context(), a)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// IncidentReport handles POST /api/reports/incidents
func (h *DashboardHandler) IncidentReport(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req ReportRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	report, err := h.reports.BuildIncidentReport(r.Context(), a, req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
