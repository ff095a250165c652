package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/venueguard/internal/service"
)

// IncidentHandler serves /api/incidents
type IncidentHandler struct {
	incidents *service.IncidentService
	logger    *slog.Logger
}

func NewIncidentHandler(incidents *service.IncidentService, logger *slog.Logger) *IncidentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &IncidentHandler{incidents: incidents, logger: logger}
}

type incidentResponse struct {
	Message  string                `json:"message"`
	Incident *service.IncidentView `json:"incident"`
}

// List handles GET /api/incidents
func (h *IncidentHandler) List(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	views, err := h.incidents.List(r.Context(), a)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// ForVenue handles GET /api/incidents/venue/{venueId}
func (h *IncidentHandler) ForVenue(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	views, err := h.incidents.ForVenue(r.Context(), a, r.PathValue("venueId"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// Get handles GET /api/incidents/{id}
func (h *IncidentHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	view, err := h.incidents.Get(r.Context(), a, r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Create handles POST /api/incidents. The submitter is always the caller.
func (h *IncidentHandler) Create(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in service.CreateIncidentInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	view, err := h.incidents.Create(r.Context(), a, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, incidentResponse{Message: "Incident created successfully", Incident: view})
}

// Update handles PUT /api/incidents/{id}
func (h *IncidentHandler) Update(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in service.UpdateIncidentInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	view, err := h.incidents.Update(r.Context(), a, r.PathValue("id"), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, incidentResponse{Message: "Incident updated successfully", Incident: view})
}

// Delete handles DELETE /api/incidents/{id}. Warnings citing the incident
// lose the reference.
func (h *IncidentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	if err := h.incidents.Delete(r.Context(), a, r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Incident deleted successfully"})
}
