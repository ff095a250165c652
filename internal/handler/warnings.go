package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/venueguard/internal/service"
)

// WarningHandler serves /api/warnings
type WarningHandler struct {
	warnings *service.WarningService
	logger   *slog.Logger
}

func NewWarningHandler(warnings *service.WarningService, logger *slog.Logger) *WarningHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WarningHandler{warnings: warnings, logger: logger}
}

type warningResponse struct {
	Message string               `json:"message"`
	Warning *service.WarningView `json:"warning"`
}

func (h *WarningHandler) List(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	views, err := h.warnings.List(r.Context(), a)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// ForOffender handles GET /api/warnings/offender/{offenderId}
func (h *WarningHandler) ForOffender(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	views, err := h.warnings.ForOffender(r.Context(), a, r.PathValue("offenderId"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *WarningHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	view, err := h.warnings.Get(r.Context(), a, r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *WarningHandler) Create(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in service.CreateWarningInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	view, err := h.warnings.Create(r.Context(), a, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, warningResponse{Message: "Warning created successfully", Warning: view})
}

func (h *WarningHandler) Update(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in service.UpdateWarningInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	view, err := h.warnings.Update(r.Context(), a, r.PathValue("id"), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, warningResponse{Message: "Warning updated successfully", Warning: view})
}

func (h *WarningHandler) Delete(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	if err := h.warnings.Delete(r.Context(), a, r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Warning deleted successfully"})
}
