package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/venueguard/internal/service"
)

// OffenderHandler serves /api/offenders
type OffenderHandler struct {
	offenders *service.OffenderService
	logger    *slog.Logger
}

func NewOffenderHandler(offenders *service.OffenderService, logger *slog.Logger) *OffenderHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OffenderHandler{offenders: offenders, logger: logger}
}

type offenderResponse struct {
	Message  string                `json:"message"`
	Offender *service.OffenderView `json:"offender"`
}

func (h *OffenderHandler) List(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	views, err := h.offenders.List(r.Context(), a)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *OffenderHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	view, err := h.offenders.Get(r.Context(), a, r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *OffenderHandler) Create(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in service.CreateOffenderInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	view, err := h.offenders.Create(r.Context(), a, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, offenderResponse{Message: "Offender created successfully", Offender: view})
}

func (h *OffenderHandler) Update(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in service.UpdateOffenderInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	view, err := h.offenders.Update(r.Context(), a, r.PathValue("id"), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, offenderResponse{Message: "Offender updated successfully", Offender: view})
}

func (h *OffenderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	if err := h.offenders.Delete(r.Context(), a, r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Offender deleted successfully"})
}
