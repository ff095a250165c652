package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/venueguard/internal/service"
)

// BanHandler serves /api/bans
type BanHandler struct {
	bans   *service.BanService
	logger *slog.Logger
}

func NewBanHandler(bans *service.BanService, logger *slog.Logger) *BanHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BanHandler{bans: bans, logger: logger}
}

type banResponse struct {
	Message string           `json:"message"`
	Ban     *service.BanView `json:"ban"`
}

func (h *BanHandler) List(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	views, err := h.bans.List(r.Context(), a)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// ForOffender handles GET /api/bans/offender/{offenderId}
func (h *BanHandler) ForOffender(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	views, err := h.bans.ForOffender(r.Context(), a, r.PathValue("offenderId"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *BanHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	view, err := h.bans.Get(r.Context(), a, r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *BanHandler) Create(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in service.CreateBanInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	view, err := h.bans.Create(r.Context(), a, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, banResponse{Message: "Ban created successfully", Ban: view})
}

func (h *BanHandler) Update(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in service.UpdateBanInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	view, err := h.bans.Update(r.Context(), a, r.PathValue("id"), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, banResponse{Message: "Ban updated successfully", Ban: view})
}

func (h *BanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	if err := h.bans.Delete(r.Context(), a, r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Ban deleted successfully"})
}
