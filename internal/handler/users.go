package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/venueguard/internal/service"
)

// UserHandler serves /api/users (admin only)
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{users: users, logger: logger}
}

type userResponse struct {
	Message string            `json:"message"`
	User    *service.UserView `json:"user"`
}

// SetVenuesRequest replaces a user's venue assignments
type SetVenuesRequest struct {
	Venues []string `json:"venues"`
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	views, err := h.users.List(r.Context(), a)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in service.CreateUserInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	view, err := h.users.Create(r.Context(), a, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, userResponse{Message: "User created successfully", User: view})
}

// SetVenues handles PUT /api/users/{id}/venues
func (h *UserHandler) SetVenues(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req SetVenuesRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	view, err := h.users.SetVenues(r.Context(), a, r.PathValue("id"), req.Venues)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{Message: "Venues assigned successfully", User: view})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	if err := h.users.Delete(r.Context(), a, r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "User deleted successfully"})
}
