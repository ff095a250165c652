package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/venueguard/internal/service"
)

// VenueHandler serves /api/venues and /api/contacts
type VenueHandler struct {
	venues   *service.VenueService
	contacts *service.ContactService
	logger   *slog.Logger
}

func NewVenueHandler(venues *service.VenueService, contacts *service.ContactService, logger *slog.Logger) *VenueHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &VenueHandler{venues: venues, contacts: contacts, logger: logger}
}

type venueResponse struct {
	Message string             `json:"message"`
	Venue   *service.VenueView `json:"venue"`
}

type contactResponse struct {
	Message string               `json:"message"`
	Contact *service.ContactView `json:"contact"`
}

// AttachContactRequest names the contact to add to a venue
type AttachContactRequest struct {
	Contact string `json:"contact"`
}

func (h *VenueHandler) List(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	views, err := h.venues.List(r.Context(), a)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *VenueHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	view, err := h.venues.Get(r.Context(), a, r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *VenueHandler) Create(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in service.CreateVenueInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	view, err := h.venues.Create(r.Context(), a, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, venueResponse{Message: "Venue created successfully", Venue: view})
}

func (h *VenueHandler) Update(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in service.UpdateVenueInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	view, err := h.venues.Update(r.Context(), a, r.PathValue("id"), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, venueResponse{Message: "Venue updated successfully", Venue: view})
}

// AttachContact handles POST /api/venues/{id}/contacts
func (h *VenueHandler) AttachContact(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req AttachContactRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	view, err := h.venues.AttachContact(r.Context(), a, r.PathValue("id"), req.Contact)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, venueResponse{Message: "Contact added to venue", Venue: view})
}

// Delete handles DELETE /api/venues/{id}. Incidents at the venue are kept.
func (h *VenueHandler) Delete(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	if err := h.venues.Delete(r.Context(), a, r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Venue deleted successfully"})
}

func (h *VenueHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	views, err := h.contacts.List(r.Context(), a)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *VenueHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	view, err := h.contacts.Get(r.Context(), a, r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *VenueHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in service.CreateContactInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	view, err := h.contacts.Create(r.Context(), a, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, contactResponse{Message: "Contact created successfully", Contact: view})
}

func (h *VenueHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in service.UpdateContactInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	view, err := h.contacts.Update(r.Context(), a, r.PathValue("id"), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, contactResponse{Message: "Contact updated successfully", Contact: view})
}

func (h *VenueHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	if err := h.contacts.Delete(r.Context(), a, r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Contact deleted successfully"})
}
