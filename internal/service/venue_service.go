package service

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
	"github.com/aryan0dhankhar/venueguard/internal/infrastructure/events"
	"github.com/aryan0dhankhar/venueguard/internal/observability/metrics"
	"github.com/aryan0dhankhar/venueguard/internal/security"
)

type ContactView struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func contactView(c *domain.Contact) ContactView {
	return ContactView{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Phone:     c.Phone,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// VenueView is a venue with its contacts resolved, in venue order
type VenueView struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Address   string        `json:"address"`
	Contacts  []ContactView `json:"contacts"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type CreateVenueInput struct {
	Name     string   `json:"name" validate:"required,notblank"`
	Address  string   `json:"address"`
	Contacts []string `json:"contacts" validate:"omitempty,dive,uuid"`
}

type UpdateVenueInput struct {
	Name     *string   `json:"name" validate:"omitempty,notblank"`
	Address  *string   `json:"address"`
	Contacts *[]string `json:"contacts" validate:"omitempty,dive,uuid"`
}

func (in UpdateVenueInput) empty() bool {
	return in.Name == nil && in.Address == nil && in.Contacts == nil
}

// VenueService handles venues. Deleting a venue leaves its incidents in place.
type VenueService struct {
	base
}

func (s *VenueService) List(ctx context.Context, actor domain.Actor) ([]VenueView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermViewVenues); err != nil {
		return nil, err
	}
	venues, err := s.store.Repos().Venues.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, venues)
}

func (s *VenueService) Get(ctx context.Context, actor domain.Actor, id string) (*VenueView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermViewVenues); err != nil {
		return nil, err
	}
	venue, err := s.store.Repos().Venues.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.one(ctx, venue)
}

func (s *VenueService) Create(ctx context.Context, actor domain.Actor, in CreateVenueInput) (*VenueView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermManageVenues); err != nil {
		return nil, err
	}
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	venue := &domain.Venue{Name: in.Name, Address: in.Address, Contacts: unique(in.Contacts)}
	if err := s.store.Repos().Venues.Create(ctx, venue); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "venue created", slog.String("venue_id", venue.ID), slog.String("name", venue.Name))
	metrics.ObserveCreated("venue")
	s.changes.record(ctx, events.VenueCreated, actor, venue.ID, 0)

	return s.one(ctx, venue)
}

func (s *VenueService) Update(ctx context.Context, actor domain.Actor, id string, in UpdateVenueInput) (*VenueView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermManageVenues); err != nil {
		return nil, err
	}
	if in.empty() {
		return nil, domain.InvalidInput("no update fields provided")
	}
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	venue, err := repos.Venues.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		venue.Name = *in.Name
	}
	if in.Address != nil {
		venue.Address = *in.Address
	}
	if in.Contacts != nil {
		venue.Contacts = unique(*in.Contacts)
	}
	if err := repos.Venues.Update(ctx, venue); err != nil {
		return nil, err
	}

	s.changes.record(ctx, events.VenueUpdated, actor, venue.ID, 0)
	return s.one(ctx, venue)
}

// AttachContact appends an existing contact to a venue's contact list
func (s *VenueService) AttachContact(ctx context.Context, actor domain.Actor, venueID, contactID string) (*VenueView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermManageVenues); err != nil {
		return nil, err
	}
	if contactID == "" {
		return nil, domain.InvalidInput("contact is required")
	}

	repos := s.store.Repos()
	venue, err := repos.Venues.GetByID(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if _, err := repos.Contacts.GetByID(ctx, contactID); err != nil {
		return nil, err
	}

	if !slices.Contains(venue.Contacts, contactID) {
		venue.Contacts = append(venue.Contacts, contactID)
		if err := repos.Venues.Update(ctx, venue); err != nil {
			return nil, err
		}
	}
	return s.one(ctx, venue)
}

// Delete removes a venue. Incidents referencing it remain and hydrate their venue as null.
func (s *VenueService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := s.authz.ValidatePermission(actor.Role, security.PermManageVenues); err != nil {
		return err
	}
	if err := s.store.Repos().Venues.Delete(ctx, id); err != nil {
		return err
	}

	metrics.ObserveDeleted("venue")
	s.changes.record(ctx, events.VenueDeleted, actor, id, 0)
	return nil
}

func (s *VenueService) one(ctx context.Context, venue *domain.Venue) (*VenueView, error) {
	views, err := s.hydrate(ctx, []*domain.Venue{venue})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *VenueService) hydrate(ctx context.Context, venues []*domain.Venue) ([]VenueView, error) {
	var ids []string
	for _, v := range venues {
		ids = append(ids, v.Contacts...)
	}
	contacts, err := s.store.Repos().Contacts.GetByIDs(ctx, unique(ids))
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Contact, len(contacts))
	for _, c := range contacts {
		byID[c.ID] = c
	}

	out := make([]VenueView, 0, len(venues))
	for _, v := range venues {
		view := VenueView{
			ID:        v.ID,
			Name:      v.Name,
			Address:   v.Address,
			Contacts:  make([]ContactView, 0, len(v.Contacts)),
			CreatedAt: v.CreatedAt,
			UpdatedAt: v.UpdatedAt,
		}
		for _, id := range v.Contacts {
			if c, ok := byID[id]; ok {
				view.Contacts = append(view.Contacts, contactView(c))
			}
		}
		out = append(out, view)
	}
	return out, nil
}

type CreateContactInput struct {
	FirstName string `json:"firstName" validate:"required,notblank"`
	LastName  string `json:"lastName" validate:"required,notblank"`
	Phone     string `json:"phone"`
	Email     string `json:"email" validate:"omitempty,email"`
}

type UpdateContactInput struct {
	FirstName *string `json:"firstName" validate:"omitempty,notblank"`
	LastName  *string `json:"lastName" validate:"omitempty,notblank"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email" validate:"omitempty,email"`
}

func (in UpdateContactInput) empty() bool {
	return in.FirstName == nil && in.LastName == nil && in.Phone == nil && in.Email == nil
}

// ContactService handles venue contacts
type ContactService struct {
	base
}

func (s *ContactService) List(ctx context.Context, actor domain.Actor) ([]ContactView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermViewContacts); err != nil {
		return nil, err
	}
	contacts, err := s.store.Repos().Contacts.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ContactView, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, contactView(c))
	}
	return out, nil
}

func (s *ContactService) Get(ctx context.Context, actor domain.Actor, id string) (*ContactView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermViewContacts); err != nil {
		return nil, err
	}
	contact, err := s.store.Repos().Contacts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := contactView(contact)
	return &v, nil
}

func (s *ContactService) Create(ctx context.Context, actor domain.Actor, in CreateContactInput) (*ContactView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermManageContacts); err != nil {
		return nil, err
	}
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	contact := &domain.Contact{FirstName: in.FirstName, LastName: in.LastName, Phone: in.Phone, Email: in.Email}
	if err := s.store.Repos().Contacts.Create(ctx, contact); err != nil {
		return nil, err
	}
	metrics.ObserveCreated("contact")

	v := contactView(contact)
	return &v, nil
}

func (s *ContactService) Update(ctx context.Context, actor domain.Actor, id string, in UpdateContactInput) (*ContactView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermManageContacts); err != nil {
		return nil, err
	}
	if in.empty() {
		return nil, domain.InvalidInput("no update fields provided")
	}
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	contact, err := repos.Contacts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.FirstName != nil {
		contact.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		contact.LastName = *in.LastName
	}
	if in.Phone != nil {
		contact.Phone = *in.Phone
	}
	if in.Email != nil {
		contact.Email = *in.Email
	}
	if err := repos.Contacts.Update(ctx, contact); err != nil {
		return nil, err
	}

	v := contactView(contact)
	return &v, nil
}

// Delete removes a contact. Venues listing it drop it on their next read.
func (s *ContactService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := s.authz.ValidatePermission(actor.Role, security.PermManageContacts); err != nil {
		return err
	}
	if err := s.store.Repos().Contacts.Delete(ctx, id); err != nil {
		return err
	}
	metrics.ObserveDeleted("contact")
	return nil
}
