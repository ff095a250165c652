package memory

import (
	"context"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
)

type venueRepo struct{ s *session }

func (r *venueRepo) Create(ctx context.Context, venue *domain.Venue) error {
	r.s.lock()
	defer r.s.unlock()
	r.s.stamp(&venue.ID, &venue.CreatedAt, &venue.UpdatedAt)
	r.s.data.venues.put(venue.ID, copyVenue(venue))
	return nil
}

func (r *venueRepo) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	r.s.rlock()
	defer r.s.runlock()
	v, ok := r.s.data.venues.rows[id]
	if !ok {
		return nil, domain.NotFound("venue %s not found", id)
	}
	return copyVenue(v), nil
}

func (r *venueRepo) GetByIDs(ctx context.Context, ids []string) ([]*domain.Venue, error) {
	r.s.rlock()
	defer r.s.runlock()
	return copyAll(r.s.data.venues.byIDs(ids), copyVenue), nil
}

func (r *venueRepo) Update(ctx context.Context, venue *domain.Venue) error {
	r.s.lock()
	defer r.s.unlock()
	cur, ok := r.s.data.venues.rows[venue.ID]
	if !ok {
		return domain.NotFound("venue %s not found", venue.ID)
	}
	venue.CreatedAt = cur.CreatedAt
	venue.UpdatedAt = r.s.now()
	r.s.data.venues.put(venue.ID, copyVenue(venue))
	return nil
}

func (r *venueRepo) Delete(ctx context.Context, id string) error {
	r.s.lock()
	defer r.s.unlock()
	if !r.s.data.venues.remove(id) {
		return domain.NotFound("venue %s not found", id)
	}
	return nil
}

func (r *venueRepo) List(ctx context.Context) ([]*domain.Venue, error) {
	r.s.rlock()
	defer r.s.runlock()
	return copyAll(r.s.data.venues.all(), copyVenue), nil
}

func (r *venueRepo) Count(ctx context.Context) (int, error) {
	r.s.rlock()
	defer r.s.runlock()
	return len(r.s.data.venues.rows), nil
}

type contactRepo struct{ s *session }

func (r *contactRepo) Create(ctx context.Context, contact *domain.Contact) error {
	r.s.lock()
	defer r.s.unlock()
	r.s.stamp(&contact.ID, &contact.CreatedAt, &contact.UpdatedAt)
	r.s.data.contacts.put(contact.ID, copyContact(contact))
	return nil
}

func (r *contactRepo) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	r.s.rlock()
	defer r.s.runlock()
	c, ok := r.s.data.contacts.rows[id]
	if !ok {
		return nil, domain.NotFound("contact %s not found", id)
	}
	return copyContact(c), nil
}

func (r *contactRepo) GetByIDs(ctx context.Context, ids []string) ([]*domain.Contact, error) {
	r.s.rlock()
	defer r.s.runlock()
	return copyAll(r.s.data.contacts.byIDs(ids), copyContact), nil
}

func (r *contactRepo) Update(ctx context.Context, contact *domain.Contact) error {
	r.s.lock()
	defer r.s.unlock()
	cur, ok := r.s.data.contacts.rows[contact.ID]
	if !ok {
		return domain.NotFound("contact %s not found", contact.ID)
	}
	contact.CreatedAt = cur.CreatedAt
	contact.UpdatedAt = r.s.now()
	r.s.data.contacts.put(contact.ID, copyContact(contact))
	return nil
}

func (r *contactRepo) Delete(ctx context.Context, id string) error {
	r.s.lock()
	defer r.s.unlock()
	if !r.s.data.contacts.remove(id) {
		return domain.NotFound("contact %s not found", id)
	}
	return nil
}

func (r *contactRepo) List(ctx context.Context) ([]*domain.Contact, error) {
	r.s.rlock()
	defer r.s.runlock()
	return copyAll(r.s.data.contacts.all(), copyContact), nil
}
