package domain

import (
	"context"
	"time"
)

// Venue is a site where incidents happen
type Venue struct {
	ID        string
	Name      string
	Address   string
	Contacts  []string // contact ids, ordered
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Contact is a person reachable at a venue
type Contact struct {
	ID        string
	FirstName string
	LastName  string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VenueRepository defines data access for venues
type VenueRepository interface {
	Create(ctx context.Context, venue *Venue) error
	GetByID(ctx context.Context, id string) (*Venue, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Venue, error)
	Update(ctx context.Context, venue *Venue) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Venue, error)
	Count(ctx context.Context) (int, error)
}

// ContactRepository defines data access for contacts
type ContactRepository interface {
	Create(ctx context.Context, contact *Contact) error
	GetByID(ctx context.Context, id string) (*Contact, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Contact, error)
	Update(ctx context.Context, contact *Contact) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Contact, error)
}
