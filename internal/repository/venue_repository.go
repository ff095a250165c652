package repository

import (
	"context"
	"log/slog"

	"github.com/lib/pq"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
)

const venueColumns = `id, name, address, contacts, created_at, updated_at`

// PostgresVenueRepository implements domain.VenueRepository using PostgreSQL
type PostgresVenueRepository struct {
	base
}

// NewPostgresVenueRepository creates a new venue repository
func NewPostgresVenueRepository(db DBTX, logger *slog.Logger) *PostgresVenueRepository {
	return &PostgresVenueRepository{base: newBase(db, logger)}
}

func (r *PostgresVenueRepository) Create(ctx context.Context, venue *domain.Venue) error {
	stamp(&venue.ID, &venue.CreatedAt, &venue.UpdatedAt)

	query := `
		INSERT INTO venues (id, name, address, contacts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		venue.ID, venue.Name, venue.Address, pq.Array(nonNil(venue.Contacts)), venue.CreatedAt, venue.UpdatedAt)
	if err != nil {
		return r.fail("create venue", err, slog.String("name", venue.Name))
	}
	return nil
}

func (r *PostgresVenueRepository) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = $1`, id)
	venue, err := scanVenue(row)
	if err != nil {
		return nil, r.missing(err, "get venue", "venue", id)
	}
	return venue, nil
}

func (r *PostgresVenueRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Venue, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = ANY($1::uuid[])`, pq.Array(ids))
	if err != nil {
		return nil, r.fail("get venues", err)
	}
	return collect(rows, scanVenue, r.base, "get venues")
}

func (r *PostgresVenueRepository) Update(ctx context.Context, venue *domain.Venue) error {
	query := `
		UPDATE venues
		SET name = $1, address = $2, contacts = $3, updated_at = now()
		WHERE id = $4
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		venue.Name, venue.Address, pq.Array(nonNil(venue.Contacts)), venue.ID,
	).Scan(&venue.CreatedAt, &venue.UpdatedAt)
	if err != nil {
		return r.missing(err, "update venue", "venue", venue.ID)
	}
	return nil
}

func (r *PostgresVenueRepository) Delete(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "venues", "venue", id)
}

func (r *PostgresVenueRepository) List(ctx context.Context) ([]*domain.Venue, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+venueColumns+` FROM venues ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, r.fail("list venues", err)
	}
	return collect(rows, scanVenue, r.base, "list venues")
}

func (r *PostgresVenueRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx, "count venues", `SELECT COUNT(*) FROM venues`)
}

func scanVenue(s scanner) (*domain.Venue, error) {
	var venue domain.Venue
	err := s.Scan(&venue.ID, &venue.Name, &venue.Address, pq.Array(&venue.Contacts), &venue.CreatedAt, &venue.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

const contactColumns = `id, first_name, last_name, phone, email, created_at, updated_at`

// PostgresContactRepository implements domain.ContactRepository using PostgreSQL
type PostgresContactRepository struct {
	base
}

// NewPostgresContactRepository creates a new contact repository
func NewPostgresContactRepository(db DBTX, logger *slog.Logger) *PostgresContactRepository {
	return &PostgresContactRepository{base: newBase(db, logger)}
}

func (r *PostgresContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	stamp(&contact.ID, &contact.CreatedAt, &contact.UpdatedAt)

	query := `
		INSERT INTO contacts (id, first_name, last_name, phone, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		contact.ID, contact.FirstName, contact.LastName, contact.Phone, contact.Email, contact.CreatedAt, contact.UpdatedAt)
	if err != nil {
		return r.fail("create contact", err)
	}
	return nil
}

func (r *PostgresContactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
	contact, err := scanContact(row)
	if err != nil {
		return nil, r.missing(err, "get contact", "contact", id)
	}
	return contact, nil
}

func (r *PostgresContactRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Contact, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = ANY($1::uuid[])`, pq.Array(ids))
	if err != nil {
		return nil, r.fail("get contacts", err)
	}
	return collect(rows, scanContact, r.base, "get contacts")
}

func (r *PostgresContactRepository) Update(ctx context.Context, contact *domain.Contact) error {
	query := `
		UPDATE contacts
		SET first_name = $1, last_name = $2, phone = $3, email = $4, updated_at = now()
		WHERE id = $5
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		contact.FirstName, contact.LastName, contact.Phone, contact.Email, contact.ID,
	).Scan(&contact.CreatedAt, &contact.UpdatedAt)
	if err != nil {
		return r.missing(err, "update contact", "contact", contact.ID)
	}
	return nil
}

func (r *PostgresContactRepository) Delete(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "contacts", "contact", id)
}

func (r *PostgresContactRepository) List(ctx context.Context) ([]*domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, r.fail("list contacts", err)
	}
	return collect(rows, scanContact, r.base, "list contacts")
}

func scanContact(s scanner) (*domain.Contact, error) {
	var c domain.Contact
	err := s.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Phone, &c.Email, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
