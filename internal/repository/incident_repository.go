package repository

import (
	"context"
	"log/slog"

	"github.com/lib/pq"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
)

const incidentColumns = `id, date, description, venue, submitted_by, created_at, updated_at`

// PostgresIncidentRepository implements domain.IncidentRepository using PostgreSQL
type PostgresIncidentRepository struct {
	base
}

// NewPostgresIncidentRepository creates a new incident repository
func NewPostgresIncidentRepository(db DBTX, logger *slog.Logger) *PostgresIncidentRepository {
	return &PostgresIncidentRepository{base: newBase(db, logger)}
}

func (r *PostgresIncidentRepository) Create(ctx context.Context, incident *domain.Incident) error {
	stamp(&incident.ID, &incident.CreatedAt, &incident.UpdatedAt)

	query := `
		INSERT INTO incidents (id, date, description, venue, submitted_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		incident.ID,
		incident.Date,
		incident.Description,
		incident.VenueID,
		incident.SubmittedBy,
		incident.CreatedAt,
		incident.UpdatedAt,
	)
	if err != nil {
		if isInvalidText(err) {
			return domain.InvalidInput("venue and submittedBy must be valid ids")
		}
		return r.fail("create incident", err, slog.String("venue", incident.VenueID))
	}
	return nil
}

func (r *PostgresIncidentRepository) GetByID(ctx context.Context, id string) (*domain.Incident, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+incidentColumns+` FROM incidents WHERE id = $1`, id)
	incident, err := scanIncident(row)
	if err != nil {
		return nil, r.missing(err, "get incident", "incident", id)
	}
	return incident, nil
}

func (r *PostgresIncidentRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Incident, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+incidentColumns+` FROM incidents WHERE id = ANY($1::uuid[])`, pq.Array(ids))
	if err != nil {
		return nil, r.fail("get incidents", err)
	}
	return collect(rows, scanIncident, r.base, "get incidents")
}

func (r *PostgresIncidentRepository) Update(ctx context.Context, incident *domain.Incident) error {
	query := `
		UPDATE incidents
		SET date = $1, description = $2, venue = $3, updated_at = now()
		WHERE id = $4
		RETURNING submitted_by, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		incident.Date, incident.Description, incident.VenueID, incident.ID,
	).Scan(&incident.SubmittedBy, &incident.CreatedAt, &incident.UpdatedAt)
	if err != nil {
		return r.missing(err, "update incident", "incident", incident.ID)
	}
	return nil
}

func (r *PostgresIncidentRepository) Delete(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "incidents", "incident", id)
}

func (r *PostgresIncidentRepository) List(ctx context.Context, filter domain.IncidentFilter) ([]*domain.Incident, error) {
	w := incidentWhere(filter)
	query := `SELECT ` + incidentColumns + ` FROM incidents` + w.String() + orderBy(filter.Order) + limitClause(filter.Limit)

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, r.fail("list incidents", err)
	}
	return collect(rows, scanIncident, r.base, "list incidents")
}

func (r *PostgresIncidentRepository) Count(ctx context.Context, filter domain.IncidentFilter) (int, error) {
	w := incidentWhere(filter)
	return r.count(ctx, "count incidents", `SELECT COUNT(*) FROM incidents`+w.String(), w.args...)
}

func incidentWhere(f domain.IncidentFilter) *where {
	w := &where{}
	if f.Scoped {
		w.add("venue = ANY(?::uuid[])", pq.Array(nonNil(f.VenueIDs)))
	}
	if f.From != nil {
		w.add("date >= ?", *f.From)
	}
	if f.To != nil {
		w.add("date <= ?", *f.To)
	}
	return w
}

func scanIncident(s scanner) (*domain.Incident, error) {
	var i domain.Incident
	err := s.Scan(&i.ID, &i.Date, &i.Description, &i.VenueID, &i.SubmittedBy, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}
