package repository

import (
	"context"
	"log/slog"

	"github.com/lib/pq"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
)

const warningColumns = `id, date, offender, incidents, submitted_by, created_at, updated_at`

// PostgresWarningRepository implements domain.WarningRepository using PostgreSQL
type PostgresWarningRepository struct {
	base
}

// NewPostgresWarningRepository creates a new warning repository
func NewPostgresWarningRepository(db DBTX, logger *slog.Logger) *PostgresWarningRepository {
	return &PostgresWarningRepository{base: newBase(db, logger)}
}

func (r *PostgresWarningRepository) Create(ctx context.Context, warning *domain.Warning) error {
	stamp(&warning.ID, &warning.CreatedAt, &warning.UpdatedAt)

	query := `
		INSERT INTO warnings (id, date, offender, incidents, submitted_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		warning.ID,
		warning.Date,
		warning.OffenderID,
		pq.Array(nonNil(warning.Incidents)),
		warning.SubmittedBy,
		warning.CreatedAt,
		warning.UpdatedAt,
	)
	if err != nil {
		if isInvalidText(err) {
			return domain.InvalidInput("offender and incidents must be valid ids")
		}
		return r.fail("create warning", err, slog.String("offender", warning.OffenderID))
	}
	return nil
}

func (r *PostgresWarningRepository) GetByID(ctx context.Context, id string) (*domain.Warning, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+warningColumns+` FROM warnings WHERE id = $1`, id)
	warning, err := scanWarning(row)
	if err != nil {
		return nil, r.missing(err, "get warning", "warning", id)
	}
	return warning, nil
}

func (r *PostgresWarningRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Warning, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+warningColumns+` FROM warnings WHERE id = ANY($1::uuid[])`, pq.Array(ids))
	if err != nil {
		return nil, r.fail("get warnings", err)
	}
	return collect(rows, scanWarning, r.base, "get warnings")
}

func (r *PostgresWarningRepository) Update(ctx context.Context, warning *domain.Warning) error {
	query := `
		UPDATE warnings
		SET date = $1, offender = $2, incidents = $3, updated_at = now()
		WHERE id = $4
		RETURNING submitted_by, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		warning.Date, warning.OffenderID, pq.Array(nonNil(warning.Incidents)), warning.ID,
	).Scan(&warning.SubmittedBy, &warning.CreatedAt, &warning.UpdatedAt)
	if err != nil {
		return r.missing(err, "update warning", "warning", warning.ID)
	}
	return nil
}

func (r *PostgresWarningRepository) Delete(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "warnings", "warning", id)
}

func (r *PostgresWarningRepository) List(ctx context.Context, filter domain.WarningFilter) ([]*domain.Warning, error) {
	w := warningWhere(filter)
	query := `SELECT ` + warningColumns + ` FROM warnings` + w.String() + orderBy(filter.Order) + limitClause(filter.Limit)

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, r.fail("list warnings", err)
	}
	return collect(rows, scanWarning, r.base, "list warnings")
}

func (r *PostgresWarningRepository) Count(ctx context.Context, filter domain.WarningFilter) (int, error) {
	w := warningWhere(filter)
	return r.count(ctx, "count warnings", `SELECT COUNT(*) FROM warnings`+w.String(), w.args...)
}

// PullIncident removes incidentID from the incident set of every warning
func (r *PostgresWarningRepository) PullIncident(ctx context.Context, incidentID string) (int64, error) {
	query := `
		UPDATE warnings
		SET incidents = array_remove(incidents, $1::uuid), updated_at = now()
		WHERE $1::uuid = ANY(incidents)
	`
	result, err := r.db.ExecContext(ctx, query, incidentID)
	if err != nil {
		return 0, r.fail("pull incident from warnings", err, slog.String("incident", incidentID))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, r.fail("check rows affected", err)
	}
	return n, nil
}

func warningWhere(f domain.WarningFilter) *where {
	w := &where{}
	if f.Scoped {
		w.add("incidents && ?::uuid[]", pq.Array(nonNil(f.IncidentIDs)))
	}
	if f.OffenderID != "" {
		w.add("offender = ?", f.OffenderID)
	}
	return w
}

func scanWarning(s scanner) (*domain.Warning, error) {
	var w domain.Warning
	err := s.Scan(&w.ID, &w.Date, &w.OffenderID, pq.Array(&w.Incidents), &w.SubmittedBy, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
