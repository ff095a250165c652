package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/lib/pq"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
)

const offenderColumns = `id, first_name, last_name, date_of_birth, created_at, updated_at`

// PostgresOffenderRepository implements domain.OffenderRepository using PostgreSQL
type PostgresOffenderRepository struct {
	base
}

// NewPostgresOffenderRepository creates a new offender repository
func NewPostgresOffenderRepository(db DBTX, logger *slog.Logger) *PostgresOffenderRepository {
	return &PostgresOffenderRepository{base: newBase(db, logger)}
}

func (r *PostgresOffenderRepository) Create(ctx context.Context, offender *domain.Offender) error {
	stamp(&offender.ID, &offender.CreatedAt, &offender.UpdatedAt)

	query := `
		INSERT INTO offenders (id, first_name, last_name, date_of_birth, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		offender.ID, offender.FirstName, offender.LastName, nullTime(offender), offender.CreatedAt, offender.UpdatedAt)
	if err != nil {
		return r.fail("create offender", err)
	}
	return nil
}

func (r *PostgresOffenderRepository) GetByID(ctx context.Context, id string) (*domain.Offender, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+offenderColumns+` FROM offenders WHERE id = $1`, id)
	offender, err := scanOffender(row)
	if err != nil {
		return nil, r.missing(err, "get offender", "offender", id)
	}
	return offender, nil
}

func (r *PostgresOffenderRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Offender, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+offenderColumns+` FROM offenders WHERE id = ANY($1::uuid[])`, pq.Array(ids))
	if err != nil {
		return nil, r.fail("get offenders", err)
	}
	return collect(rows, scanOffender, r.base, "get offenders")
}

func (r *PostgresOffenderRepository) Update(ctx context.Context, offender *domain.Offender) error {
	query := `
		UPDATE offenders
		SET first_name = $1, last_name = $2, date_of_birth = $3, updated_at = now()
		WHERE id = $4
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		offender.FirstName, offender.LastName, nullTime(offender), offender.ID,
	).Scan(&offender.CreatedAt, &offender.UpdatedAt)
	if err != nil {
		return r.missing(err, "update offender", "offender", offender.ID)
	}
	return nil
}

func (r *PostgresOffenderRepository) Delete(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "offenders", "offender", id)
}

func (r *PostgresOffenderRepository) List(ctx context.Context) ([]*domain.Offender, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+offenderColumns+` FROM offenders ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, r.fail("list offenders", err)
	}
	return collect(rows, scanOffender, r.base, "list offenders")
}

func nullTime(o *domain.Offender) sql.NullTime {
	if o.DateOfBirth == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *o.DateOfBirth, Valid: true}
}

func scanOffender(s scanner) (*domain.Offender, error) {
	var (
		o   domain.Offender
		dob sql.NullTime
	)
	if err := s.Scan(&o.ID, &o.FirstName, &o.LastName, &dob, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if dob.Valid {
		t := dob.Time
		o.DateOfBirth = &t
	}
	return &o, nil
}
