package repository

import (
	"context"
	"log/slog"

	"github.com/lib/pq"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
)

const banColumns = `id, date, offender, warnings, submitted_by, created_at, updated_at`

// PostgresBanRepository implements domain.BanRepository using PostgreSQL
type PostgresBanRepository struct {
	base
}

// NewPostgresBanRepository creates a new ban repository
func NewPostgresBanRepository(db DBTX, logger *slog.Logger) *PostgresBanRepository {
	return &PostgresBanRepository{base: newBase(db, logger)}
}

func (r *PostgresBanRepository) Create(ctx context.Context, ban *domain.Ban) error {
	stamp(&ban.ID, &ban.CreatedAt, &ban.UpdatedAt)

	query := `
		INSERT INTO bans (id, date, offender, warnings, submitted_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		ban.ID,
		ban.Date,
		ban.OffenderID,
		pq.Array(nonNil(ban.Warnings)),
		ban.SubmittedBy,
		ban.CreatedAt,
		ban.UpdatedAt,
	)
	if err != nil {
		if isInvalidText(err) {
			return domain.InvalidInput("offender and warnings must be valid ids")
		}
		return r.fail("create ban", err, slog.String("offender", ban.OffenderID))
	}
	return nil
}

func (r *PostgresBanRepository) GetByID(ctx context.Context, id string) (*domain.Ban, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+banColumns+` FROM bans WHERE id = $1`, id)
	ban, err := scanBan(row)
	if err != nil {
		return nil, r.missing(err, "get ban", "ban", id)
	}
	return ban, nil
}

func (r *PostgresBanRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Ban, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+banColumns+` FROM bans WHERE id = ANY($1::uuid[])`, pq.Array(ids))
	if err != nil {
		return nil, r.fail("get bans", err)
	}
	return collect(rows, scanBan, r.base, "get bans")
}

func (r *PostgresBanRepository) Update(ctx context.Context, ban *domain.Ban) error {
	query := `
		UPDATE bans
		SET date = $1, offender = $2, warnings = $3, updated_at = now()
		WHERE id = $4
		RETURNING submitted_by, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		ban.Date, ban.OffenderID, pq.Array(nonNil(ban.Warnings)), ban.ID,
	).Scan(&ban.SubmittedBy, &ban.CreatedAt, &ban.UpdatedAt)
	if err != nil {
		return r.missing(err, "update ban", "ban", ban.ID)
	}
	return nil
}

func (r *PostgresBanRepository) Delete(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "bans", "ban", id)
}

func (r *PostgresBanRepository) List(ctx context.Context, filter domain.BanFilter) ([]*domain.Ban, error) {
	w := banWhere(filter)
	query := `SELECT ` + banColumns + ` FROM bans` + w.String() + orderBy(filter.Order) + limitClause(filter.Limit)

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, r.fail("list bans", err)
	}
	return collect(rows, scanBan, r.base, "list bans")
}

func (r *PostgresBanRepository) Count(ctx context.Context, filter domain.BanFilter) (int, error) {
	w := banWhere(filter)
	return r.count(ctx, "count bans", `SELECT COUNT(*) FROM bans`+w.String(), w.args...)
}

func banWhere(f domain.BanFilter) *where {
	w := &where{}
	if f.Scoped {
		w.add("warnings && ?::uuid[]", pq.Array(nonNil(f.WarningIDs)))
	}
	if f.OffenderID != "" {
		w.add("offender = ?", f.OffenderID)
	}
	return w
}

func scanBan(s scanner) (*domain.Ban, error) {
	var b domain.Ban
	err := s.Scan(&b.ID, &b.Date, &b.OffenderID, pq.Array(&b.Warnings), &b.SubmittedBy, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
