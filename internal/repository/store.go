package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore implements domain.Store on PostgreSQL
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
	repos  *domain.Repositories
}

// NewPostgresStore creates a store over an open connection pool
func NewPostgresStore(db *sql.DB, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{
		db:     db,
		logger: logger,
		repos:  newRepositories(db, logger),
	}
}

func newRepositories(db DBTX, logger *slog.Logger) *domain.Repositories {
	return &domain.Repositories{
		Users:     NewPostgresUserRepository(db, logger),
		Venues:    NewPostgresVenueRepository(db, logger),
		Contacts:  NewPostgresContactRepository(db, logger),
		Offenders: NewPostgresOffenderRepository(db, logger),
		Incidents: NewPostgresIncidentRepository(db, logger),
		Warnings:  NewPostgresWarningRepository(db, logger),
		Bans:      NewPostgresBanRepository(db, logger),
	}
}

func (s *PostgresStore) Repos() *domain.Repositories { return s.repos }

// RunInTx runs fn inside a database transaction
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(ctx context.Context, repos *domain.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", slog.String("error", err.Error()))
		return domain.StoreFailure("failed to begin transaction", err)
	}

	if err := fn(ctx, newRepositories(tx, s.logger)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("failed to roll back transaction", slog.String("error", rbErr.Error()))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", slog.String("error", err.Error()))
		return domain.StoreFailure("failed to commit transaction", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type base struct {
	db     DBTX
	logger *slog.Logger
}

func newBase(db DBTX, logger *slog.Logger) base {
	if logger == nil {
		logger = slog.Default()
	}
	return base{db: db, logger: logger}
}

// fail logs a failed query and wraps it as a store failure
func (b base) fail(op string, err error, attrs ...any) error {
	b.logger.Error("failed to "+op, append(attrs, slog.String("error", err.Error()))...)
	return domain.StoreFailure("failed to "+op, err)
}

// missing maps "no rows" and malformed ids to not-found, anything else to a store failure
func (b base) missing(err error, op, kind, id string) error {
	if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
		return domain.NotFound("%s %s not found", kind, id)
	}
	return b.fail(op, err, slog.String("id", id))
}

// deleteByID removes one row and reports not-found when nothing matched
func (b base) deleteByID(ctx context.Context, table, kind, id string) error {
	result, err := b.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
	if err != nil {
		return b.missing(err, "delete "+kind, kind, id)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return b.fail("check rows affected", err)
	}

	if rows == 0 {
		return domain.NotFound("%s %s not found", kind, id)
	}

	return nil
}

func (b base) count(ctx context.Context, op, query string, args ...any) (int, error) {
	var n int
	if err := b.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, b.fail(op, err)
	}
	return n, nil
}

func isInvalidText(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "22P02"
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// stamp fills in the id and timestamps of a new record
func stamp(id *string, created, updated *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	if created.IsZero() {
		*created = time.Now().UTC()
	}
	*updated = *created
}

// nonNil keeps empty id sets from being written as NULL
func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

// where accumulates numbered SQL conditions
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func orderBy(order domain.SortOrder) string {
	switch order {
	case domain.SortDateAsc:
		return " ORDER BY date ASC, created_at ASC, id ASC"
	case domain.SortDateDesc:
		return " ORDER BY date DESC, created_at ASC, id ASC"
	default:
		return " ORDER BY created_at ASC, id ASC"
	}
}

func limitClause(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", n)
}
