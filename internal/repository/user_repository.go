package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/lib/pq"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
)

const userColumns = `id, username, email, password_hash, role, venues, created_at, updated_at`

// PostgresUserRepository implements domain.UserRepository using PostgreSQL
type PostgresUserRepository struct {
	base
}

// NewPostgresUserRepository creates a new user repository
func NewPostgresUserRepository(db DBTX, logger *slog.Logger) *PostgresUserRepository {
	return &PostgresUserRepository{base: newBase(db, logger)}
}

// Create creates a new user
func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	stamp(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	query := `
		INSERT INTO users (id, username, email, password_hash, role, venues, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		pq.Array(nonNil(user.Venues)),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.InvalidInput("user with that email or username already exists")
		}
		return r.fail("create user", err, slog.String("email", user.Email))
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, r.missing(err, "get user", "user", id)
	}
	return user, nil
}

// GetByIDs retrieves the users that exist among ids
func (r *PostgresUserRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1::uuid[])`, pq.Array(ids))
	if err != nil {
		return nil, r.fail("get users", err)
	}
	return collect(rows, scanUser, r.base, "get users")
}

// GetByEmail retrieves a user by email, ignoring case
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("user not found")
		}
		return nil, r.fail("get user by email", err)
	}
	return user, nil
}

// Update replaces a user's mutable fields
func (r *PostgresUserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET username = $1, email = $2, password_hash = $3, role = $4, venues = $5, updated_at = now()
		WHERE id = $6
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		pq.Array(nonNil(user.Venues)),
		user.ID,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.InvalidInput("user with that email or username already exists")
		}
		return r.missing(err, "update user", "user", user.ID)
	}

	return nil
}

// Delete removes a user
func (r *PostgresUserRepository) Delete(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "users", "user", id)
}

// List returns every user in creation order
func (r *PostgresUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, r.fail("list users", err)
	}
	return collect(rows, scanUser, r.base, "list users")
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*domain.User, error) {
	var (
		user domain.User
		role string
	)
	err := s.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&role,
		pq.Array(&user.Venues),
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Role = domain.Role(role)
	return &user, nil
}

// collect drains rows through scan and closes them
func collect[T any](rows *sql.Rows, scan func(scanner) (*T, error), b base, op string) ([]*T, error) {
	defer rows.Close()

	var out []*T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, b.fail(op, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, b.fail(op, err)
	}
	return out, nil
}
