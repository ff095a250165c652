package domain

import (
	"context"
	"time"
)

// Role is the coarse access level of a user
type Role string

const (
	RoleStaff   Role = "staff"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleStaff, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Actor is the authenticated user performing an operation
type Actor struct {
	ID   string
	Role Role
}

// User represents a system user
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt, never serialized
	Role         Role
	Venues       []string // venue ids, meaningful for staff only
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository defines data access for users
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*User, error)
}
