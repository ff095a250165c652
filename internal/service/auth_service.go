package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
	"github.com/aryan0dhankhar/venueguard/internal/infrastructure/events"
	"github.com/aryan0dhankhar/venueguard/internal/security"
	"github.com/aryan0dhankhar/venueguard/internal/security/auth"
)

// ErrInvalidCredentials is returned by Login for an unknown email or wrong password
var ErrInvalidCredentials = errors.New("invalid credentials")

const minPasswordLength = 8

// UserView is a user without credentials
type UserView struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Venues    []string    `json:"venues"`
	CreatedAt time.Time   `json:"createdAt"`
}

func userView(u *domain.User) UserView {
	venues := u.Venues
	if venues == nil {
		venues = []string{}
	}
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Venues:    venues,
		CreatedAt: u.CreatedAt,
	}
}

// LoginResult represents login response
type LoginResult struct {
	Token     string   `json:"token"`
	TokenType string   `json:"token_type"`
	ExpiresIn int      `json:"expires_in"` // seconds
	User      UserView `json:"user"`
}

// AuthService handles authentication operations
type AuthService struct {
	base
	tokens *auth.TokenManager
	ttl    time.Duration
}

// NewAuthService creates a new authentication service
func NewAuthService(b base, tokens *auth.TokenManager, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &AuthService{base: b, tokens: tokens, ttl: ttl}
}

// Login authenticates a user and returns a JWT token
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.InvalidInput("email and password are required")
	}

	user, err := s.store.Repos().Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Info("login attempt with non-existent email", slog.String("email", email))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login failed with wrong password", slog.String("email", email))
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Role, user.Email, s.ttl)
	if err != nil {
		s.logger.Error("failed to sign token", slog.String("error", err.Error()))
		return nil, domain.StoreFailure("failed to generate token", err)
	}

	s.logger.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return &LoginResult{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(s.ttl.Seconds()),
		User:      userView(user),
	}, nil
}

// Me returns the acting user
func (s *AuthService) Me(ctx context.Context, actor domain.Actor) (*UserView, error) {
	user, err := s.store.Repos().Users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	v := userView(user)
	return &v, nil
}

// ChangePassword changes the acting user's password
func (s *AuthService) ChangePassword(ctx context.Context, actor domain.Actor, oldPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return domain.InvalidInput("new password must be at least %d characters", minPasswordLength)
	}

	users := s.store.Repos().Users
	user, err := users.GetByID(ctx, actor.ID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return domain.InvalidInput("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash new password", slog.String("error", err.Error()))
		return domain.StoreFailure("failed to change password", err)
	}

	user.PasswordHash = string(hash)
	if err := users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("user changed password", slog.String("user_id", actor.ID))
	return nil
}

type CreateUserInput struct {
	Username string      `json:"username" validate:"required,notblank"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=8"`
	Role     domain.Role `json:"role" validate:"required,role"`
	Venues   []string    `json:"venues" validate:"omitempty,dive,uuid"`
}

// UserService manages user accounts and their venue assignments
type UserService struct {
	base
}

func (s *UserService) List(ctx context.Context, actor domain.Actor) ([]UserView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermManageUsers); err != nil {
		return nil, err
	}
	users, err := s.store.Repos().Users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, userView(u))
	}
	return out, nil
}

func (s *UserService) Create(ctx context.Context, actor domain.Actor, in CreateUserInput) (*UserView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermManageUsers); err != nil {
		return nil, err
	}
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	venues, err := s.existingVenues(ctx, in.Venues)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, domain.StoreFailure("failed to create user", err)
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Role:         in.Role,
		Venues:       venues,
	}
	if err := s.store.Repos().Users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user created",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)
	v := userView(user)
	return &v, nil
}

// SetVenues replaces the venue assignments of a user
func (s *UserService) SetVenues(ctx context.Context, actor domain.Actor, userID string, venueIDs []string) (*UserView, error) {
	if err := s.authz.ValidatePermission(actor.Role, security.PermManageUsers); err != nil {
		return nil, err
	}
	if err := s.validate.Validate(struct {
		Venues []string `json:"venues" validate:"dive,uuid"`
	}{venueIDs}); err != nil {
		return nil, err
	}

	users := s.store.Repos().Users
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	venues, err := s.existingVenues(ctx, venueIDs)
	if err != nil {
		return nil, err
	}
	user.Venues = venues
	if err := users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.changes.record(ctx, events.UserVenuesSet, actor, user.ID, 0)
	v := userView(user)
	return &v, nil
}

func (s *UserService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := s.authz.ValidatePermission(actor.Role, security.PermManageUsers); err != nil {
		return err
	}
	if id == actor.ID {
		return domain.InvalidInput("cannot delete your own account")
	}
	return s.store.Repos().Users.Delete(ctx, id)
}

// existingVenues deduplicates ids and rejects any that name no venue
func (s *UserService) existingVenues(ctx context.Context, ids []string) ([]string, error) {
	ids = unique(ids)
	if len(ids) == 0 {
		return []string{}, nil
	}
	venues, err := s.store.Repos().Venues.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	found := make(map[string]bool, len(venues))
	for _, v := range venues {
		found[v.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, domain.NotFound("venue %s not found", id)
		}
	}
	return ids, nil
}
