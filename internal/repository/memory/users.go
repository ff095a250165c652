package memory

import (
	"context"
	"strings"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
)

type userRepo struct{ s *session }

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	r.s.lock()
	defer r.s.unlock()
	for _, u := range r.s.data.users.rows {
		if strings.EqualFold(u.Email, user.Email) || u.Username == user.Username {
			return domain.InvalidInput("user with that email or username already exists")
		}
	}
	r.s.stamp(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	r.s.data.users.put(user.ID, copyUser(user))
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.s.rlock()
	defer r.s.runlock()
	u, ok := r.s.data.users.rows[id]
	if !ok {
		return nil, domain.NotFound("user %s not found", id)
	}
	return copyUser(u), nil
}

func (r *userRepo) GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	r.s.rlock()
	defer r.s.runlock()
	return copyAll(r.s.data.users.byIDs(ids), copyUser), nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.rlock()
	defer r.s.runlock()
	for _, u := range r.s.data.users.all() {
		if strings.EqualFold(u.Email, email) {
			return copyUser(u), nil
		}
	}
	return nil, domain.NotFound("user not found")
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	r.s.lock()
	defer r.s.unlock()
	cur, ok := r.s.data.users.rows[user.ID]
	if !ok {
		return domain.NotFound("user %s not found", user.ID)
	}
	user.CreatedAt = cur.CreatedAt
	user.UpdatedAt = r.s.now()
	r.s.data.users.put(user.ID, copyUser(user))
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	r.s.lock()
	defer r.s.unlock()
	if !r.s.data.users.remove(id) {
		return domain.NotFound("user %s not found", id)
	}
	return nil
}

func (r *userRepo) List(ctx context.Context) ([]*domain.User, error) {
	r.s.rlock()
	defer r.s.runlock()
	return copyAll(r.s.data.users.all(), copyUser), nil
}
