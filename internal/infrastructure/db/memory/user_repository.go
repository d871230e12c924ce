package memory

import (
	"context"

	"github.com/99minutos/expense-system/internal/core/domain"
)

// UserRepository implements ports.UserRepository on a Store.
type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *user
	stored.ID = r.s.newUserID()
	r.s.users[stored.ID] = &stored
	r.s.userOrder = append(r.s.userOrder, stored.ID)

	out := stored
	return &out, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, id := range r.s.userOrder {
		if u := r.s.users[id]; u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	return r.filter(func(*domain.User) bool { return true }), nil
}

func (r *UserRepository) ListByManager(_ context.Context, managerID string) ([]*domain.User, error) {
	return r.filter(func(u *domain.User) bool { return u.ManagerID == managerID }), nil
}

func (r *UserRepository) Update(_ context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	updated := *u
	patch.Apply(&updated)
	r.s.users[id] = &updated

	out := updated
	return &out, nil
}

func (r *UserRepository) filter(keep func(*domain.User) bool) []*domain.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.User, 0)
	for _, id := range r.s.userOrder {
		if u := r.s.users[id]; keep(u) {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out
}
