package memoryRepo

import (
	"context"
	"fmt"

	"artisthub/database/repository"
	"artisthub/models"
)

// UserRepo implements userRepo.UserRepository over a Store.
type UserRepo struct {
	s *Store
}

func (r *UserRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.userEmail[user.Email]; ok {
		return fmt.Errorf("user with email %s: %w", user.Email, repository.ErrDuplicate)
	}
	if _, ok := r.s.users[user.ID]; ok {
		return fmt.Errorf("user with id %s: %w", user.ID, repository.ErrDuplicate)
	}
	cp := *user
	r.s.users[cp.ID] = &cp
	r.s.userEmail[cp.Email] = cp.ID
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("user with id %s: %w", id, repository.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	id, ok := r.s.userEmail[email]
	r.s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("user with email %s: %w", email, repository.ErrNotFound)
	}
	return r.GetByID(ctx, id)
}
