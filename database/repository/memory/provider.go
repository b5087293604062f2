package memoryRepo

import (
	"context"
	"fmt"
	"time"

	"artisthub/database/repository"
	"artisthub/models"
)

// ProviderRepo implements providerRepo.ProviderRepository over a Store.
type ProviderRepo struct {
	s *Store
}

func (r *ProviderRepo) GetByID(_ context.Context, id string) (*models.Provider, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.providers[id]
	if !ok {
		return nil, fmt.Errorf("artist with id %s: %w", id, repository.ErrNotFound)
	}
	return p.Clone(), nil
}

func (r *ProviderRepo) GetByEmail(_ context.Context, email string) (*models.Provider, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.providerEmail[email]
	if !ok {
		return nil, fmt.Errorf("artist with email %s: %w", email, repository.ErrNotFound)
	}
	return r.s.providers[id].Clone(), nil
}

func (r *ProviderRepo) GetAll(_ context.Context) ([]models.Provider, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.Provider, 0, len(r.s.providerOrder))
	for _, id := range r.s.providerOrder {
		out = append(out, *r.s.providers[id].Clone())
	}
	return out, nil
}

func (r *ProviderRepo) Create(_ context.Context, provider *models.Provider) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.providers[provider.ID]; ok {
		return fmt.Errorf("artist with id %s: %w", provider.ID, repository.ErrDuplicate)
	}
	if _, ok := r.s.providerEmail[provider.Email]; ok {
		return fmt.Errorf("artist with email %s: %w", provider.Email, repository.ErrDuplicate)
	}

	stored := provider.Clone()
	if stored.OfferedSlots == nil {
		stored.OfferedSlots = []models.Slot{}
	}
	if stored.Bookings == nil {
		stored.Bookings = []models.Booking{}
	}
	r.s.providers[stored.ID] = stored
	r.s.providerOrder = append(r.s.providerOrder, stored.ID)
	r.s.providerEmail[stored.Email] = stored.ID
	return nil
}

func (r *ProviderRepo) UpdateProfile(_ context.Context, provider *models.Provider) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.providers[provider.ID]
	if !ok {
		return fmt.Errorf("artist with id %s: %w", provider.ID, repository.ErrNotFound)
	}
	if owner, taken := r.s.providerEmail[provider.Email]; taken && owner != provider.ID {
		return fmt.Errorf("artist with email %s: %w", provider.Email, repository.ErrDuplicate)
	}

	delete(r.s.providerEmail, stored.Email)
	r.s.providerEmail[provider.Email] = provider.ID

	stored.Name = provider.Name
	stored.Email = provider.Email
	stored.PasswordHash = provider.PasswordHash
	stored.Category = provider.Category
	stored.PricePerHour = provider.PricePerHour
	stored.Bio = provider.Bio
	stored.ProfilePicture = provider.ProfilePicture
	stored.UpdatedAt = provider.UpdatedAt
	return nil
}

func (r *ProviderRepo) ReplaceOfferedSlots(_ context.Context, id string, expectedVersion int64, slots []models.Slot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.providers[id]
	if !ok {
		return fmt.Errorf("artist with id %s: %w", id, repository.ErrNotFound)
	}
	if stored.Version != expectedVersion {
		return fmt.Errorf("artist %s changed since version %d: %w", id, expectedVersion, repository.ErrWriteConflict)
	}
	stored.OfferedSlots = append([]models.Slot{}, slots...)
	stored.Version++
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ProviderRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.providers[id]
	if !ok {
		return fmt.Errorf("artist with id %s: %w", id, repository.ErrNotFound)
	}
	delete(r.s.providers, id)
	delete(r.s.providerEmail, stored.Email)
	for i, pid := range r.s.providerOrder {
		if pid == id {
			r.s.providerOrder = append(r.s.providerOrder[:i], r.s.providerOrder[i+1:]...)
			break
		}
	}
	return nil
}
