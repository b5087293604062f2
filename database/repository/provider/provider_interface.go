package providerRepo

import (
	"context"

	"artisthub/models"
)

// ProviderRepository defines methods for artist data access.
type ProviderRepository interface {
	// GetByID retrieves an artist by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	// GetByEmail retrieves an artist by its lower-cased email address.
	GetByEmail(ctx context.Context, email string) (*models.Provider, error)
	// GetAll retrieves all artists.
	GetAll(ctx context.Context) ([]models.Provider, error)
	// Create inserts a new artist record.
	Create(ctx context.Context, provider *models.Provider) error
	// UpdateProfile writes the profile fields of provider. Slot lists and version are left alone.
	UpdateProfile(ctx context.Context, provider *models.Provider) error
	// ReplaceOfferedSlots swaps the offered slot list if the stored version still equals expectedVersion.
	ReplaceOfferedSlots(ctx context.Context, id string, expectedVersion int64, slots []models.Slot) error
	// Delete removes an artist record by its ID.
	Delete(ctx context.Context, id string) error
}
