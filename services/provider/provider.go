package provider

import (
	"context"
	"errors"
	"fmt"

	"artisthub/database/repository"
	providerRepo "artisthub/database/repository/provider"
	"artisthub/models"
	"artisthub/utils"

	"go.uber.org/zap"
)

// DefaultMaxSlotUpdateAttempts bounds retries of a version-checked availability replace.
const DefaultMaxSlotUpdateAttempts = 3

// ProviderService defines the business logic interface for artist operations.
type ProviderService interface {
	GetProviderByID(ctx context.Context, id string) (*models.Provider, error)
	GetAllProviders(ctx context.Context) ([]models.Provider, error)
	CreateProvider(ctx context.Context, req models.CreateProviderRequest) (*models.Provider, error)
	// UpdateProvider changes profile fields. Offered slots and bookings are never touched.
	UpdateProvider(ctx context.Context, id string, update models.ProviderProfileUpdate) (*models.Provider, error)
	// UpdateSlots replaces the offered slot list wholesale.
	UpdateSlots(ctx context.Context, id string, slots []models.Slot) (*models.Provider, error)
	DeleteProvider(ctx context.Context, id string) error
	GetAvailability(ctx context.Context, id string) ([]models.Slot, error)
	CheckAvailability(ctx context.Context, id string, slot models.Slot) (*models.CheckAvailabilityResponse, error)
	GetBookings(ctx context.Context, id string) ([]models.Booking, error)
	// Authenticate verifies an artist's credentials and issues a token.
	Authenticate(ctx context.Context, email, password string) (*models.AuthResponse, error)
}

// AvailabilityCache is a read-through cache of offered slots keyed by artist.
type AvailabilityCache interface {
	Get(ctx context.Context, providerID string) ([]models.Slot, bool)
	Set(ctx context.Context, providerID string, slots []models.Slot)
	Invalidate(ctx context.Context, providerID string)
}

// TokenIssuer signs credentials for authenticated principals.
type TokenIssuer interface {
	GenerateToken(subject, email, role string) (string, error)
}

// DefaultProviderService is the production implementation.
type DefaultProviderService struct {
	Repo   providerRepo.ProviderRepository
	Cache  AvailabilityCache
	Tokens TokenIssuer
	Logger *zap.Logger
}

func NewDefaultProviderService(
	repo providerRepo.ProviderRepository,
	cache AvailabilityCache,
	tokens TokenIssuer,
	logger *zap.Logger,
) (*DefaultProviderService, error) {
	if repo == nil || tokens == nil {
		return nil, fmt.Errorf("provider service initialization error: one or more dependencies are nil")
	}
	if cache == nil {
		cache = utils.NoopAvailabilityCache{}
	}
	if logger == nil {
		logger = utils.GetLogger()
	}
	return &DefaultProviderService{Repo: repo, Cache: cache, Tokens: tokens, Logger: logger}, nil
}

func (s *DefaultProviderService) GetProviderByID(ctx context.Context, id string) (*models.Provider, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

func (s *DefaultProviderService) GetAllProviders(ctx context.Context) ([]models.Provider, error) {
	providers, err := s.Repo.GetAll(ctx)
	if err != nil {
		s.Logger.Error("Failed to list artists", zap.Error(err))
		return nil, translate(err)
	}
	return providers, nil
}

func (s *DefaultProviderService) DeleteProvider(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.Cache.Invalidate(ctx, id)
	s.Logger.Info("Artist deleted", zap.String("artistId", id))
	return nil
}

// translate maps repository failures onto service errors.
func translate(err error) error {
	var appErr *utils.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return utils.NotFoundError("Artist not found.", err)
	case errors.Is(err, repository.ErrDuplicate):
		return utils.NewAppError(utils.CodeConflict, "An artist with this email already exists.", err)
	default:
		return utils.PersistenceError(err)
	}
}
