package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"artisthub/database/repository"
	"artisthub/models"
	"artisthub/services/availability"
	"artisthub/utils"

	"go.uber.org/zap"
)

// UpdateSlots replaces the artist's offered slots with slots.
// Slots that are already booked are rejected; bookings themselves are left alone.
// The write is version-checked so a booking committed in between is never overwritten.
func (s *DefaultProviderService) UpdateSlots(ctx context.Context, id string, slots []models.Slot) (*models.Provider, error) {
	normalized, err := availability.Dedupe(slots)
	if err != nil {
		return nil, utils.NewAppError(utils.CodeValidation, "", err)
	}

	var lastErr error
	for attempt := 1; attempt <= DefaultMaxSlotUpdateAttempts; attempt++ {
		p, err := s.Repo.GetByID(ctx, id)
		if err != nil {
			return nil, translate(err)
		}

		booked := p.BookedSlots()
		var clashes []string
		for _, slot := range normalized {
			if availability.IsBooked(slot, booked) {
				clashes = append(clashes, slot.Key())
			}
		}
		if len(clashes) > 0 {
			return nil, utils.ValidationError("slots already booked: " + strings.Join(clashes, ", "))
		}

		err = s.Repo.ReplaceOfferedSlots(ctx, id, p.Version, normalized)
		if err == nil {
			s.Cache.Invalidate(ctx, id)
			p.OfferedSlots = normalized
			p.Version++
			s.Logger.Info("Artist availability replaced", zap.String("artistId", id), zap.Int("slots", len(normalized)))
			return p, nil
		}
		if !errors.Is(err, repository.ErrWriteConflict) {
			return nil, translate(err)
		}
		lastErr = err
		s.Logger.Warn("Availability update conflict, retrying", zap.String("artistId", id), zap.Int("attempt", attempt))
	}
	return nil, utils.PersistenceError(fmt.Errorf("availability update conflict persisted: %w", lastErr))
}

// GetAvailability returns the artist's offered slots, served from cache when possible.
func (s *DefaultProviderService) GetAvailability(ctx context.Context, id string) ([]models.Slot, error) {
	if slots, ok := s.Cache.Get(ctx, id); ok {
		return slots, nil
	}
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	slots := p.OfferedSlots
	if slots == nil {
		slots = []models.Slot{}
	}
	s.Cache.Set(ctx, id, slots)
	return slots, nil
}

// CheckAvailability reports whether slot could be booked right now. It always reads the store.
func (s *DefaultProviderService) CheckAvailability(ctx context.Context, id string, slot models.Slot) (*models.CheckAvailabilityResponse, error) {
	normalized, err := availability.NormalizeSlot(slot)
	if err != nil {
		return nil, utils.NewAppError(utils.CodeValidation, "", err)
	}
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}

	booked := p.BookedSlots()
	switch {
	case availability.IsRequestSatisfiable(normalized, p.OfferedSlots, booked):
		return &models.CheckAvailabilityResponse{Available: true}, nil
	case availability.IsBooked(normalized, booked):
		return &models.CheckAvailabilityResponse{Available: false, Reason: utils.CodeSlotAlreadyBooked}, nil
	default:
		return &models.CheckAvailabilityResponse{Available: false, Reason: utils.CodeSlotUnavailable}, nil
	}
}

func (s *DefaultProviderService) GetBookings(ctx context.Context, id string) ([]models.Booking, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if p.Bookings == nil {
		return []models.Booking{}, nil
	}
	return p.Bookings, nil
}
