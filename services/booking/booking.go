package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"artisthub/database/repository"
	bookingRepo "artisthub/database/repository/booking"
	"artisthub/models"
	"artisthub/services/availability"
	"artisthub/services/order"
	"artisthub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxAttempts bounds how often a conflicting reservation is re-run.
const DefaultMaxAttempts = 3

// PlaceOrderRequest asks to book one slot of an artist for a customer.
type PlaceOrderRequest struct {
	CustomerID string
	ProviderID string
	Slot       models.Slot
	Location   string
	TotalPrice float64
}

// BookingService reserves artist slots for customer orders.
type BookingService interface {
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*models.Order, error)
}

// CacheInvalidator drops cached availability for an artist.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, providerID string)
}

// ReminderScheduler queues a reminder for a placed order.
type ReminderScheduler interface {
	ScheduleOrderReminder(ctx context.Context, order *models.Order) error
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Tx          bookingRepo.TransactionRunner
	Orders      order.OrderService
	Cache       CacheInvalidator
	MaxAttempts int
	Logger      *zap.Logger

	// Reminders is optional; nil disables reminders.
	Reminders ReminderScheduler

	now func() time.Time
}

func NewDefaultBookingService(
	tx bookingRepo.TransactionRunner,
	orders order.OrderService,
	cache CacheInvalidator,
	maxAttempts int,
	logger *zap.Logger,
) (*DefaultBookingService, error) {
	if tx == nil || orders == nil {
		return nil, fmt.Errorf("booking service initialization error: one or more dependencies are nil")
	}
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if cache == nil {
		cache = utils.NoopAvailabilityCache{}
	}
	if logger == nil {
		logger = utils.GetLogger()
	}
	return &DefaultBookingService{
		Tx:          tx,
		Orders:      orders,
		Cache:       cache,
		MaxAttempts: maxAttempts,
		Logger:      logger,
		now:         time.Now,
	}, nil
}

// PlaceOrder validates req, then in one transaction checks the slot, records a Pending order
// and moves the slot from the artist's offered list to its bookings.
//
// When two requests race for the same slot the loser's conditional write fails and the
// whole unit is re-run; the re-run reads the winner's booking and returns ErrSlotAlreadyBooked.
// If conflicts persist past MaxAttempts the result is ErrPersistence. A failed call leaves
// neither an order nor a booking behind.
func (s *DefaultBookingService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*models.Order, error) {
	slot, err := validate(req)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= s.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, utils.PersistenceError(err)
		}

		placed, err := s.attempt(ctx, req, slot)
		if err == nil {
			s.Cache.Invalidate(ctx, req.ProviderID)
			if s.Reminders != nil {
				if err := s.Reminders.ScheduleOrderReminder(ctx, placed); err != nil {
					s.Logger.Warn("Failed to schedule order reminder", zap.String("orderId", placed.ID), zap.Error(err))
				}
			}
			s.Logger.Info("Order placed",
				zap.String("orderId", placed.ID),
				zap.String("artistId", placed.ProviderID),
				zap.String("customerId", placed.CustomerID),
				zap.String("slot", slot.Key()),
				zap.Int("attempt", attempt),
			)
			return placed, nil
		}
		if !errors.Is(err, repository.ErrWriteConflict) {
			return nil, classify(err)
		}

		lastErr = err
		s.Logger.Warn("Booking conflict, retrying",
			zap.String("artistId", req.ProviderID),
			zap.String("slot", slot.Key()),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}

	s.Logger.Error("Booking retries exhausted",
		zap.String("artistId", req.ProviderID),
		zap.String("slot", slot.Key()),
		zap.Int("attempts", s.MaxAttempts),
		zap.Error(lastErr),
	)
	return nil, utils.PersistenceError(fmt.Errorf("booking conflict persisted after %d attempts: %w", s.MaxAttempts, lastErr))
}

func (s *DefaultBookingService) attempt(ctx context.Context, req PlaceOrderRequest, slot models.Slot) (*models.Order, error) {
	var placed *models.Order
	err := s.Tx.WithTransaction(ctx, func(ctx context.Context, tx bookingRepo.Tx) error {
		provider, err := tx.GetProvider(ctx, req.ProviderID)
		if err != nil {
			return err
		}

		booked := provider.BookedSlots()
		if availability.IsBooked(slot, booked) {
			return utils.ErrSlotAlreadyBooked
		}
		if !availability.IsRequestSatisfiable(slot, provider.OfferedSlots, booked) {
			return utils.ErrSlotUnavailable
		}

		now := s.now().UTC()
		o := &models.Order{
			ID:         uuid.New().String(),
			CustomerID: req.CustomerID,
			ProviderID: provider.ID,
			Date:       slot.Date,
			StartTime:  slot.StartTime,
			EndTime:    slot.EndTime,
			Location:   req.Location,
			TotalPrice: req.TotalPrice,
			Status:     models.OrderPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.Orders.RecordOrderIn(ctx, tx, o); err != nil {
			return err
		}
		if err := tx.ReserveSlot(ctx, provider.ID, models.NewBooking(o)); err != nil {
			return err
		}
		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

func validate(req PlaceOrderRequest) (models.Slot, error) {
	var missing []string
	if strings.TrimSpace(req.CustomerID) == "" {
		missing = append(missing, "customerId")
	}
	if strings.TrimSpace(req.ProviderID) == "" {
		missing = append(missing, "artistId")
	}
	if strings.TrimSpace(req.Slot.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(req.Slot.StartTime) == "" {
		missing = append(missing, "startTime")
	}
	if strings.TrimSpace(req.Slot.EndTime) == "" {
		missing = append(missing, "endTime")
	}
	if strings.TrimSpace(req.Location) == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return models.Slot{}, utils.ValidationError("missing required fields: " + strings.Join(missing, ", "))
	}
	if req.TotalPrice < 0 {
		return models.Slot{}, utils.ValidationError("totalPrice must be >= 0")
	}
	slot, err := availability.NormalizeSlot(req.Slot)
	if err != nil {
		return models.Slot{}, utils.NewAppError(utils.CodeValidation, "", err)
	}
	return slot, nil
}

func classify(err error) error {
	var appErr *utils.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return utils.NotFoundError("Artist not found.", err)
	default:
		return utils.PersistenceError(err)
	}
}
