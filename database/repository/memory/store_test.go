package memoryRepo

import (
	"context"
	"errors"
	"testing"

	"artisthub/database/repository"
	bookingRepo "artisthub/database/repository/booking"
	"artisthub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var slot = models.Slot{Date: "2025-06-01", StartTime: "10:00", EndTime: "12:00"}

func seed(t *testing.T, s *Store) {
	t.Helper()
	require.NoError(t, s.Providers().Create(context.Background(), &models.Provider{
		ID: "p1", Email: "p1@example.com", OfferedSlots: []models.Slot{slot},
	}))
}

func reserve(ctx context.Context, tx bookingRepo.Tx, orderID string) error {
	o := &models.Order{ID: orderID, ProviderID: "p1", Date: slot.Date, StartTime: slot.StartTime, EndTime: slot.EndTime, Status: models.OrderPending}
	if err := tx.InsertOrder(ctx, o); err != nil {
		return err
	}
	return tx.ReserveSlot(ctx, "p1", models.NewBooking(o))
}

func TestWithTransaction_CommitsAllWrites(t *testing.T) {
	s := NewStore()
	seed(t, s)
	ctx := context.Background()

	require.NoError(t, s.WithTransaction(ctx, func(ctx context.Context, tx bookingRepo.Tx) error {
		return reserve(ctx, tx, "o1")
	}))

	p, err := s.Providers().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, p.OfferedSlots)
	require.Len(t, p.Bookings, 1)
	assert.Equal(t, "o1", p.Bookings[0].OrderID)
	assert.EqualValues(t, 1, p.Version)

	o, err := s.Orders().GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "p1", o.ProviderID)
}

func TestWithTransaction_DiscardsOnError(t *testing.T) {
	s := NewStore()
	seed(t, s)
	ctx := context.Background()

	err := s.WithTransaction(ctx, func(ctx context.Context, tx bookingRepo.Tx) error {
		if err := reserve(ctx, tx, "o1"); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	p, err := s.Providers().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []models.Slot{slot}, p.OfferedSlots)
	assert.Empty(t, p.Bookings)
	_, err = s.Orders().GetByID(ctx, "o1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWithTransaction_SecondCommitConflicts(t *testing.T) {
	s := NewStore()
	seed(t, s)
	ctx := context.Background()

	// Both transactions stage their reservation before either commits.
	inner := make(chan error, 1)
	outer := s.WithTransaction(ctx, func(ctx context.Context, tx bookingRepo.Tx) error {
		if err := reserve(ctx, tx, "o1"); err != nil {
			return err
		}
		inner <- s.WithTransaction(ctx, func(ctx context.Context, tx bookingRepo.Tx) error {
			return reserve(ctx, tx, "o2")
		})
		return nil
	})

	require.NoError(t, <-inner)
	assert.ErrorIs(t, outer, repository.ErrWriteConflict)

	p, err := s.Providers().GetByID(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, p.Bookings, 1)
	assert.Equal(t, "o2", p.Bookings[0].OrderID)
	all, err := s.Orders().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "o2", all[0].ID)
}

func TestReserveSlot_RejectsUnofferedSlot(t *testing.T) {
	s := NewStore()
	seed(t, s)

	err := s.WithTransaction(context.Background(), func(ctx context.Context, tx bookingRepo.Tx) error {
		return tx.ReserveSlot(ctx, "p1", models.Booking{OrderID: "o1", Date: "2025-06-02", StartTime: "10:00", EndTime: "12:00"})
	})
	assert.ErrorIs(t, err, repository.ErrWriteConflict)
}

func TestProviderRepo_VersionedReplace(t *testing.T) {
	s := NewStore()
	seed(t, s)
	ctx := context.Background()
	repo := s.Providers()

	other := models.Slot{Date: "2025-06-02", StartTime: "09:00", EndTime: "10:00"}
	require.NoError(t, repo.ReplaceOfferedSlots(ctx, "p1", 0, []models.Slot{other}))
	assert.ErrorIs(t, repo.ReplaceOfferedSlots(ctx, "p1", 0, nil), repository.ErrWriteConflict)
	assert.ErrorIs(t, repo.ReplaceOfferedSlots(ctx, "missing", 0, nil), repository.ErrNotFound)

	p, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []models.Slot{other}, p.OfferedSlots)
	assert.EqualValues(t, 1, p.Version)
}

func TestProviderRepo_EmailUniqueness(t *testing.T) {
	s := NewStore()
	seed(t, s)
	ctx := context.Background()
	repo := s.Providers()

	err := repo.Create(ctx, &models.Provider{ID: "p2", Email: "p1@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	require.NoError(t, repo.Create(ctx, &models.Provider{ID: "p2", Email: "p2@example.com"}))
	err = repo.UpdateProfile(ctx, &models.Provider{ID: "p2", Email: "p1@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	require.NoError(t, repo.UpdateProfile(ctx, &models.Provider{ID: "p2", Email: "new@example.com"}))
	p, err := repo.GetByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "p2", p.ID)
	_, err = repo.GetByEmail(ctx, "p2@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "p1", all[0].ID)
	assert.Equal(t, "p2", all[1].ID)
}

func TestProviderRepo_ReadsAreCopies(t *testing.T) {
	s := NewStore()
	seed(t, s)
	ctx := context.Background()

	p, err := s.Providers().GetByID(ctx, "p1")
	require.NoError(t, err)
	p.OfferedSlots[0].Date = "1999-01-01"

	again, err := s.Providers().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, slot, again.OfferedSlots[0])
}
