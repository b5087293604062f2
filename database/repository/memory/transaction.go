package memoryRepo

import (
	"context"
	"fmt"
	"time"

	"artisthub/database/repository"
	bookingRepo "artisthub/database/repository/booking"
	"artisthub/models"
)

type reservation struct {
	providerID string
	booking    models.Booking
}

// memoryTx reads committed state and buffers its writes until commit.
type memoryTx struct {
	s            *Store
	orders       []*models.Order
	reservations []reservation
}

// WithTransaction runs fn against a buffered transaction and applies its writes all at once.
// At commit every reservation is checked again against live state, so of two transactions
// racing for one slot exactly one commits and the other gets repository.ErrWriteConflict.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx bookingRepo.Tx) error) error {
	tx := &memoryTx{s: s}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.commit()
}

func (t *memoryTx) GetProvider(_ context.Context, id string) (*models.Provider, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	p, ok := t.s.providers[id]
	if !ok {
		return nil, fmt.Errorf("artist with id %s: %w", id, repository.ErrNotFound)
	}
	return p.Clone(), nil
}

func (t *memoryTx) InsertOrder(_ context.Context, order *models.Order) error {
	for _, o := range t.orders {
		if o.ID == order.ID {
			return fmt.Errorf("order %s: %w", order.ID, repository.ErrDuplicate)
		}
	}
	t.orders = append(t.orders, cloneOrder(order))
	return nil
}

func (t *memoryTx) ReserveSlot(_ context.Context, providerID string, booking models.Booking) error {
	t.s.mu.RLock()
	err := t.checkReservableLocked(providerID, booking.Slot())
	t.s.mu.RUnlock()
	if err != nil {
		return err
	}
	t.reservations = append(t.reservations, reservation{providerID: providerID, booking: booking})
	return nil
}

// checkReservableLocked mirrors the conditional filter of the MongoDB reservation.
func (t *memoryTx) checkReservableLocked(providerID string, slot models.Slot) error {
	p, ok := t.s.providers[providerID]
	if !ok {
		return fmt.Errorf("artist %s: %w", providerID, repository.ErrWriteConflict)
	}
	if indexOfSlot(p.OfferedSlots, slot) < 0 {
		return fmt.Errorf("slot %s for artist %s is no longer offered: %w", slot.Key(), providerID, repository.ErrWriteConflict)
	}
	for _, b := range p.Bookings {
		if b.Slot() == slot {
			return fmt.Errorf("slot %s for artist %s is already booked: %w", slot.Key(), providerID, repository.ErrWriteConflict)
		}
	}
	for _, r := range t.reservations {
		if r.providerID == providerID && r.booking.Slot() == slot {
			return fmt.Errorf("slot %s for artist %s is already reserved: %w", slot.Key(), providerID, repository.ErrWriteConflict)
		}
	}
	return nil
}

func (t *memoryTx) commit() error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	// Validate everything first so a failure leaves the store untouched.
	pending := t.reservations
	t.reservations = nil
	for _, r := range pending {
		if err := t.checkReservableLocked(r.providerID, r.booking.Slot()); err != nil {
			return err
		}
		t.reservations = append(t.reservations, r)
	}
	for _, o := range t.orders {
		if _, ok := t.s.orderIndex[o.ID]; ok {
			return fmt.Errorf("order %s: %w", o.ID, repository.ErrDuplicate)
		}
	}

	now := time.Now().UTC()
	for _, r := range t.reservations {
		p := t.s.providers[r.providerID]
		i := indexOfSlot(p.OfferedSlots, r.booking.Slot())
		p.OfferedSlots = append(p.OfferedSlots[:i:i], p.OfferedSlots[i+1:]...)
		p.Bookings = append(p.Bookings, r.booking)
		p.Version++
		p.UpdatedAt = now
	}
	for _, o := range t.orders {
		// Uniqueness was checked above.
		_ = t.s.appendOrderLocked(o)
	}
	return nil
}

func indexOfSlot(slots []models.Slot, slot models.Slot) int {
	for i, s := range slots {
		if s == slot {
			return i
		}
	}
	return -1
}
