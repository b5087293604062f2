package bookingRepo

import (
	"context"

	"artisthub/models"
)

// Tx is the set of operations a booking unit of work may perform.
// Writes made through a Tx become visible only if the surrounding transaction commits.
type Tx interface {
	// GetProvider reads the artist as seen by this transaction.
	GetProvider(ctx context.Context, id string) (*models.Provider, error)
	// InsertOrder stages a new order.
	InsertOrder(ctx context.Context, order *models.Order) error
	// ReserveSlot moves booking's slot from the artist's offered list to its bookings.
	// It fails with repository.ErrWriteConflict unless the slot is still offered and not yet booked.
	ReserveSlot(ctx context.Context, providerID string, booking models.Booking) error
}

// TransactionRunner executes fn atomically. If fn returns an error nothing it staged is kept.
type TransactionRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
