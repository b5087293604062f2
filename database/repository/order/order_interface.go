package orderRepo

import (
	"context"

	"artisthub/models"
)

// OrderWriter inserts one order. Both the repository and a booking transaction satisfy it.
type OrderWriter interface {
	InsertOrder(ctx context.Context, order *models.Order) error
}

// OrderRepository defines methods for order data access.
// Queries return orders in insertion order.
type OrderRepository interface {
	OrderWriter
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetByCustomer(ctx context.Context, customerID string) ([]models.Order, error)
	GetAll(ctx context.Context) ([]models.Order, error)
}
