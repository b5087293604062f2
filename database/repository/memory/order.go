package memoryRepo

import (
	"context"
	"fmt"

	"artisthub/database/repository"
	"artisthub/models"
)

// OrderRepo implements orderRepo.OrderRepository over a Store.
type OrderRepo struct {
	s *Store
}

func (r *OrderRepo) InsertOrder(_ context.Context, order *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.appendOrderLocked(order)
}

func (s *Store) appendOrderLocked(order *models.Order) error {
	if _, ok := s.orderIndex[order.ID]; ok {
		return fmt.Errorf("order %s: %w", order.ID, repository.ErrDuplicate)
	}
	stored := cloneOrder(order)
	s.orders = append(s.orders, stored)
	s.orderIndex[stored.ID] = stored
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.orderIndex[id]
	if !ok {
		return nil, fmt.Errorf("order with id %s: %w", id, repository.ErrNotFound)
	}
	return cloneOrder(o), nil
}

func (r *OrderRepo) GetByCustomer(_ context.Context, customerID string) ([]models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.Order{}
	for _, o := range r.s.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *OrderRepo) GetAll(_ context.Context) ([]models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.Order, 0, len(r.s.orders))
	for _, o := range r.s.orders {
		out = append(out, *o)
	}
	return out, nil
}
