package order

import (
	"context"
	"errors"
	"fmt"

	"artisthub/database/repository"
	orderRepo "artisthub/database/repository/order"
	"artisthub/models"
	"artisthub/utils"

	"go.uber.org/zap"
)

// OrderService records orders and answers order queries.
// Orders come back in the order they were recorded; reads never change stored state.
type OrderService interface {
	// RecordOrder stores order directly in the order repository.
	RecordOrder(ctx context.Context, order *models.Order) error
	// RecordOrderIn stores order through w, typically a booking transaction.
	RecordOrderIn(ctx context.Context, w orderRepo.OrderWriter, order *models.Order) error
	OrdersByCustomer(ctx context.Context, customerID string) ([]models.Order, error)
	AllOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
}

// DefaultOrderService is the production implementation.
type DefaultOrderService struct {
	Repo   orderRepo.OrderRepository
	Logger *zap.Logger
}

func NewDefaultOrderService(repo orderRepo.OrderRepository, logger *zap.Logger) (*DefaultOrderService, error) {
	if repo == nil {
		return nil, fmt.Errorf("order service initialization error: repository is nil")
	}
	if logger == nil {
		logger = utils.GetLogger()
	}
	return &DefaultOrderService{Repo: repo, Logger: logger}, nil
}

func (s *DefaultOrderService) RecordOrder(ctx context.Context, order *models.Order) error {
	return s.RecordOrderIn(ctx, s.Repo, order)
}

func (s *DefaultOrderService) RecordOrderIn(ctx context.Context, w orderRepo.OrderWriter, order *models.Order) error {
	if order == nil || order.ID == "" {
		return utils.ValidationError("order id is required")
	}
	if !order.Status.Valid() {
		return utils.ValidationError(fmt.Sprintf("unknown order status %q", order.Status))
	}
	if order.TotalPrice < 0 {
		return utils.ValidationError("totalPrice must be >= 0")
	}
	if err := w.InsertOrder(ctx, order); err != nil {
		return translate(err)
	}
	return nil
}

func (s *DefaultOrderService) OrdersByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	if customerID == "" {
		return nil, utils.ValidationError("customer id is required")
	}
	orders, err := s.Repo.GetByCustomer(ctx, customerID)
	if err != nil {
		s.Logger.Error("Failed to fetch customer orders", zap.String("customerId", customerID), zap.Error(err))
		return nil, translate(err)
	}
	return orders, nil
}

func (s *DefaultOrderService) AllOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.Repo.GetAll(ctx)
	if err != nil {
		s.Logger.Error("Failed to fetch orders", zap.Error(err))
		return nil, translate(err)
	}
	return orders, nil
}

func (s *DefaultOrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	o, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return o, nil
}

// translate maps repository failures onto service errors.
// Conflicts pass through unchanged so the booking transaction can retry them.
func translate(err error) error {
	var appErr *utils.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return utils.NotFoundError("Order not found.", err)
	case errors.Is(err, repository.ErrWriteConflict):
		return err
	case errors.Is(err, repository.ErrDuplicate):
		return utils.NewAppError(utils.CodeConflict, "Order already exists.", err)
	default:
		return utils.PersistenceError(err)
	}
}
