package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"artisthub/models"
	"artisthub/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeOrderReminder = "order:reminder"

// OrderReminderPayload is what the reminder worker receives.
type OrderReminderPayload struct {
	OrderID    string `json:"orderId"`
	CustomerID string `json:"customerId"`
	ArtistID   string `json:"artistId"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Location   string `json:"location"`
}

// SlotStart returns the moment the order's slot begins. Slot times are wall-clock UTC.
func SlotStart(order *models.Order) (time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04", order.Date+" "+order.StartTime, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid slot start for order %s: %w", order.ID, err)
	}
	return start, nil
}

func NewOrderReminderTask(order *models.Order, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(OrderReminderPayload{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		ArtistID:   order.ProviderID,
		Date:       order.Date,
		StartTime:  order.StartTime,
		EndTime:    order.EndTime,
		Location:   order.Location,
	})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeOrderReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID("reminder:" + order.ID),
		asynq.MaxRetry(5),
	}
	return task, opts, nil
}

// Enqueuer is the part of *asynq.Client the scheduler needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ReminderScheduler enqueues one reminder per placed order, Lead before the slot starts.
type ReminderScheduler struct {
	Client Enqueuer
	Lead   time.Duration
	Logger *zap.Logger
	now    func() time.Time
}

func NewReminderScheduler(client Enqueuer, lead time.Duration, logger *zap.Logger) *ReminderScheduler {
	if logger == nil {
		logger = utils.GetLogger()
	}
	return &ReminderScheduler{Client: client, Lead: lead, Logger: logger, now: time.Now}
}

// ScheduleOrderReminder enqueues the reminder for order. Slots that already started are skipped,
// and a reminder that is due already fires immediately.
func (s *ReminderScheduler) ScheduleOrderReminder(ctx context.Context, order *models.Order) error {
	start, err := SlotStart(order)
	if err != nil {
		return err
	}
	now := s.now()
	if !start.After(now) {
		s.Logger.Debug("Slot already started, no reminder", zap.String("orderId", order.ID))
		return nil
	}
	fireAt := start.Add(-s.Lead)
	if fireAt.Before(now) {
		fireAt = now
	}

	task, opts, err := NewOrderReminderTask(order, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("failed to enqueue reminder for order %s: %w", order.ID, err)
	}
	s.Logger.Info("Reminder scheduled", zap.String("orderId", order.ID), zap.Time("fireAt", fireAt))
	return nil
}
