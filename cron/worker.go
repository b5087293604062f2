package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"artisthub/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NewReminderWorker builds the async worker that delivers order reminders.
func NewReminderWorker(redisOpts asynq.RedisClientOpt, logger *zap.Logger) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeOrderReminder, HandleOrderReminder(logger))
	return srv, mux
}

// RunReminderWorker starts srv, retrying with backoff, and shuts it down when ctx ends.
func RunReminderWorker(ctx context.Context, srv *asynq.Server, mux *asynq.ServeMux, logger *zap.Logger) {
	const maxAttempts = 5

	go func() {
		for attempts := 1; ; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				logger.Info("Reminder worker started")
				break
			}
			logger.Warn("Reminder worker failed to start", zap.Int("attempt", attempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("Reminder worker gave up; reminders will queue until restart")
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempts*2) * time.Second):
			}
		}

		<-ctx.Done()
		srv.Shutdown()
	}()
}

// HandleOrderReminder delivers a reminder to the artist and the customer of a booked slot.
func HandleOrderReminder(logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.OrderReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid reminder payload", zap.Error(err))
			return fmt.Errorf("invalid reminder payload: %v: %w", err, asynq.SkipRetry)
		}
		if p.OrderID == "" {
			return fmt.Errorf("reminder payload has no order id: %w", asynq.SkipRetry)
		}

		for _, recipient := range []struct{ role, id string }{{"customer", p.CustomerID}, {"artist", p.ArtistID}} {
			logger.Info("Booking reminder",
				zap.String("recipient", recipient.role),
				zap.String("recipientId", recipient.id),
				zap.String("orderId", p.OrderID),
				zap.String("date", p.Date),
				zap.String("startTime", p.StartTime),
				zap.String("endTime", p.EndTime),
				zap.String("location", p.Location),
			)
		}
		return nil
	}
}
