package cron

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"artisthub/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestHandleOrderReminder_NotifiesBothParties(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := HandleOrderReminder(zap.New(core))

	b, err := json.Marshal(tasks.OrderReminderPayload{
		OrderID: "order-1", CustomerID: "customer-1", ArtistID: "artist-1",
		Date: "2025-06-01", StartTime: "10:00", EndTime: "12:00", Location: "Main Hall",
	})
	require.NoError(t, err)

	require.NoError(t, handler(context.Background(), asynq.NewTask(tasks.TypeOrderReminder, b)))

	entries := logs.FilterMessage("Booking reminder").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "customer-1", entries[0].ContextMap()["recipientId"])
	assert.Equal(t, "artist-1", entries[1].ContextMap()["recipientId"])
}

func TestHandleOrderReminder_BadPayloadSkipsRetry(t *testing.T) {
	handler := HandleOrderReminder(zap.NewNop())

	err := handler(context.Background(), asynq.NewTask(tasks.TypeOrderReminder, []byte("{")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	err = handler(context.Background(), asynq.NewTask(tasks.TypeOrderReminder, []byte("{}")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
