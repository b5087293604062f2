package order

import (
	"context"
	"errors"
	"testing"
	"time"

	memoryRepo "artisthub/database/repository/memory"
	"artisthub/models"
	"artisthub/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newOrder(id, customer string) *models.Order {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	return &models.Order{
		ID:         id,
		CustomerID: customer,
		ProviderID: "artist-1",
		Date:       "2025-06-01",
		StartTime:  "10:00",
		EndTime:    "12:00",
		Location:   "Hall",
		TotalPrice: 100,
		Status:     models.OrderPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestLedger_PreservesInsertionOrder(t *testing.T) {
	svc, err := NewDefaultOrderService(memoryRepo.NewStore().Orders(), zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	for _, o := range []*models.Order{newOrder("o3", "alice"), newOrder("o1", "bob"), newOrder("o2", "alice")} {
		require.NoError(t, svc.RecordOrder(ctx, o))
	}

	all, err := svc.AllOrders(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"o3", "o1", "o2"}, []string{all[0].ID, all[1].ID, all[2].ID})

	alice, err := svc.OrdersByCustomer(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, alice, 2)
	assert.Equal(t, "o3", alice[0].ID)
	assert.Equal(t, "o2", alice[1].ID)

	none, err := svc.OrdersByCustomer(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, none)

	got, err := svc.GetOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "bob", got.CustomerID)
}

func TestLedger_ReadsDoNotMutate(t *testing.T) {
	svc, err := NewDefaultOrderService(memoryRepo.NewStore().Orders(), zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, svc.RecordOrder(ctx, newOrder("o1", "alice")))

	first, err := svc.AllOrders(ctx)
	require.NoError(t, err)
	first[0].Status = models.OrderCancelled

	second, err := svc.AllOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, second[0].Status)
}

func TestLedger_Errors(t *testing.T) {
	svc, err := NewDefaultOrderService(memoryRepo.NewStore().Orders(), zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.GetOrder(ctx, "missing")
	assert.ErrorIs(t, err, utils.ErrNotFound)

	require.NoError(t, svc.RecordOrder(ctx, newOrder("o1", "alice")))
	assert.ErrorIs(t, svc.RecordOrder(ctx, newOrder("o1", "alice")), utils.ErrConflict)

	bad := newOrder("o2", "alice")
	bad.Status = "Shipped"
	assert.ErrorIs(t, svc.RecordOrder(ctx, bad), utils.ErrValidation)

	_, err = svc.OrdersByCustomer(ctx, "")
	assert.ErrorIs(t, err, utils.ErrValidation)
}

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) InsertOrder(ctx context.Context, o *models.Order) error {
	return m.Called(ctx, o).Error(0)
}

func TestRecordOrderIn_UsesGivenWriter(t *testing.T) {
	store := memoryRepo.NewStore()
	svc, err := NewDefaultOrderService(store.Orders(), zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	w := &mockWriter{}
	o := newOrder("o1", "alice")
	w.On("InsertOrder", ctx, o).Return(nil).Once()
	require.NoError(t, svc.RecordOrderIn(ctx, w, o))
	w.AssertExpectations(t)

	all, err := svc.AllOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	w.On("InsertOrder", ctx, mock.Anything).Return(errors.New("connection reset")).Once()
	assert.ErrorIs(t, svc.RecordOrderIn(ctx, w, newOrder("o2", "alice")), utils.ErrPersistence)
}
