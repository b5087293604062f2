package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"artisthub/database/repository"
	bookingRepo "artisthub/database/repository/booking"
	memoryRepo "artisthub/database/repository/memory"
	"artisthub/models"
	"artisthub/services/order"
	"artisthub/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const artistID = "artist-1"

var (
	juneFirst  = models.Slot{Date: "2025-06-01", StartTime: "10:00", EndTime: "12:00"}
	juneSecond = models.Slot{Date: "2025-06-02", StartTime: "10:00", EndTime: "12:00"}
)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Invalidate(ctx context.Context, providerID string) {
	m.Called(ctx, providerID)
}

type fixture struct {
	store   *memoryRepo.Store
	orders  *order.DefaultOrderService
	cache   *mockCache
	service *DefaultBookingService
}

func newFixture(t *testing.T, runner func(*memoryRepo.Store) bookingRepo.TransactionRunner, offered ...models.Slot) *fixture {
	t.Helper()
	store := memoryRepo.NewStore()
	require.NoError(t, store.Providers().Create(context.Background(), &models.Provider{
		ID:           artistID,
		Name:         "Nina",
		Email:        "nina@example.com",
		Category:     "Singer",
		PricePerHour: 50,
		OfferedSlots: offered,
	}))

	orders, err := order.NewDefaultOrderService(store.Orders(), zap.NewNop())
	require.NoError(t, err)

	var tx bookingRepo.TransactionRunner = store
	if runner != nil {
		tx = runner(store)
	}
	cache := &mockCache{}
	cache.On("Invalidate", mock.Anything, artistID).Return()

	svc, err := NewDefaultBookingService(tx, orders, cache, DefaultMaxAttempts, zap.NewNop())
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC) }

	return &fixture{store: store, orders: orders, cache: cache, service: svc}
}

func (f *fixture) provider(t *testing.T) *models.Provider {
	t.Helper()
	p, err := f.store.Providers().GetByID(context.Background(), artistID)
	require.NoError(t, err)
	return p
}

func (f *fixture) allOrders(t *testing.T) []models.Order {
	t.Helper()
	orders, err := f.orders.AllOrders(context.Background())
	require.NoError(t, err)
	return orders
}

func request(slot models.Slot) PlaceOrderRequest {
	return PlaceOrderRequest{
		CustomerID: "customer-1",
		ProviderID: artistID,
		Slot:       slot,
		Location:   "Main Hall",
		TotalPrice: 100,
	}
}

func TestPlaceOrder_BooksOfferedSlot(t *testing.T) {
	f := newFixture(t, nil, juneFirst)

	placed, err := f.service.PlaceOrder(context.Background(), request(juneFirst))
	require.NoError(t, err)

	assert.NotEmpty(t, placed.ID)
	assert.Equal(t, models.OrderPending, placed.Status)
	assert.Equal(t, juneFirst, placed.Slot())
	assert.Equal(t, 100.0, placed.TotalPrice)

	p := f.provider(t)
	assert.Empty(t, p.OfferedSlots)
	require.Len(t, p.Bookings, 1)
	assert.Equal(t, placed.ID, p.Bookings[0].OrderID)
	assert.Equal(t, models.OrderPending, p.Bookings[0].Status)
	assert.Equal(t, "Main Hall", p.Bookings[0].Location)

	orders := f.allOrders(t)
	require.Len(t, orders, 1)
	assert.Equal(t, *placed, orders[0])

	f.cache.AssertCalled(t, "Invalidate", mock.Anything, artistID)
}

func TestPlaceOrder_RepeatedRequestIsAlreadyBooked(t *testing.T) {
	f := newFixture(t, nil, juneFirst)

	_, err := f.service.PlaceOrder(context.Background(), request(juneFirst))
	require.NoError(t, err)

	_, err = f.service.PlaceOrder(context.Background(), request(juneFirst))
	assert.ErrorIs(t, err, utils.ErrSlotAlreadyBooked)
	assert.Len(t, f.allOrders(t), 1)
	assert.Len(t, f.provider(t).Bookings, 1)
}

func TestPlaceOrder_SlotNotOffered(t *testing.T) {
	f := newFixture(t, nil, juneFirst)

	_, err := f.service.PlaceOrder(context.Background(), request(juneSecond))
	assert.ErrorIs(t, err, utils.ErrSlotUnavailable)

	p := f.provider(t)
	assert.Equal(t, []models.Slot{juneFirst}, p.OfferedSlots)
	assert.Empty(t, p.Bookings)
	assert.Empty(t, f.allOrders(t))
	f.cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestPlaceOrder_PartialOverlapIsUnavailable(t *testing.T) {
	f := newFixture(t, nil, models.Slot{Date: "2025-06-01", StartTime: "10:00", EndTime: "11:00"})

	_, err := f.service.PlaceOrder(context.Background(), request(juneFirst))
	assert.ErrorIs(t, err, utils.ErrSlotUnavailable)
}

func TestPlaceOrder_NormalizesRequestedSlot(t *testing.T) {
	f := newFixture(t, nil, juneFirst)

	placed, err := f.service.PlaceOrder(context.Background(), request(models.Slot{
		Date:      "2025-06-01T00:00:00.000Z",
		StartTime: "10:00:00",
		EndTime:   "12:00",
	}))
	require.NoError(t, err)
	assert.Equal(t, juneFirst, placed.Slot())
}

func TestPlaceOrder_UnknownArtist(t *testing.T) {
	f := newFixture(t, nil, juneFirst)

	req := request(juneFirst)
	req.ProviderID = "nobody"
	_, err := f.service.PlaceOrder(context.Background(), req)
	assert.ErrorIs(t, err, utils.ErrNotFound)
	assert.Empty(t, f.allOrders(t))
}

func TestPlaceOrder_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *PlaceOrderRequest)
	}{
		{"missing customer", func(r *PlaceOrderRequest) { r.CustomerID = "" }},
		{"missing artist", func(r *PlaceOrderRequest) { r.ProviderID = " " }},
		{"missing date", func(r *PlaceOrderRequest) { r.Slot.Date = "" }},
		{"missing start", func(r *PlaceOrderRequest) { r.Slot.StartTime = "" }},
		{"missing end", func(r *PlaceOrderRequest) { r.Slot.EndTime = "" }},
		{"missing location", func(r *PlaceOrderRequest) { r.Location = "" }},
		{"negative price", func(r *PlaceOrderRequest) { r.TotalPrice = -1 }},
		{"bad date", func(r *PlaceOrderRequest) { r.Slot.Date = "June 1st" }},
		{"end before start", func(r *PlaceOrderRequest) { r.Slot.StartTime, r.Slot.EndTime = "12:00", "10:00" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil, juneFirst)
			req := request(juneFirst)
			tt.mutate(&req)

			_, err := f.service.PlaceOrder(context.Background(), req)
			assert.ErrorIs(t, err, utils.ErrValidation)
			assert.Equal(t, []models.Slot{juneFirst}, f.provider(t).OfferedSlots)
			assert.Empty(t, f.allOrders(t))
		})
	}
}

func TestPlaceOrder_ZeroPriceIsAllowed(t *testing.T) {
	f := newFixture(t, nil, juneFirst)

	req := request(juneFirst)
	req.TotalPrice = 0
	_, err := f.service.PlaceOrder(context.Background(), req)
	assert.NoError(t, err)
}

// wrappingRunner lets a test intercept every Tx handed out by the store.
type wrappingRunner struct {
	store *memoryRepo.Store
	wrap  func(tx bookingRepo.Tx) bookingRepo.Tx
	runs  atomic.Int64
}

func (r *wrappingRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx bookingRepo.Tx) error) error {
	r.runs.Add(1)
	return r.store.WithTransaction(ctx, func(ctx context.Context, tx bookingRepo.Tx) error {
		return fn(ctx, r.wrap(tx))
	})
}

type failingTx struct {
	bookingRepo.Tx
	reserveErr error
}

func (t failingTx) ReserveSlot(context.Context, string, models.Booking) error {
	return t.reserveErr
}

func TestPlaceOrder_FailureLeavesStateUnchanged(t *testing.T) {
	runner := &wrappingRunner{wrap: func(tx bookingRepo.Tx) bookingRepo.Tx {
		return failingTx{Tx: tx, reserveErr: errors.New("storage unavailable")}
	}}
	f := newFixture(t, func(s *memoryRepo.Store) bookingRepo.TransactionRunner {
		runner.store = s
		return runner
	}, juneFirst, juneSecond)
	before := f.provider(t)

	_, err := f.service.PlaceOrder(context.Background(), request(juneFirst))
	assert.ErrorIs(t, err, utils.ErrPersistence)

	assert.Equal(t, before, f.provider(t))
	assert.Empty(t, f.allOrders(t))
	assert.EqualValues(t, 1, runner.runs.Load())
}

func TestPlaceOrder_ExhaustedConflictsArePersistenceFailures(t *testing.T) {
	runner := &wrappingRunner{wrap: func(tx bookingRepo.Tx) bookingRepo.Tx {
		return failingTx{Tx: tx, reserveErr: fmt.Errorf("lost race: %w", repository.ErrWriteConflict)}
	}}
	f := newFixture(t, func(s *memoryRepo.Store) bookingRepo.TransactionRunner {
		runner.store = s
		return runner
	}, juneFirst)
	before := f.provider(t)

	_, err := f.service.PlaceOrder(context.Background(), request(juneFirst))
	assert.ErrorIs(t, err, utils.ErrPersistence)
	assert.EqualValues(t, DefaultMaxAttempts, runner.runs.Load())
	assert.Equal(t, before, f.provider(t))
	assert.Empty(t, f.allOrders(t))
}

// barrierTx holds the first n readers until all of them have read the artist,
// so every one of them sees the slot as free and the race is decided at commit.
type barrierTx struct {
	bookingRepo.Tx
	n       int64
	arrived *atomic.Int64
	release chan struct{}
}

func (t barrierTx) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	p, err := t.Tx.GetProvider(ctx, id)
	if n := t.arrived.Add(1); n <= t.n {
		if n == t.n {
			close(t.release)
		}
		<-t.release
	}
	return p, err
}

func runConcurrently(t *testing.T, f *fixture, n int) (successes int, failures []error) {
	t.Helper()
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ctx = context.Background()
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := request(juneFirst)
			req.CustomerID = fmt.Sprintf("customer-%d", i)
			_, err := f.service.PlaceOrder(ctx, req)

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			failures = append(failures, err)
		}(i)
	}
	wg.Wait()
	return successes, failures
}

func TestPlaceOrder_ConcurrentRequestsBookOnce(t *testing.T) {
	for _, n := range []int{2, 8} {
		t.Run(fmt.Sprintf("%d requests", n), func(t *testing.T) {
			arrived := &atomic.Int64{}
			release := make(chan struct{})
			runner := &wrappingRunner{wrap: func(tx bookingRepo.Tx) bookingRepo.Tx {
				return barrierTx{Tx: tx, n: int64(n), arrived: arrived, release: release}
			}}
			f := newFixture(t, func(s *memoryRepo.Store) bookingRepo.TransactionRunner {
				runner.store = s
				return runner
			}, juneFirst)

			successes, failures := runConcurrently(t, f, n)

			assert.Equal(t, 1, successes)
			require.Len(t, failures, n-1)
			for _, err := range failures {
				assert.True(t,
					errors.Is(err, utils.ErrSlotAlreadyBooked) || errors.Is(err, utils.ErrSlotUnavailable),
					"unexpected error: %v", err)
			}

			p := f.provider(t)
			assert.Len(t, p.Bookings, 1)
			assert.Empty(t, p.OfferedSlots)
			assert.Len(t, f.allOrders(t), 1)
		})
	}
}

func TestPlaceOrder_ConcurrentWithoutBarrier(t *testing.T) {
	f := newFixture(t, nil, juneFirst)

	successes, failures := runConcurrently(t, f, 16)

	assert.Equal(t, 1, successes)
	assert.Len(t, failures, 15)
	assert.Len(t, f.provider(t).Bookings, 1)
	assert.Len(t, f.allOrders(t), 1)
}

func TestNewDefaultBookingService_RequiresDependencies(t *testing.T) {
	_, err := NewDefaultBookingService(nil, nil, nil, 0, zap.NewNop())
	assert.Error(t, err)

	store := memoryRepo.NewStore()
	orders, err := order.NewDefaultOrderService(store.Orders(), zap.NewNop())
	require.NoError(t, err)
	svc, err := NewDefaultBookingService(store, orders, nil, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxAttempts, svc.MaxAttempts)
}

type mockReminders struct {
	mock.Mock
}

func (m *mockReminders) ScheduleOrderReminder(ctx context.Context, o *models.Order) error {
	return m.Called(ctx, o).Error(0)
}

func TestPlaceOrder_SchedulesReminder(t *testing.T) {
	f := newFixture(t, nil, juneFirst, juneSecond)
	reminders := &mockReminders{}
	reminders.On("ScheduleOrderReminder", mock.Anything, mock.AnythingOfType("*models.Order")).Return(nil).Once()
	reminders.On("ScheduleOrderReminder", mock.Anything, mock.AnythingOfType("*models.Order")).Return(errors.New("redis down")).Once()
	f.service.Reminders = reminders

	first, err := f.service.PlaceOrder(context.Background(), request(juneFirst))
	require.NoError(t, err)
	// A failed reminder does not fail the booking.
	_, err = f.service.PlaceOrder(context.Background(), request(juneSecond))
	require.NoError(t, err)

	reminders.AssertNumberOfCalls(t, "ScheduleOrderReminder", 2)
	scheduled := reminders.Calls[0].Arguments.Get(1).(*models.Order)
	assert.Equal(t, first.ID, scheduled.ID)
	assert.Len(t, f.allOrders(t), 2)

	_, err = f.service.PlaceOrder(context.Background(), request(juneFirst))
	assert.ErrorIs(t, err, utils.ErrSlotAlreadyBooked)
	reminders.AssertNumberOfCalls(t, "ScheduleOrderReminder", 2)
}
