package sweep_statuses

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DeskBookingService/internal/domain"
	"github.com/m04kA/SMC-DeskBookingService/internal/testfixtures/memstore"
	"github.com/m04kA/SMC-DeskBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-DeskBookingService/pkg/logger"
)

// 2026-10-19 is a Monday
var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func at(day, hour, minute int) time.Time {
	return monday.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) AddSweepTransitions(transition string, count int64) {
	m.Called(transition, count)
}

func statuses(store *memstore.Store) map[int64]domain.BookingStatus {
	result := map[int64]domain.BookingStatus{}
	for _, b := range store.Bookings() {
		result[b.ID] = b.Status
	}
	return result
}

func TestUseCase_Execute(t *testing.T) {
	store := memstore.New(clockwork.NewFakeClockAt(at(0, 8, 0)))
	due := store.AddBooking(domain.Booking{UserID: 1, DeskID: 1, StartTime: at(0, 9, 0), EndTime: at(0, 12, 0), Status: domain.StatusScheduled})
	future := store.AddBooking(domain.Booking{UserID: 1, DeskID: 2, StartTime: at(0, 14, 0), EndTime: at(0, 16, 0), Status: domain.StatusScheduled})
	ended := store.AddBooking(domain.Booking{UserID: 2, DeskID: 3, StartTime: at(0, 8, 0), EndTime: at(0, 10, 0), Status: domain.StatusActive})
	cancelled := store.AddBooking(domain.Booking{UserID: 2, DeskID: 4, StartTime: at(0, 9, 0), EndTime: at(0, 10, 0), Status: domain.StatusCancelled})

	metrics := new(MockMetrics)
	metrics.On("AddSweepTransitions", TransitionActivate, int64(1)).Once()
	metrics.On("AddSweepTransitions", TransitionConfirm, int64(1)).Once()

	uc := NewUseCase(store, store, metrics, logger.NewNop())

	result, err := uc.Execute(context.Background(), at(0, 10, 0))

	require.NoError(t, err)
	assert.Equal(t, Result{Activated: 1, Confirmed: 1}, result)
	got := statuses(store)
	assert.Equal(t, domain.StatusActive, got[due.ID])
	assert.Equal(t, domain.StatusScheduled, got[future.ID])
	assert.Equal(t, domain.StatusConfirmed, got[ended.ID])
	assert.Equal(t, domain.StatusCancelled, got[cancelled.ID])
	metrics.AssertExpectations(t)
}

func TestUseCase_Execute_ElapsedBetweenTicksConfirmsInOnePass(t *testing.T) {
	store := memstore.New(clockwork.NewFakeClockAt(at(0, 8, 0)))
	booking := store.AddBooking(domain.Booking{UserID: 1, DeskID: 1, StartTime: at(0, 9, 0), EndTime: at(0, 10, 0), Status: domain.StatusScheduled})

	metrics := new(MockMetrics)
	metrics.On("AddSweepTransitions", mock.Anything, int64(1)).Twice()

	uc := NewUseCase(store, store, metrics, logger.NewNop())

	result, err := uc.Execute(context.Background(), at(0, 11, 0))

	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total())
	assert.Equal(t, domain.StatusConfirmed, statuses(store)[booking.ID])
}

func TestUseCase_Execute_FailedBatchRollsBack(t *testing.T) {
	store := memstore.New(clockwork.NewFakeClockAt(at(0, 8, 0)))
	first := store.AddBooking(domain.Booking{UserID: 1, DeskID: 1, StartTime: at(0, 9, 0), EndTime: at(0, 12, 0), Status: domain.StatusScheduled})
	second := store.AddBooking(domain.Booking{UserID: 2, DeskID: 2, StartTime: at(0, 9, 30), EndTime: at(0, 12, 0), Status: domain.StatusScheduled})

	metrics := new(MockMetrics)
	uc := NewUseCase(store, store, metrics, logger.NewNop())

	store.FailNext(errors.New("connection reset"))
	_, err := uc.Execute(context.Background(), at(0, 10, 0))

	assert.ErrorIs(t, err, ErrActivate)
	got := statuses(store)
	assert.Equal(t, domain.StatusScheduled, got[first.ID])
	assert.Equal(t, domain.StatusScheduled, got[second.ID])
	metrics.AssertNotCalled(t, "AddSweepTransitions", mock.Anything, mock.Anything)

	// next tick retries
	metrics.On("AddSweepTransitions", TransitionActivate, int64(2)).Once()
	metrics.On("AddSweepTransitions", TransitionConfirm, int64(0)).Once()

	result, err := uc.Execute(context.Background(), at(0, 10, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Activated)
	metrics.AssertExpectations(t)
}

func TestUseCase_Execute_ConfirmFailureKeepsActivation(t *testing.T) {
	store := memstore.New(clockwork.NewFakeClockAt(at(0, 8, 0)))
	scheduled := store.AddBooking(domain.Booking{UserID: 1, DeskID: 1, StartTime: at(0, 9, 0), EndTime: at(0, 12, 0), Status: domain.StatusScheduled})
	active := store.AddBooking(domain.Booking{UserID: 2, DeskID: 2, StartTime: at(0, 8, 0), EndTime: at(0, 9, 0), Status: domain.StatusActive})

	metrics := new(MockMetrics)
	metrics.On("AddSweepTransitions", TransitionActivate, int64(1)).Once()

	failing := &failOnConfirm{Store: store}
	uc := NewUseCase(failing, store, metrics, logger.NewNop())

	result, err := uc.Execute(context.Background(), at(0, 10, 0))

	assert.ErrorIs(t, err, ErrConfirm)
	assert.Equal(t, int64(1), result.Activated)
	got := statuses(store)
	assert.Equal(t, domain.StatusActive, got[scheduled.ID])
	assert.Equal(t, domain.StatusActive, got[active.ID])
	metrics.AssertExpectations(t)
}

type failOnConfirm struct {
	*memstore.Store
}

func (f *failOnConfirm) ConfirmDue(ctx context.Context, now time.Time) (int64, error) {
	f.Store.FailNext(errors.New("deadlock detected"))
	return f.Store.ConfirmDue(ctx, now)
}

func TestLifecycle_EndToEnd(t *testing.T) {
	clock := clockwork.NewFakeClockAt(at(0, 8, 0))
	store := memstore.New(clock)
	store.AddDesk(domain.Desk{ID: 1, Name: "A-01", Type: domain.DeskTypeShared, Status: domain.DeskStatusActive})
	store.AddDesk(domain.Desk{ID: 2, Name: "A-02", Type: domain.DeskTypeShared, Status: domain.DeskStatusActive})
	store.AddPolicy(domain.BookingTimeLimitsPolicy{
		MinHours: 1, MaxHours: 8, LunchStartHour: 13, LunchEndHour: 14,
		OfficeStartHour: 9, OfficeEndHour: 18, MaxDaysInAdvance: 14, MaxHoursPerWeek: 40, IsActive: true,
	})

	create := create_booking.NewUseCase(store, store, store.Desks(), store, clock, time.UTC, nopCreateMetrics{}, logger.NewNop())
	metrics := new(MockMetrics)
	metrics.On("AddSweepTransitions", mock.Anything, mock.Anything)
	sweep := NewUseCase(store, store, metrics, logger.NewNop())

	kept, err := create.Execute(context.Background(), &create_booking.Request{UserID: 1, DeskID: 1, Start: at(0, 10, 0), End: at(0, 12, 0)})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, kept.Status)

	dropped, err := create.Execute(context.Background(), &create_booking.Request{UserID: 1, DeskID: 2, Start: at(0, 10, 0), End: at(0, 12, 0)})
	require.NoError(t, err)

	// cancelled before the first sweep
	require.NoError(t, store.Cancel(context.Background(), dropped.ID, 1, clock.Now()))

	clock.Advance(2 * time.Hour) // 10:00
	_, err = sweep.Execute(context.Background(), clock.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, statuses(store)[kept.ID])

	clock.Advance(2 * time.Hour) // 12:00
	_, err = sweep.Execute(context.Background(), clock.Now())
	require.NoError(t, err)

	got := statuses(store)
	assert.Equal(t, domain.StatusConfirmed, got[kept.ID])
	assert.Equal(t, domain.StatusCancelled, got[dropped.ID])
}

type nopCreateMetrics struct{}

func (nopCreateMetrics) IncBookingCreated() {}
func (nopCreateMetrics) IncBookingRejection(code string) {}
