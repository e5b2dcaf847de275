package create_booking

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DeskBookingService/internal/domain"
	"github.com/m04kA/SMC-DeskBookingService/internal/testfixtures/memstore"
	"github.com/m04kA/SMC-DeskBookingService/pkg/logger"
	"github.com/m04kA/SMC-DeskBookingService/pkg/txmanager"
)

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) IncBookingCreated() {
	m.Called()
}

func (m *MockMetrics) IncBookingRejection(code string) {
	m.Called(code)
}

// permissiveMetrics accepts any metric call
func permissiveMetrics() *MockMetrics {
	m := new(MockMetrics)
	m.On("IncBookingCreated").Maybe()
	m.On("IncBookingRejection", mock.Anything).Maybe()
	return m
}

type fixture struct {
	store   *memstore.Store
	clock   *clockwork.FakeClock
	metrics *MockMetrics
	uc      *UseCase
}

func newFixture(t *testing.T, metrics *MockMetrics) *fixture {
	t.Helper()

	clock := clockwork.NewFakeClockAt(day(0, 8, 0))
	store := memstore.New(clock)
	store.AddDesk(*sharedDesk())
	store.AddPolicy(*testPolicy())

	if metrics == nil {
		metrics = permissiveMetrics()
	}

	return &fixture{
		store:   store,
		clock:   clock,
		metrics: metrics,
		uc:      NewUseCase(store, store, store.Desks(), store, clock, time.UTC, metrics, logger.NewNop()),
	}
}

func TestUseCase_Execute_CreatesScheduledBooking(t *testing.T) {
	metrics := new(MockMetrics)
	metrics.On("IncBookingCreated").Once()
	f := newFixture(t, metrics)

	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID: 7,
		DeskID: 1,
		Start:  day(1, 10, 0),
		End:    day(1, 12, 0),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, resp.Status)
	assert.Equal(t, int64(7), resp.UserID)
	assert.Len(t, f.store.Bookings(), 1)
	metrics.AssertExpectations(t)
}

func TestUseCase_Execute_StartingNowIsActive(t *testing.T) {
	f := newFixture(t, nil)
	f.clock.Advance(time.Hour) // 09:00

	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID: 7,
		DeskID: 1,
		Start:  day(0, 9, 0),
		End:    day(0, 11, 0),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, resp.Status)
}

func TestUseCase_Execute_ConvertsToOfficeLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	f := newFixture(t, nil)
	f.uc = NewUseCase(f.store, f.store, f.store.Desks(), f.store, f.clock, loc, f.metrics, logger.NewNop())

	// 07:00 UTC is 10:00 in the office
	_, err := f.uc.Execute(context.Background(), &Request{
		UserID: 7,
		DeskID: 1,
		Start:  day(1, 7, 0),
		End:    day(1, 9, 0),
	})
	require.NoError(t, err)

	// 16:00 UTC is 19:00 in the office
	_, err = f.uc.Execute(context.Background(), &Request{
		UserID: 7,
		DeskID: 1,
		Start:  day(1, 14, 0),
		End:    day(1, 16, 0),
	})
	assert.ErrorIs(t, err, ErrOutsideOfficeHours)
}

func TestUseCase_Execute_RejectionIsCounted(t *testing.T) {
	metrics := new(MockMetrics)
	metrics.On("IncBookingRejection", "OUTSIDE_OFFICE_HOURS").Once()
	f := newFixture(t, metrics)

	_, err := f.uc.Execute(context.Background(), &Request{
		UserID: 7,
		DeskID: 1,
		Start:  day(1, 17, 30),
		End:    day(1, 18, 30),
	})

	assert.ErrorIs(t, err, ErrOutsideOfficeHours)
	assert.Empty(t, f.store.Bookings())
	metrics.AssertExpectations(t)
}

func TestUseCase_Execute_DeskAlreadyBooked(t *testing.T) {
	f := newFixture(t, nil)
	f.store.AddBooking(domain.Booking{UserID: 2, DeskID: 1, StartTime: day(1, 11, 0), EndTime: day(1, 13, 0), Status: domain.StatusScheduled})

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 7, DeskID: 1, Start: day(1, 10, 0), End: day(1, 12, 0)})

	var rejection *Rejection
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, CodeDeskNotAvailable, rejection.Code)
}

func TestUseCase_Execute_WeeklyQuota(t *testing.T) {
	f := newFixture(t, nil)
	f.store = memstore.New(f.clock)
	f.store.AddDesk(*sharedDesk())
	policy := testPolicy()
	policy.MaxHoursPerWeek = 8
	f.store.AddPolicy(*policy)
	f.uc = NewUseCase(f.store, f.store, f.store.Desks(), f.store, f.clock, time.UTC, f.metrics, logger.NewNop())

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 7, DeskID: 1, Start: day(0, 9, 0), End: day(0, 15, 0)})
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), &Request{UserID: 7, DeskID: 1, Start: day(1, 9, 0), End: day(1, 12, 0)})
	assert.ErrorIs(t, err, ErrWeeklyHoursExceeded)

	_, err = f.uc.Execute(context.Background(), &Request{UserID: 7, DeskID: 1, Start: day(1, 9, 0), End: day(1, 11, 0)})
	assert.NoError(t, err)
}

func TestUseCase_Execute_ConfigurationAndLookupErrors(t *testing.T) {
	t.Run("no active policy", func(t *testing.T) {
		clock := clockwork.NewFakeClockAt(day(0, 8, 0))
		store := memstore.New(clock)
		store.AddDesk(*sharedDesk())
		uc := NewUseCase(store, store, store.Desks(), store, clock, time.UTC, permissiveMetrics(), logger.NewNop())

		_, err := uc.Execute(context.Background(), &Request{UserID: 7, DeskID: 1, Start: day(1, 10, 0), End: day(1, 12, 0)})
		assert.ErrorIs(t, err, ErrNoActivePolicy)
	})

	t.Run("two active policies", func(t *testing.T) {
		f := newFixture(t, nil)
		second := testPolicy()
		second.ID = 2
		f.store.AddPolicy(*second)

		_, err := f.uc.Execute(context.Background(), &Request{UserID: 7, DeskID: 1, Start: day(1, 10, 0), End: day(1, 12, 0)})
		assert.ErrorIs(t, err, ErrNoActivePolicy)
	})

	t.Run("unknown desk", func(t *testing.T) {
		f := newFixture(t, nil)

		_, err := f.uc.Execute(context.Background(), &Request{UserID: 7, DeskID: 99, Start: day(1, 10, 0), End: day(1, 12, 0)})
		assert.ErrorIs(t, err, ErrDeskNotFound)
	})

	t.Run("invalid input", func(t *testing.T) {
		f := newFixture(t, nil)

		_, err := f.uc.Execute(context.Background(), &Request{UserID: 0, DeskID: 1, Start: day(1, 10, 0), End: day(1, 12, 0)})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = f.uc.Execute(context.Background(), &Request{UserID: 7, DeskID: 1})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

// lostRaceTxManager reports a serialization failure as Postgres does for the losing transaction
type lostRaceTxManager struct{}

func (lostRaceTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fmt.Errorf("%w: commit: could not serialize access", txmanager.ErrSerializationFailure)
}

func TestUseCase_Execute_LostRaceIsDeskNotAvailable(t *testing.T) {
	metrics := new(MockMetrics)
	metrics.On("IncBookingRejection", "DESK_NOT_AVAILABLE").Once()
	f := newFixture(t, metrics)
	uc := NewUseCase(f.store, f.store, f.store.Desks(), lostRaceTxManager{}, f.clock, time.UTC, metrics, logger.NewNop())

	_, err := uc.Execute(context.Background(), &Request{UserID: 7, DeskID: 1, Start: day(1, 10, 0), End: day(1, 12, 0)})

	assert.ErrorIs(t, err, ErrDeskNotAvailable)
	metrics.AssertExpectations(t)
}

// exclusionStore reports the exclusion constraint on insert, as when a concurrent
// transaction committed an overlapping row after our overlap read
type exclusionStore struct {
	*memstore.Store
}

func (s exclusionStore) GetOverlapping(ctx context.Context, deskID int64, start, end time.Time) ([]*domain.Booking, error) {
	return nil, nil
}

func TestUseCase_Execute_ExclusionViolationIsDeskNotAvailable(t *testing.T) {
	f := newFixture(t, nil)
	f.store.AddBooking(domain.Booking{UserID: 2, DeskID: 1, StartTime: day(1, 11, 0), EndTime: day(1, 13, 0), Status: domain.StatusScheduled})
	uc := NewUseCase(exclusionStore{f.store}, f.store, f.store.Desks(), f.store, f.clock, time.UTC, f.metrics, logger.NewNop())

	_, err := uc.Execute(context.Background(), &Request{UserID: 7, DeskID: 1, Start: day(1, 10, 0), End: day(1, 12, 0)})

	assert.ErrorIs(t, err, ErrDeskNotAvailable)
	assert.Len(t, f.store.Bookings(), 1)
}

func TestUseCase_Execute_ConcurrentCreationsNeverOverlap(t *testing.T) {
	f := newFixture(t, nil)
	rng := rand.New(rand.NewSource(42))

	type attempt struct {
		userID     int64
		start, end time.Time
	}

	attempts := make([]attempt, 200)
	for i := range attempts {
		d := 1 + rng.Intn(4)
		startHour := 9 + rng.Intn(8)
		startMinute := 30 * rng.Intn(2)
		duration := time.Duration(1+rng.Intn(4)) * time.Hour
		start := day(d, startHour, startMinute)
		attempts[i] = attempt{
			userID: int64(1 + rng.Intn(20)),
			start:  start,
			end:    start.Add(duration),
		}
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(attempts))
	for _, a := range attempts {
		wg.Add(1)
		go func(a attempt) {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), &Request{UserID: a.userID, DeskID: 1, Start: a.start, End: a.end})
			errs <- err
		}(a)
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		if err == nil {
			created++
			continue
		}
		var rejection *Rejection
		assert.True(t, errors.As(err, &rejection), "unexpected error: %v", err)
	}
	require.Positive(t, created)

	bookings := f.store.Bookings()
	require.Len(t, bookings, created)
	for i := range bookings {
		for j := i + 1; j < len(bookings); j++ {
			b1, b2 := bookings[i], bookings[j]
			if b1.IsCancelled() || b2.IsCancelled() || b1.DeskID != b2.DeskID {
				continue
			}
			assert.True(t, !b1.StartTime.Before(b2.EndTime) || !b2.StartTime.Before(b1.EndTime),
				"bookings %d [%s, %s) and %d [%s, %s) overlap",
				b1.ID, b1.StartTime, b1.EndTime, b2.ID, b2.StartTime, b2.EndTime)
		}
	}
}
