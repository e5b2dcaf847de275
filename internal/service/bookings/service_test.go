package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DeskBookingService/internal/domain"
	"github.com/m04kA/SMC-DeskBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-DeskBookingService/internal/testfixtures/memstore"
	"github.com/m04kA/SMC-DeskBookingService/pkg/logger"
)

var (
	owner = domain.Actor{UserID: 7, Role: domain.RoleUser}
	other = domain.Actor{UserID: 8, Role: domain.RoleUser}
	admin = domain.Actor{UserID: 1, Role: domain.RoleAdmin}

	// 2026-10-20 10:00 UTC
	base = time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC)
)

type fixture struct {
	store   *memstore.Store
	clock   *clockwork.FakeClock
	service *Service
}

func newFixture() *fixture {
	clock := clockwork.NewFakeClockAt(base)
	store := memstore.New(clock)
	return &fixture{
		store:   store,
		clock:   clock,
		service: NewService(store, store, clock, time.UTC, logger.NewNop()),
	}
}

func (f *fixture) add(status domain.BookingStatus, start, end time.Time) domain.Booking {
	return f.store.AddBooking(domain.Booking{UserID: owner.UserID, DeskID: 1, StartTime: start, EndTime: end, Status: status})
}

func (f *fixture) status(id int64) domain.BookingStatus {
	for _, b := range f.store.Bookings() {
		if b.ID == id {
			return b.Status
		}
	}
	return ""
}

func TestService_GetByID(t *testing.T) {
	f := newFixture()
	b := f.add(domain.StatusScheduled, base.Add(time.Hour), base.Add(3*time.Hour))

	resp, err := f.service.GetByID(context.Background(), b.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, "scheduled", resp.Status)
	assert.Equal(t, int64(1), resp.DeskID)

	_, err = f.service.GetByID(context.Background(), b.ID, admin)
	assert.NoError(t, err)

	_, err = f.service.GetByID(context.Background(), b.ID, other)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.service.GetByID(context.Background(), 999, owner)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_GetUserBookings(t *testing.T) {
	f := newFixture()
	f.add(domain.StatusScheduled, base.Add(time.Hour), base.Add(2*time.Hour))
	f.add(domain.StatusCancelled, base.Add(3*time.Hour), base.Add(4*time.Hour))

	resp, err := f.service.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{Actor: owner, UserID: owner.UserID})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	cancelled := "cancelled"
	resp, err = f.service.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{Actor: admin, UserID: owner.UserID, Status: &cancelled})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "cancelled", resp.Bookings[0].Status)

	_, err = f.service.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{Actor: other, UserID: owner.UserID})
	assert.ErrorIs(t, err, ErrAccessDenied)

	bogus := "pending"
	_, err = f.service.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{Actor: owner, UserID: owner.UserID, Status: &bogus})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Cancel(t *testing.T) {
	f := newFixture()
	b := f.add(domain.StatusScheduled, base.Add(time.Hour), base.Add(3*time.Hour))

	require.NoError(t, f.service.Cancel(context.Background(), b.ID, owner))

	got := f.store.Bookings()[0]
	assert.Equal(t, domain.StatusCancelled, got.Status)
	require.NotNil(t, got.CancelledBy)
	assert.Equal(t, owner.UserID, *got.CancelledBy)
	require.NotNil(t, got.CancelledAt)
	assert.Equal(t, base, *got.CancelledAt)

	// cancelled is terminal
	assert.ErrorIs(t, f.service.Cancel(context.Background(), b.ID, owner), ErrCannotCancel)
}

func TestService_Cancel_Access(t *testing.T) {
	f := newFixture()
	b := f.add(domain.StatusActive, base.Add(-time.Hour), base.Add(time.Hour))

	assert.ErrorIs(t, f.service.Cancel(context.Background(), b.ID, other), ErrAccessDenied)
	assert.Equal(t, domain.StatusActive, f.status(b.ID))

	require.NoError(t, f.service.Cancel(context.Background(), b.ID, admin))
	assert.Equal(t, domain.StatusCancelled, f.status(b.ID))

	assert.ErrorIs(t, f.service.Cancel(context.Background(), 999, admin), ErrBookingNotFound)
}

func TestService_Cancel_ElapsedBookingIsNotCancellable(t *testing.T) {
	f := newFixture()
	confirmed := f.add(domain.StatusConfirmed, base.Add(-3*time.Hour), base.Add(-time.Hour))
	// sweeper has not confirmed it yet
	lagging := f.add(domain.StatusActive, base.Add(-3*time.Hour), base.Add(-time.Hour))
	// sweeper has not activated it yet, still cancellable
	started := f.add(domain.StatusScheduled, base.Add(-time.Hour), base.Add(time.Hour))

	assert.ErrorIs(t, f.service.Cancel(context.Background(), confirmed.ID, owner), ErrCannotCancel)
	assert.ErrorIs(t, f.service.Cancel(context.Background(), lagging.ID, owner), ErrCannotCancel)
	assert.NoError(t, f.service.Cancel(context.Background(), started.ID, owner))
}

func TestService_UpdateStatus(t *testing.T) {
	f := newFixture()
	b := f.add(domain.StatusScheduled, base.Add(time.Hour), base.Add(3*time.Hour))

	_, err := f.service.UpdateStatus(context.Background(), b.ID, &models.UpdateStatusRequest{Actor: owner, Status: "active"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.service.UpdateStatus(context.Background(), b.ID, &models.UpdateStatusRequest{Actor: admin, Status: "confirmed"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.service.UpdateStatus(context.Background(), b.ID, &models.UpdateStatusRequest{Actor: admin, Status: "done"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	resp, err := f.service.UpdateStatus(context.Background(), b.ID, &models.UpdateStatusRequest{Actor: admin, Status: "active"})
	require.NoError(t, err)
	assert.Equal(t, "active", resp.Status)

	resp, err = f.service.UpdateStatus(context.Background(), b.ID, &models.UpdateStatusRequest{Actor: admin, Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	require.NotNil(t, resp.CancelledBy)
	assert.Equal(t, admin.UserID, *resp.CancelledBy)

	_, err = f.service.UpdateStatus(context.Background(), b.ID, &models.UpdateStatusRequest{Actor: admin, Status: "scheduled"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_Delete(t *testing.T) {
	f := newFixture()
	b := f.add(domain.StatusScheduled, base.Add(time.Hour), base.Add(3*time.Hour))

	assert.ErrorIs(t, f.service.Delete(context.Background(), b.ID, owner), ErrAccessDenied)
	require.NoError(t, f.service.Delete(context.Background(), b.ID, admin))
	assert.Empty(t, f.store.Bookings())
	assert.ErrorIs(t, f.service.Delete(context.Background(), b.ID, admin), ErrBookingNotFound)
}
