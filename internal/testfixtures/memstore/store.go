// Package memstore is an in-memory implementation of the booking, desk and
// policy repositories plus the transaction manager. Transactions are
// serialized and rolled back by restoring a snapshot, which gives engine tests
// the same all-or-nothing behaviour as the Postgres store.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/m04kA/SMC-DeskBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-DeskBookingService/internal/infra/storage/booking"
	deskRepo "github.com/m04kA/SMC-DeskBookingService/internal/infra/storage/desk"
	policyRepo "github.com/m04kA/SMC-DeskBookingService/internal/infra/storage/policy"
)

type txKey struct{}

type state struct {
	bookings map[int64]domain.Booking
	policies []domain.BookingTimeLimitsPolicy
	nextID   int64
}

func (s state) clone() state {
	bookings := make(map[int64]domain.Booking, len(s.bookings))
	for id, b := range s.bookings {
		bookings[id] = b
	}
	policies := make([]domain.BookingTimeLimitsPolicy, len(s.policies))
	copy(policies, s.policies)
	return state{bookings: bookings, policies: policies, nextID: s.nextID}
}

// Store in-memory storage
type Store struct {
	clock clockwork.Clock

	// txMu serializes transactions
	txMu sync.Mutex

	mu    sync.Mutex
	desks map[int64]domain.Desk
	data  state

	// FailNext makes the next mutating batch call return this error
	failMu   sync.Mutex
	failNext error
}

// New creates an empty store
func New(clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		clock: clock,
		desks: map[int64]domain.Desk{},
		data:  state{bookings: map[int64]domain.Booking{}, nextID: 1},
	}
}

// AddDesk registers a desk
func (s *Store) AddDesk(desk domain.Desk) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.desks[desk.ID] = desk
}

// AddPolicy registers a policy row
func (s *Store) AddPolicy(policy domain.BookingTimeLimitsPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if policy.ID == 0 {
		policy.ID = int64(len(s.data.policies) + 1)
	}
	s.data.policies = append(s.data.policies, policy)
}

// AddBooking inserts a booking bypassing validation and overlap checks
func (s *Store) AddBooking(booking domain.Booking) domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	booking.ID = s.data.nextID
	s.data.nextID++
	s.data.bookings[booking.ID] = booking
	return booking
}

// Bookings returns a copy of all bookings ordered by id
func (s *Store) Bookings() []domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]domain.Booking, 0, len(s.data.bookings))
	for _, b := range s.data.bookings {
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// FailNext makes the next ActivateDue or ConfirmDue call fail with err
func (s *Store) FailNext(err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.failNext = err
}

func (s *Store) takeFailure() error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	err := s.failNext
	s.failNext = nil
	return err
}

// Do runs fn in a transaction
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// DoSerializable runs fn in a transaction; transactions never interleave here
func (s *Store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.Do(ctx, fn)
}

func overlaps(b domain.Booking, start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

func (s *Store) filter(keep func(b domain.Booking) bool) []*domain.Booking {
	result := make([]*domain.Booking, 0)
	for _, b := range s.data.bookings {
		if keep(b) {
			booking := b
			result = append(result, &booking)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result
}

// Create inserts a booking, enforcing the per-desk no-overlap constraint
func (s *Store) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.data.bookings {
		if existing.DeskID == booking.DeskID && !existing.IsCancelled() &&
			overlaps(existing, booking.StartTime, booking.EndTime) {
			return nil, bookingRepo.ErrDeskNotAvailable
		}
	}

	now := s.clock.Now()
	created := *booking
	created.ID = s.data.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	s.data.nextID++
	s.data.bookings[created.ID] = created

	*booking = created
	return booking, nil
}

// GetByID returns a booking by id
func (s *Store) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.data.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return &b, nil
}

// GetOverlapping returns non-cancelled desk bookings intersecting [start, end)
func (s *Store) GetOverlapping(ctx context.Context, deskID int64, start, end time.Time) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter(func(b domain.Booking) bool {
		return b.DeskID == deskID && !b.IsCancelled() && overlaps(b, start, end)
	}), nil
}

// GetByDeskInRange is GetOverlapping without locking semantics
func (s *Store) GetByDeskInRange(ctx context.Context, deskID int64, from, to time.Time) ([]*domain.Booking, error) {
	return s.GetOverlapping(ctx, deskID, from, to)
}

// GetUserBookingsStartingBetween returns non-cancelled user bookings starting in [from, to)
func (s *Store) GetUserBookingsStartingBetween(ctx context.Context, userID int64, from, to time.Time) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter(func(b domain.Booking) bool {
		return b.UserID == userID && !b.IsCancelled() &&
			!b.StartTime.Before(from) && b.StartTime.Before(to)
	}), nil
}

// GetByUserID returns user bookings, optionally filtered by status, newest first
func (s *Store) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.filter(func(b domain.Booking) bool {
		return b.UserID == userID && (status == nil || b.Status == *status)
	})
	sort.SliceStable(result, func(i, j int) bool { return result[i].StartTime.After(result[j].StartTime) })
	return result, nil
}

// UpdateStatus sets a booking's status
func (s *Store) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	if !status.IsValid() {
		return bookingRepo.ErrInvalidStatus
	}
	return s.update(id, func(b *domain.Booking) {
		b.Status = status
	})
}

// Cancel marks a booking cancelled
func (s *Store) Cancel(ctx context.Context, id int64, cancelledBy int64, cancelledAt time.Time) error {
	return s.update(id, func(b *domain.Booking) {
		b.Status = domain.StatusCancelled
		b.CancelledBy = &cancelledBy
		b.CancelledAt = &cancelledAt
	})
}

func (s *Store) update(id int64, apply func(b *domain.Booking)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.data.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	apply(&b)
	b.UpdatedAt = s.clock.Now()
	s.data.bookings[id] = b
	return nil
}

// Delete removes a booking
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.bookings[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	delete(s.data.bookings, id)
	return nil
}

// ActivateDue moves scheduled bookings with start <= now to active
func (s *Store) ActivateDue(ctx context.Context, now time.Time) (int64, error) {
	return s.advance(domain.StatusScheduled, domain.StatusActive, now, func(b domain.Booking) time.Time { return b.StartTime })
}

// ConfirmDue moves active bookings with end <= now to confirmed
func (s *Store) ConfirmDue(ctx context.Context, now time.Time) (int64, error) {
	return s.advance(domain.StatusActive, domain.StatusConfirmed, now, func(b domain.Booking) time.Time { return b.EndTime })
}

func (s *Store) advance(from, to domain.BookingStatus, now time.Time, boundary func(b domain.Booking) time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for id, b := range s.data.bookings {
		if b.Status == from && !boundary(b).After(now) {
			b.Status = to
			b.UpdatedAt = now
			s.data.bookings[id] = b
			count++
		}
	}

	// fail after rows changed so callers must roll the batch back
	if err := s.takeFailure(); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) getDesk(id int64) (*domain.Desk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.desks[id]
	if !ok {
		return nil, deskRepo.ErrDeskNotFound
	}
	return &d, nil
}

// GetActive returns the single active policy
func (s *Store) GetActive(ctx context.Context) (*domain.BookingTimeLimitsPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var active []domain.BookingTimeLimitsPolicy
	for _, p := range s.data.policies {
		if p.IsActive {
			active = append(active, p)
		}
	}

	switch len(active) {
	case 0:
		return nil, policyRepo.ErrNoActivePolicy
	case 1:
		return &active[0], nil
	default:
		return nil, policyRepo.ErrMultipleActivePolicies
	}
}

// Update replaces the values of the active policy with the same id
func (s *Store) Update(ctx context.Context, policy *domain.BookingTimeLimitsPolicy) (*domain.BookingTimeLimitsPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.data.policies {
		if p.ID == policy.ID && p.IsActive {
			updated := *policy
			updated.IsActive = true
			updated.CreatedAt = p.CreatedAt
			updated.UpdatedAt = s.clock.Now()
			s.data.policies[i] = updated
			return &updated, nil
		}
	}
	return nil, policyRepo.ErrNoActivePolicy
}

// Desks exposes the desk repository view of the store
func (s *Store) Desks() *DeskView {
	return &DeskView{store: s}
}

// DeskView implements the desk repository; GetByID on Store is taken by bookings
type DeskView struct {
	store *Store
}

// GetByID returns a desk by id
func (v *DeskView) GetByID(ctx context.Context, id int64) (*domain.Desk, error) {
	return v.store.getDesk(id)
}
