package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusScheduled BookingStatus = "scheduled"
	StatusActive    BookingStatus = "active"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking represents a reservation of one desk by one user
type Booking struct {
	ID        int64
	UserID    int64
	DeskID    int64
	StartTime time.Time
	EndTime   time.Time
	Status    BookingStatus

	CancelledBy *int64
	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResolveStatus returns the initial status of a booking created at now.
// A booking is never created already confirmed.
func ResolveStatus(now, start time.Time) BookingStatus {
	if now.Before(start) {
		return StatusScheduled
	}
	return StatusActive
}

// IsValid returns true if the status is one of the known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusActive, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for confirmed and cancelled bookings
func (s BookingStatus) IsTerminal() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

// CanTransition reports whether a booking may move from one status to another.
//
//	scheduled -> active     (start reached)
//	active    -> confirmed  (end reached)
//	scheduled -> cancelled
//	active    -> cancelled
func CanTransition(from, to BookingStatus) bool {
	switch from {
	case StatusScheduled:
		return to == StatusActive || to == StatusCancelled
	case StatusActive:
		return to == StatusConfirmed || to == StatusCancelled
	default:
		return false
	}
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// Interval returns the booking's half-open time range
func (b *Booking) Interval() TimeInterval {
	return TimeInterval{Start: b.StartTime, End: b.EndTime}
}

// Hours returns the raw booked duration in hours
func (b *Booking) Hours() float64 {
	return b.EndTime.Sub(b.StartTime).Hours()
}

// StatusAt returns the status the booking has at now once every time guard is
// applied, even if the sweeper has not persisted it yet.
func (b *Booking) StatusAt(now time.Time) BookingStatus {
	status := b.Status
	if status == StatusScheduled && !now.Before(b.StartTime) {
		status = StatusActive
	}
	if status == StatusActive && !now.Before(b.EndTime) {
		status = StatusConfirmed
	}
	return status
}

// CanBeCancelledAt returns true if the booking may still be cancelled at now
func (b *Booking) CanBeCancelledAt(now time.Time) bool {
	return CanTransition(b.StatusAt(now), StatusCancelled)
}
