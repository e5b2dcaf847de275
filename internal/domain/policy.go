package domain

import "time"

// BookingTimeLimitsPolicy is the global set of booking constraints.
// Exactly one policy is active at any time.
type BookingTimeLimitsPolicy struct {
	ID               int64
	MinHours         int
	MaxHours         int
	LunchStartHour   int
	LunchEndHour     int
	OfficeStartHour  int
	OfficeEndHour    int
	MaxDaysInAdvance int
	MaxHoursPerWeek  int
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LunchWindow returns the lunch break on day's calendar date
func (p *BookingTimeLimitsPolicy) LunchWindow(day time.Time) TimeInterval {
	return TimeInterval{
		Start: AtHour(day, p.LunchStartHour),
		End:   AtHour(day, p.LunchEndHour),
	}
}

// OfficeWindow returns the office hours on day's calendar date
func (p *BookingTimeLimitsPolicy) OfficeWindow(day time.Time) TimeInterval {
	return TimeInterval{
		Start: AtHour(day, p.OfficeStartHour),
		End:   AtHour(day, p.OfficeEndHour),
	}
}
