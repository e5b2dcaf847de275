package domain

// Policy validation bounds
const (
	MinDaysInAdvance   = 1
	MaxDaysInAdvance   = 365
	MinHoursPerWeek    = 1
	MaxHoursPerWeek    = 168 // 7 * 24
	MinHourOfDay       = 0
	MaxHourOfDay       = 24
	LunchDeductionHour = 1.0
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Roles passed by the gateway in X-User-Role
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// NonCancelledStatuses statuses that occupy a desk
var NonCancelledStatuses = []BookingStatus{
	StatusScheduled,
	StatusActive,
	StatusConfirmed,
}

// Actor is the user performing an operation
type Actor struct {
	UserID int64
	Role   string
}

// IsAdmin returns true if the actor has the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Owns returns true if the actor created the booking
func (a Actor) Owns(b *Booking) bool {
	return b.UserID == a.UserID
}
