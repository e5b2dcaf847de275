package domain

import "time"

// DeskType defines who may book a desk
type DeskType string

const (
	DeskTypeShared      DeskType = "shared"
	DeskTypeAssigned    DeskType = "assigned"
	DeskTypeUnavailable DeskType = "unavailable"
)

// DeskStatus is the administrative state of a desk
type DeskStatus string

const (
	DeskStatusActive      DeskStatus = "active"
	DeskStatusDeactivated DeskStatus = "deactivated"
)

// Desk represents a bookable workspace. Desks are owned by the
// administrative subsystem and are read-only here.
type Desk struct {
	ID     int64
	Name   string
	ZoneID int64
	Type   DeskType
	Status DeskStatus

	// Assigned desks are opened to other users only inside this window
	IsTemporarilyAvailable  bool
	TemporaryAvailableFrom  *time.Time
	TemporaryAvailableUntil *time.Time
}

// IsActive returns true if the desk has not been deactivated
func (d *Desk) IsActive() bool {
	return d.Status != DeskStatusDeactivated
}

// HasValidTemporaryWindow returns true if both window bounds are set and ordered
func (d *Desk) HasValidTemporaryWindow() bool {
	return d.TemporaryAvailableFrom != nil &&
		d.TemporaryAvailableUntil != nil &&
		d.TemporaryAvailableFrom.Before(*d.TemporaryAvailableUntil)
}
