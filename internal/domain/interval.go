package domain

import (
	"sort"
	"time"
)

// TimeInterval is a half-open time range [Start, End)
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// IsValid returns true if Start is strictly before End
func (i TimeInterval) IsValid() bool {
	return i.Start.Before(i.End)
}

// Overlaps reports half-open intersection: touching intervals do not overlap
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

// Hours returns the interval length in hours
func (i TimeInterval) Hours() float64 {
	return i.End.Sub(i.Start).Hours()
}

// Clip returns the part of the interval inside window
func (i TimeInterval) Clip(window TimeInterval) (TimeInterval, bool) {
	if !i.Overlaps(window) {
		return TimeInterval{}, false
	}
	clipped := i
	if clipped.Start.Before(window.Start) {
		clipped.Start = window.Start
	}
	if clipped.End.After(window.End) {
		clipped.End = window.End
	}
	return clipped, true
}

// MergeIntervals sorts intervals and joins overlapping or adjacent ones
func MergeIntervals(intervals []TimeInterval) []TimeInterval {
	if len(intervals) == 0 {
		return []TimeInterval{}
	}

	sorted := make([]TimeInterval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(a, b int) bool {
		return sorted[a].Start.Before(sorted[b].Start)
	})

	merged := []TimeInterval{sorted[0]}
	for _, next := range sorted[1:] {
		last := &merged[len(merged)-1]
		if next.Start.After(last.End) {
			merged = append(merged, next)
			continue
		}
		if next.End.After(last.End) {
			last.End = next.End
		}
	}
	return merged
}

// StartOfDay returns midnight of t's calendar day in t's location
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AtHour returns hour:00 on day's calendar date in day's location
func AtHour(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
}

// CalendarDaysBetween counts calendar days from a's date to b's date,
// ignoring the time of day (23:59 and 00:01 of the same date count the same).
func CalendarDaysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// WeekBounds returns the ISO week containing t: Monday 00:00 through the
// following Monday 00:00, in t's location.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	offset := (int(t.Weekday()) + 6) % 7
	monday := time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, t.Location())
	return monday, monday.AddDate(0, 0, 7)
}
