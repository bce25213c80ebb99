package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/platewise/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}

// StartOfDay returns midnight at the start of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last millisecond of t's calendar day in t's location.
// It is computed from the next midnight so DST days of 23 or 25 hours come out right.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location()).Add(-time.Millisecond)
}

// DayRange returns the inclusive [start, end] bounds, in epoch milliseconds, of the
// calendar day offset days before now.
func DayRange(now time.Time, offset int) (start, end int64) {
	day := DayFromOffset(now, offset)
	return StartOfDay(day).UnixMilli(), EndOfDay(day).UnixMilli()
}

// DayFromOffset moves now back by offset calendar days, keeping the location.
func DayFromOffset(now time.Time, offset int) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d-offset, 12, 0, 0, 0, now.Location())
}

// DayLabel returns "Today", "Yesterday" or a short date such as "Jan 2".
func DayLabel(now time.Time, offset int) string {
	switch offset {
	case 0:
		return "Today"
	case 1:
		return "Yesterday"
	default:
		return DayFromOffset(now, offset).Format(constants.HeaderDateFormat)
	}
}
