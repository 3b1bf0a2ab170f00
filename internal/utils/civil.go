package utils

import (
	"log"
	"time"
)

// CivilLocation returns the fixed timezone all civil dates are resolved in.
func CivilLocation() *time.Location {
	name := GetConfig("TIMEZONE")
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid timezone %q, falling back to UTC: %v", name, err)
		return time.UTC
	}
	return loc
}

// CivilDate truncates an instant to its calendar date in loc, normalized to
// midnight UTC so dates compare and subtract cleanly.
func CivilDate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// CivilToday is CivilDate(now).
func CivilToday(loc *time.Location) time.Time {
	return CivilDate(time.Now(), loc)
}

// ParseCivilDate parses a YYYY-MM-DD string into a normalized civil date.
func ParseCivilDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// FormatCivilDate renders a civil date as YYYY-MM-DD.
func FormatCivilDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// WeekStart returns the Monday of the week containing the given civil date.
// Uses AddDate so month and year boundaries are handled by the library.
func WeekStart(date time.Time) time.Time {
	weekday := int(date.Weekday()) // 0=Sun
	if weekday == 0 {
		weekday = 7
	}
	return date.AddDate(0, 0, -(weekday - 1))
}

// DaysBetween returns b - a in whole days for normalized civil dates.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
