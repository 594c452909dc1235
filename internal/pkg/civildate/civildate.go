// Package civildate buckets instants into the civil calendar of a fixed
// timezone (America/Bogota by default).
package civildate

import (
	"sync"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
	MonthLayout = "2006-01"

	DefaultTimezone = "America/Bogota"
)

var (
	bogotaOnce sync.Once
	bogota     *time.Location
)

// Bogota returns the America/Bogota location. Colombia has no DST, so a fixed
// UTC-5 zone is a safe fallback when tzdata is missing.
func Bogota() *time.Location {
	bogotaOnce.Do(func() {
		loc, err := time.LoadLocation(DefaultTimezone)
		if err != nil {
			loc = time.FixedZone("COT", -5*60*60)
		}
		bogota = loc
	})
	return bogota
}

// Load resolves a timezone name, returning Bogota for the default or an empty name.
func Load(name string) (*time.Location, error) {
	if name == "" || name == DefaultTimezone {
		return Bogota(), nil
	}
	return time.LoadLocation(name)
}

// Clock is the source of "now".
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// DateKey formats t as YYYY-MM-DD in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// ClockTime formats t as HH:MM in loc.
func ClockTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(ClockLayout)
}

// ParseDate parses a YYYY-MM-DD string as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

func StartOfDay(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns the last nanosecond of t's civil day.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// StartOfWeek returns midnight of the Monday on or before t.
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	day := StartOfDay(t, loc)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), 1, 0, 0, 0, 0, loc)
}

// DaysInMonth returns the number of days in t's civil month.
func DaysInMonth(t time.Time, loc *time.Location) int {
	return StartOfMonth(t, loc).AddDate(0, 1, -1).Day()
}

// IsWeekday reports whether t falls Monday through Friday in loc.
func IsWeekday(t time.Time, loc *time.Location) bool {
	wd := t.In(loc).Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
