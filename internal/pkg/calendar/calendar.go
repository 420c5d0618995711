// Package calendar classifies civil dates as working days, weekend days or
// holidays and counts working days over inclusive date ranges. It has no
// state beyond its configuration and is safe for concurrent use.
package calendar

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("invalid date range: start is after end")

// DayKind classifies a single calendar day.
type DayKind string

const (
	KindWorkday DayKind = "workday"
	KindWeekend DayKind = "weekend"
	KindHoliday DayKind = "holiday"
)

const dateLayout = "2006-01-02"

// DefaultWeekend matches the platform's work week (Sunday-Thursday).
var DefaultWeekend = []time.Weekday{time.Friday, time.Saturday}

// Calendar holds a weekend pattern and a set of holiday dates.
type Calendar struct {
	weekend  [7]bool
	holidays map[string]bool
}

// New builds a Calendar. A nil weekendDays slice selects DefaultWeekend.
// Holiday dates are compared by civil date only; their clock time and
// location are ignored.
func New(weekendDays []time.Weekday, holidays []time.Time) *Calendar {
	if weekendDays == nil {
		weekendDays = DefaultWeekend
	}

	c := &Calendar{holidays: make(map[string]bool, len(holidays))}
	for _, wd := range weekendDays {
		c.weekend[wd] = true
	}
	for _, h := range holidays {
		c.holidays[h.Format(dateLayout)] = true
	}
	return c
}

// DayKind returns the classification of date. A holiday falling on a
// weekend day is reported as weekend.
func (c *Calendar) DayKind(date time.Time) DayKind {
	if c.weekend[date.Weekday()] {
		return KindWeekend
	}
	if c.holidays[date.Format(dateLayout)] {
		return KindHoliday
	}
	return KindWorkday
}

// IsWorkingDay reports whether date is neither a weekend day nor a holiday.
func (c *Calendar) IsWorkingDay(date time.Time) bool {
	return c.DayKind(date) == KindWorkday
}

// WorkingDaysBetween counts working days in the inclusive range [start, end].
// Returns ErrInvalidRange when start is after end (by civil date).
func (c *Calendar) WorkingDaysBetween(start, end time.Time) (int, error) {
	start = Truncate(start)
	end = Truncate(end)
	if start.After(end) {
		return 0, ErrInvalidRange
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if c.IsWorkingDay(d) {
			days++
		}
	}
	return days, nil
}

// Truncate drops the clock-time portion of t, keeping the civil date in UTC.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a date in "2006-01-02" form.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// FormatDate renders t as "2006-01-02".
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// SameDate reports whether a and b fall on the same civil date.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
