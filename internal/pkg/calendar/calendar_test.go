package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayKind(t *testing.T) {
	holiday := date(2024, time.September, 23) // Monday
	c := New(nil, []time.Time{holiday})

	cases := []struct {
		name string
		day  time.Time
		want DayKind
	}{
		{"sunday is a workday", date(2024, time.December, 15), KindWorkday},
		{"thursday is a workday", date(2024, time.December, 19), KindWorkday},
		{"friday is weekend", date(2024, time.December, 20), KindWeekend},
		{"saturday is weekend", date(2024, time.December, 21), KindWeekend},
		{"configured holiday", holiday, KindHoliday},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.DayKind(tc.day))
		})
	}
}

func TestDayKindHolidayOnWeekend(t *testing.T) {
	// A holiday landing on a weekend day still reads as weekend.
	holiday := date(2024, time.December, 20) // Friday
	c := New(nil, []time.Time{holiday})
	assert.Equal(t, KindWeekend, c.DayKind(holiday))
}

func TestWorkingDaysBetween(t *testing.T) {
	c := New(nil, nil)

	cases := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		// Thu-Mon with Fri/Sat weekend: Thu, Sun, Mon count.
		{"thursday through monday", date(2024, time.December, 19), date(2024, time.December, 23), 3},
		{"single workday", date(2024, time.December, 18), date(2024, time.December, 18), 1},
		{"single weekend day", date(2024, time.December, 20), date(2024, time.December, 20), 0},
		{"range entirely inside weekend", date(2024, time.December, 20), date(2024, time.December, 21), 0},
		{"full week", date(2024, time.December, 15), date(2024, time.December, 21), 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.WorkingDaysBetween(tc.start, tc.end)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestWorkingDaysBetweenInvalidRange(t *testing.T) {
	c := New(nil, nil)
	_, err := c.WorkingDaysBetween(date(2024, time.December, 23), date(2024, time.December, 19))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestWorkingDaysBetweenIgnoresClockTime(t *testing.T) {
	c := New(nil, nil)
	start := time.Date(2024, time.December, 18, 23, 50, 0, 0, time.UTC)
	end := time.Date(2024, time.December, 18, 0, 5, 0, 0, time.UTC)
	got, err := c.WorkingDaysBetween(start, end)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestWorkingDaysBetweenExcludesHolidays(t *testing.T) {
	c := New(nil, []time.Time{date(2024, time.December, 18)})
	got, err := c.WorkingDaysBetween(date(2024, time.December, 15), date(2024, time.December, 19))
	require.NoError(t, err)
	assert.Equal(t, 4, got)
}

// Splitting any range at a point must not change the total count.
func TestWorkingDaysAdditivity(t *testing.T) {
	c := New(nil, []time.Time{date(2025, time.January, 1)})
	start := date(2024, time.December, 10)
	end := date(2025, time.January, 20)

	whole, err := c.WorkingDaysBetween(start, end)
	require.NoError(t, err)

	for split := start; split.Before(end); split = split.AddDate(0, 0, 1) {
		left, err := c.WorkingDaysBetween(start, split)
		require.NoError(t, err)
		right, err := c.WorkingDaysBetween(split.AddDate(0, 0, 1), end)
		require.NoError(t, err)
		assert.Equal(t, whole, left+right, "split at %s", FormatDate(split))
	}
}

func TestCustomWeekend(t *testing.T) {
	c := New([]time.Weekday{time.Saturday, time.Sunday}, nil)
	assert.Equal(t, KindWeekend, c.DayKind(date(2024, time.December, 22))) // Sunday
	assert.Equal(t, KindWorkday, c.DayKind(date(2024, time.December, 20))) // Friday
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-12-19")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.December, 19), d)

	_, err = ParseDate("19/12/2024")
	assert.Error(t, err)
}
