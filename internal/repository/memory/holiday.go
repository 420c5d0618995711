package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Basel-Alghamdi/HRMS/internal/pkg/calendar"
)

type HolidayRepository struct {
	mu    sync.Mutex
	dates []time.Time
}

func NewHolidayRepository(dates ...time.Time) *HolidayRepository {
	truncated := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		truncated = append(truncated, calendar.Truncate(d))
	}
	return &HolidayRepository{dates: truncated}
}

func (r *HolidayRepository) Add(date time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dates = append(r.dates, calendar.Truncate(date))
}

func (r *HolidayRepository) ListDates(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	from = calendar.Truncate(from)
	to = calendar.Truncate(to)

	var dates []time.Time
	for _, d := range r.dates {
		if d.Before(from) || d.After(to) {
			continue
		}
		dates = append(dates, d)
	}
	return dates, nil
}
