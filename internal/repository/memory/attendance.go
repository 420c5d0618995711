package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Basel-Alghamdi/HRMS/internal/domain/attendance"
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/calendar"
)

type attendanceKey struct {
	employeeID string
	date       string
}

type AttendanceRepository struct {
	mu      sync.Mutex
	records map[attendanceKey]*attendance.Attendance
}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{
		records: make(map[attendanceKey]*attendance.Attendance),
	}
}

// Create inserts the record. Duplicate (employee, date) pairs fail with
// ErrAlreadyCheckedIn; the check and insert happen under one lock so
// concurrent check-ins have exactly one winner.
func (r *AttendanceRepository) Create(ctx context.Context, record attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := attendanceKey{record.EmployeeID, calendar.FormatDate(record.Date)}
	if _, ok := r.records[key]; ok {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	stored := record
	r.records[key] = &stored
	return record, nil
}

func (r *AttendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[attendanceKey{employeeID, calendar.FormatDate(date)}]
	if !ok {
		return attendance.Attendance{}, attendance.ErrRecordNotFound
	}
	return *rec, nil
}

func (r *AttendanceRepository) Update(ctx context.Context, record attendance.Attendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := attendanceKey{record.EmployeeID, calendar.FormatDate(record.Date)}
	if _, ok := r.records[key]; !ok {
		return attendance.ErrRecordNotFound
	}
	record.UpdatedAt = time.Now().UTC()

	stored := record
	r.records[key] = &stored
	return nil
}

func (r *AttendanceRepository) ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	from = calendar.Truncate(from)
	to = calendar.Truncate(to)

	var records []attendance.Attendance
	for _, rec := range r.records {
		if rec.EmployeeID != employeeID {
			continue
		}
		d := calendar.Truncate(rec.Date)
		if d.Before(from) || d.After(to) {
			continue
		}
		records = append(records, *rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, nil
}
