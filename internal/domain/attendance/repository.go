package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for attendance records.
//
// Create must be atomic on the (employee, date) key: under concurrent
// check-ins for the same day exactly one call succeeds and the rest fail
// with ErrAlreadyCheckedIn.
type AttendanceRepository interface {
	Create(ctx context.Context, record Attendance) (Attendance, error)

	// GetByEmployeeAndDate returns the record for one civil date, or
	// ErrRecordNotFound.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)

	Update(ctx context.Context, record Attendance) error

	// ListByEmployeeRange returns stored records with dates in [from, to],
	// ordered by date.
	ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)
}
