package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn opens the employee's day, deriving present/late status.
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes the day and derives worked hours.
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// GetAttendance returns one record per day in the range, synthesizing
	// weekend/holiday placeholders and deriving absent/on_leave statuses.
	GetAttendance(ctx context.Context, req RangeRequest) ([]AttendanceResponse, error)

	// GetSummary aggregates a calendar month.
	GetSummary(ctx context.Context, employeeID string, year int, month int) (SummaryResponse, error)
}
