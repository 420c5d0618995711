package attendance

import (
	"time"
)

type Status string

const (
	StatusNotCheckedIn Status = "not_checked_in"
	StatusPresent      Status = "present"
	StatusLate         Status = "late"
	StatusAbsent       Status = "absent"
	StatusOnLeave      Status = "on_leave"
	StatusWeekend      Status = "weekend"
	StatusHoliday      Status = "holiday"
)

// Attendance is one employee's record for one calendar day. Rows exist only
// for days the employee interacted with; weekend, holiday, absent and
// on-leave statuses are synthesized at read time.
type Attendance struct {
	ID         string
	EmployeeID string
	Date       time.Time // civil date

	CheckInTime  *time.Time
	CheckOutTime *time.Time

	Status            Status
	WorkedHours       *float64 // set at check-out
	LateMinutes       *int
	EarlyLeaveMinutes *int

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName *string
}
