package attendance

import (
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/validator"
)

type CheckInRequest struct {
	EmployeeID string `json:"employee_id"`
	// Date defaults to today; Time to now. Overrides are for administrative
	// backfill and tests.
	Date *string `json:"date,omitempty"` // "2006-01-02"
	Time *string `json:"time,omitempty"` // "15:04"
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be a valid date (YYYY-MM-DD)",
			})
		}
	}

	if r.Time != nil {
		if _, ok := validator.IsValidTimeOfDay(*r.Time); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "time",
				Message: "time must be HH:MM (24-hour)",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckOutRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       *string `json:"date,omitempty"`
	Time       *string `json:"time,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be a valid date (YYYY-MM-DD)",
			})
		}
	}

	if r.Time != nil {
		if _, ok := validator.IsValidTimeOfDay(*r.Time); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "time",
				Message: "time must be HH:MM (24-hour)",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RangeRequest struct {
	EmployeeID string `json:"employee_id"`
	From       string `json:"from"`
	To         string `json:"to"`
}

func (r *RangeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.From); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must be a valid date (YYYY-MM-DD)",
		})
	}

	if _, ok := validator.IsValidDate(r.To); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must be a valid date (YYYY-MM-DD)",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceResponse struct {
	ID                string   `json:"id,omitempty"`
	EmployeeID        string   `json:"employee_id"`
	Date              string   `json:"date"`
	Status            Status   `json:"status"`
	CheckInTime       *string  `json:"check_in_time,omitempty"`
	CheckOutTime      *string  `json:"check_out_time,omitempty"`
	WorkedHours       *float64 `json:"worked_hours,omitempty"`
	LateMinutes       *int     `json:"late_minutes,omitempty"`
	EarlyLeaveMinutes *int     `json:"early_leave_minutes,omitempty"`
}

// SummaryResponse aggregates one employee's month.
type SummaryResponse struct {
	EmployeeID           string  `json:"employee_id"`
	Year                 int     `json:"year"`
	Month                int     `json:"month"`
	WorkingDays          int     `json:"working_days"`
	PresentDays          int     `json:"present_days"`
	LateDays             int     `json:"late_days"`
	AbsentDays           int     `json:"absent_days"`
	LeaveDays            int     `json:"leave_days"`
	TotalWorkedHours     float64 `json:"total_worked_hours"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}
