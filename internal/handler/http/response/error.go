package response

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Basel-Alghamdi/HRMS/internal/domain/attendance"
	"github.com/Basel-Alghamdi/HRMS/internal/domain/employee"
	"github.com/Basel-Alghamdi/HRMS/internal/domain/leave"
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/calendar"
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Errors carrying extra detail
	var insufficientErr *leave.InsufficientBalanceError
	if errors.As(err, &insufficientErr) {
		BadRequest(w, "Insufficient leave balance", map[string]string{
			"requested": strconv.Itoa(insufficientErr.Requested),
			"available": strconv.Itoa(insufficientErr.Available),
		})
		return
	}
	var transitionErr *leave.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		Conflict(w, transitionErr.Error())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not provisioned")
	case errors.Is(err, leave.ErrBalanceExists):
		Conflict(w, "Leave balance already provisioned")
	case errors.Is(err, leave.ErrUnknownReservation):
		NotFound(w, "Unknown reservation")
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, "Insufficient leave balance", nil)
	case errors.Is(err, leave.ErrInvalidTransition):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrUnknownLeaveType):
		BadRequest(w, "Unknown leave type", nil)
	case errors.Is(err, leave.ErrLeaveTypeNotAllowed):
		Forbidden(w, "Leave type not allowed for this employee")
	case errors.Is(err, leave.ErrStartDateInPast):
		BadRequest(w, "Start date must not be in the past", nil)
	case errors.Is(err, leave.ErrZeroWorkingDays):
		BadRequest(w, "Requested range contains no working days", nil)
	case errors.Is(err, leave.ErrExceedsMaxDays):
		BadRequest(w, "Request exceeds the maximum days for this leave type", nil)
	case errors.Is(err, leave.ErrAttachmentRequired):
		BadRequest(w, "A supporting attachment is required", nil)
	case errors.Is(err, leave.ErrNotRequestOwner):
		Forbidden(w, "Leave request belongs to another employee")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in for this date")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		Conflict(w, "No check-in recorded for this date")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Already checked out for this date")
	case errors.Is(err, attendance.ErrNotAWorkday):
		BadRequest(w, "Date is not a working day", nil)
	case errors.Is(err, attendance.ErrInvalidCheckOutTime):
		BadRequest(w, "Check-out time is before check-in time", nil)
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")

	// Calendar errors
	case errors.Is(err, calendar.ErrInvalidRange):
		BadRequest(w, "Invalid date range", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
