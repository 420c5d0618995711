package leave

import (
	"errors"
	"fmt"
)

var (
	ErrRequestNotFound     = errors.New("leave request not found")
	ErrRequestNotPending   = errors.New("leave request is no longer pending")
	ErrBalanceNotFound     = errors.New("leave balance not provisioned")
	ErrBalanceExists       = errors.New("leave balance already provisioned")
	ErrUnknownReservation  = errors.New("unknown reservation token")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrInvalidTransition   = errors.New("invalid leave request transition")

	ErrUnknownLeaveType    = errors.New("unknown leave type")
	ErrLeaveTypeNotAllowed = errors.New("leave type not allowed for this employee")
	ErrStartDateInPast     = errors.New("start date must not be in the past")
	ErrZeroWorkingDays     = errors.New("requested range contains no working days")
	ErrExceedsMaxDays      = errors.New("request exceeds the maximum days for this leave type")
	ErrAttachmentRequired  = errors.New("a supporting attachment is required")
	ErrNotRequestOwner     = errors.New("leave request belongs to another employee")
)

// InsufficientBalanceError carries how much was asked for and how much the
// balance could still cover.
type InsufficientBalanceError struct {
	EmployeeID string
	Type       Type
	Requested  int
	Available  int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance: requested %d days, %d available",
		e.Type, e.Requested, e.Available)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

// InvalidTransitionError records the state a transition was attempted from.
type InvalidTransitionError struct {
	From      RequestStatus
	Attempted string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a leave request in status %q", e.Attempted, e.From)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
