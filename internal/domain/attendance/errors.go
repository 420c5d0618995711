package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyCheckedIn    = errors.New("already checked in for this date")
	ErrNotCheckedIn        = errors.New("no check-in recorded for this date")
	ErrAlreadyCheckedOut   = errors.New("already checked out for this date")
	ErrNotAWorkday         = errors.New("date is not a working day")
	ErrInvalidCheckOutTime = errors.New("check-out time is before check-in time")
	ErrRecordNotFound      = errors.New("attendance record not found")
)
