package leave

import (
	"time"
)

// Type identifies a leave category. The set is fixed by policy, not stored
// per company.
type Type string

const (
	TypeAnnual      Type = "annual"
	TypeSick        Type = "sick"
	TypeUnpaid      Type = "unpaid"
	TypeMaternity   Type = "maternity"
	TypePaternity   Type = "paternity"
	TypeHajj        Type = "hajj"
	TypeEmergency   Type = "emergency"
	TypeMarriage    Type = "marriage"
	TypeBereavement Type = "bereavement"
)

// Balance entity - one row per (employee, leave type).
//
// Invariant: Used + Reserved <= Total. Only the ledger mutates Used and
// Reserved, and only through atomic reserve/commit/release operations.
type Balance struct {
	EmployeeID string
	Type       Type

	Total    int // annual entitlement in working days
	Used     int // committed consumption
	Reserved int // holds backing pending requests

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Remaining returns what a new request may still draw on.
func (b Balance) Remaining() int {
	return b.Total - b.Used - b.Reserved
}

type ReservationStatus string

const (
	ReservationHeld      ReservationStatus = "held"
	ReservationCommitted ReservationStatus = "committed"
	ReservationReleased  ReservationStatus = "released"
)

// Reservation is a provisional hold against a balance. The token is the only
// handle the lifecycle keeps; commit and release are idempotent per token.
type Reservation struct {
	Token      string
	EmployeeID string
	Type       Type
	Days       int
	Status     ReservationStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// Terminal reports whether no further transition may leave this status.
func (s RequestStatus) Terminal() bool {
	switch s {
	case RequestStatusApproved, RequestStatusRejected, RequestStatusCancelled:
		return true
	}
	return false
}

// LeaveRequest entity. Requests are never hard-deleted; cancellation is a
// terminal status, not removal.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	Type       Type

	StartDate time.Time // inclusive, civil date
	EndDate   time.Time // inclusive, civil date
	Days      int       // working days in range, derived at submission

	Reason        string
	AttachmentRef *string

	Status           RequestStatus
	ReservationToken string

	RequestedAt  time.Time
	DecidedBy    *string
	DecidedAt    *time.Time
	DecisionNote *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	EmployeeName *string
}

// Covers reports whether date falls inside the request's inclusive range,
// compared by civil date.
func (r LeaveRequest) Covers(date time.Time) bool {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	s := time.Date(r.StartDate.Year(), r.StartDate.Month(), r.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(r.EndDate.Year(), r.EndDate.Month(), r.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(s) && !d.After(e)
}
