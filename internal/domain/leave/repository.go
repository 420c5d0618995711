package leave

import (
	"context"
	"time"
)

// BalanceRepository - storage for leave_balances and reservations.
//
// Reserve, Commit and Release are the atomic primitives behind the ledger.
// Implementations must guarantee that Reserve is a single check-and-increment
// per (employee, type): two concurrent reservations must never both succeed
// when only one fits the remaining balance.
type BalanceRepository interface {
	GetBalance(ctx context.Context, employeeID string, typ Type) (Balance, error)
	ListBalances(ctx context.Context, employeeID string) ([]Balance, error)
	Provision(ctx context.Context, balance Balance) (Balance, error)

	// Reserve holds days against the balance under the given token.
	// Fails with *InsufficientBalanceError when remaining < days.
	Reserve(ctx context.Context, employeeID string, typ Type, days int, token string) error

	// Commit moves a held reservation's days from reserved to used.
	// No-op when the token is already committed; ErrUnknownReservation when
	// the token was never issued.
	Commit(ctx context.Context, token string) error

	// Release returns a held reservation's days to the available balance.
	// Same idempotency contract as Commit.
	Release(ctx context.Context, token string) error

	GetReservation(ctx context.Context, token string) (Reservation, error)
}

// RequestRepository - storage for leave_requests.
type RequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]LeaveRequest, error)

	// Update writes the decision fields of a pending request. It is a
	// compare-and-swap on status: when the stored request is no longer
	// pending it fails with ErrRequestNotPending and writes nothing, so
	// concurrent decisions have exactly one winner.
	Update(ctx context.Context, request LeaveRequest) error

	// ListApprovedOverlapping returns approved requests whose inclusive date
	// range intersects [from, to]. Used for the read-time on-leave derivation.
	ListApprovedOverlapping(ctx context.Context, employeeID string, from, to time.Time) ([]LeaveRequest, error)
}

// HolidayRepository - read access to the public holiday calendar.
type HolidayRepository interface {
	// ListDates returns holiday dates within the inclusive range [from, to].
	ListDates(ctx context.Context, from, to time.Time) ([]time.Time, error)
}
