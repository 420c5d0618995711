package leave

import (
	"context"
)

// LedgerService owns every mutation of Balance.Used and Balance.Reserved.
type LedgerService interface {
	GetBalance(ctx context.Context, employeeID string, typ Type) (Balance, error)
	ListBalances(ctx context.Context, employeeID string, typ Type) ([]BalanceResponse, error)
	Provision(ctx context.Context, req ProvisionBalanceRequest) (Balance, error)

	// Reserve atomically holds days and returns the reservation token.
	Reserve(ctx context.Context, employeeID string, typ Type, days int) (string, error)
	Commit(ctx context.Context, token string) error
	Release(ctx context.Context, token string) error
}

// RequestService drives the leave request lifecycle
// (pending -> approved | rejected | cancelled).
type RequestService interface {
	Submit(ctx context.Context, req SubmitLeaveRequestRequest) (LeaveRequestResponse, error)
	Decide(ctx context.Context, req DecideLeaveRequestRequest) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, req CancelLeaveRequestRequest) (LeaveRequestResponse, error)
	Get(ctx context.Context, requestID string) (LeaveRequestResponse, error)
	List(ctx context.Context, filter RequestFilter) ([]LeaveRequestResponse, error)
}
