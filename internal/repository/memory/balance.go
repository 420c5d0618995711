// Package memory holds mutex-guarded in-memory repository implementations.
// They honor the same atomicity contracts as the PostgreSQL repositories and
// back the service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Basel-Alghamdi/HRMS/internal/domain/leave"
)

type balanceKey struct {
	employeeID string
	typ        leave.Type
}

type BalanceRepository struct {
	mu           sync.Mutex
	balances     map[balanceKey]*leave.Balance
	reservations map[string]*leave.Reservation
}

func NewBalanceRepository() *BalanceRepository {
	return &BalanceRepository{
		balances:     make(map[balanceKey]*leave.Balance),
		reservations: make(map[string]*leave.Reservation),
	}
}

func (r *BalanceRepository) GetBalance(ctx context.Context, employeeID string, typ leave.Type) (leave.Balance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.balances[balanceKey{employeeID, typ}]
	if !ok {
		return leave.Balance{}, leave.ErrBalanceNotFound
	}
	return *b, nil
}

func (r *BalanceRepository) ListBalances(ctx context.Context, employeeID string) ([]leave.Balance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var balances []leave.Balance
	for _, typ := range leave.Types() {
		if b, ok := r.balances[balanceKey{employeeID, typ}]; ok {
			balances = append(balances, *b)
		}
	}
	return balances, nil
}

func (r *BalanceRepository) Provision(ctx context.Context, balance leave.Balance) (leave.Balance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := balanceKey{balance.EmployeeID, balance.Type}
	if _, ok := r.balances[key]; ok {
		return leave.Balance{}, leave.ErrBalanceExists
	}

	now := time.Now().UTC()
	balance.CreatedAt = now
	balance.UpdatedAt = now
	r.balances[key] = &balance
	return balance, nil
}

func (r *BalanceRepository) Reserve(ctx context.Context, employeeID string, typ leave.Type, days int, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.balances[balanceKey{employeeID, typ}]
	if !ok {
		return leave.ErrBalanceNotFound
	}
	if b.Remaining() < days {
		return &leave.InsufficientBalanceError{
			EmployeeID: employeeID,
			Type:       typ,
			Requested:  days,
			Available:  b.Remaining(),
		}
	}

	now := time.Now().UTC()
	b.Reserved += days
	b.UpdatedAt = now
	r.reservations[token] = &leave.Reservation{
		Token:      token,
		EmployeeID: employeeID,
		Type:       typ,
		Days:       days,
		Status:     leave.ReservationHeld,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return nil
}

func (r *BalanceRepository) Commit(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.reservations[token]
	if !ok {
		return leave.ErrUnknownReservation
	}
	if res.Status != leave.ReservationHeld {
		// Terminal reservations are settled; repeating the call is a no-op.
		return nil
	}

	b := r.balances[balanceKey{res.EmployeeID, res.Type}]
	b.Reserved -= res.Days
	b.Used += res.Days
	b.UpdatedAt = time.Now().UTC()

	res.Status = leave.ReservationCommitted
	res.UpdatedAt = b.UpdatedAt
	return nil
}

func (r *BalanceRepository) Release(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.reservations[token]
	if !ok {
		return leave.ErrUnknownReservation
	}
	if res.Status != leave.ReservationHeld {
		return nil
	}

	b := r.balances[balanceKey{res.EmployeeID, res.Type}]
	b.Reserved -= res.Days
	b.UpdatedAt = time.Now().UTC()

	res.Status = leave.ReservationReleased
	res.UpdatedAt = b.UpdatedAt
	return nil
}

func (r *BalanceRepository) GetReservation(ctx context.Context, token string) (leave.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.reservations[token]
	if !ok {
		return leave.Reservation{}, leave.ErrUnknownReservation
	}
	return *res, nil
}
