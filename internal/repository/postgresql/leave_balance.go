package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Basel-Alghamdi/HRMS/internal/domain/leave"
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/database"
)

type balanceRepositoryImpl struct {
	db *database.DB
}

func NewBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &balanceRepositoryImpl{db: db}
}

// GetBalance implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) GetBalance(ctx context.Context, employeeID string, typ leave.Type) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, leave_type, total, used, reserved, created_at, updated_at
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type = $2
	`

	var balance leave.Balance
	err := q.QueryRow(ctx, query, employeeID, typ).Scan(
		&balance.EmployeeID, &balance.Type,
		&balance.Total, &balance.Used, &balance.Reserved,
		&balance.CreatedAt, &balance.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}

	return balance, nil
}

// ListBalances implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) ListBalances(ctx context.Context, employeeID string) ([]leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, leave_type, total, used, reserved, created_at, updated_at
		FROM leave_balances
		WHERE employee_id = $1
		ORDER BY leave_type
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	balances := make([]leave.Balance, 0)
	for rows.Next() {
		var balance leave.Balance
		if err := rows.Scan(
			&balance.EmployeeID, &balance.Type,
			&balance.Total, &balance.Used, &balance.Reserved,
			&balance.CreatedAt, &balance.UpdatedAt,
		); err != nil {
			return nil, err
		}
		balances = append(balances, balance)
	}

	return balances, nil
}

// Provision implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) Provision(ctx context.Context, balance leave.Balance) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (employee_id, leave_type, total, used, reserved)
		VALUES ($1, $2, $3, 0, 0)
		ON CONFLICT (employee_id, leave_type) DO NOTHING
		RETURNING employee_id, leave_type, total, used, reserved, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, balance.EmployeeID, balance.Type, balance.Total).Scan(
		&balance.EmployeeID, &balance.Type,
		&balance.Total, &balance.Used, &balance.Reserved,
		&balance.CreatedAt, &balance.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, leave.ErrBalanceExists
		}
		return leave.Balance{}, fmt.Errorf("failed to provision leave balance: %w", err)
	}

	return balance, nil
}

// Reserve implements leave.BalanceRepository.
//
// The hold is a single conditional UPDATE, so two concurrent reservations
// can never both fit into the same remaining balance.
func (r *balanceRepositoryImpl) Reserve(ctx context.Context, employeeID string, typ leave.Type, days int, token string) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		query := `
			UPDATE leave_balances
			SET reserved = reserved + $3, updated_at = NOW()
			WHERE employee_id = $1 AND leave_type = $2
			  AND total - used - reserved >= $3
		`

		tag, err := q.Exec(ctx, query, employeeID, typ, days)
		if err != nil {
			return fmt.Errorf("failed to reserve leave days: %w", err)
		}
		if tag.RowsAffected() == 0 {
			balance, err := r.GetBalance(ctx, employeeID, typ)
			if err != nil {
				return err
			}
			return &leave.InsufficientBalanceError{
				EmployeeID: employeeID,
				Type:       typ,
				Requested:  days,
				Available:  balance.Remaining(),
			}
		}

		insert := `
			INSERT INTO leave_reservations (token, employee_id, leave_type, days, status)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := q.Exec(ctx, insert, token, employeeID, typ, days, leave.ReservationHeld); err != nil {
			return fmt.Errorf("failed to record reservation: %w", err)
		}
		return nil
	})
}

// Commit implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) Commit(ctx context.Context, token string) error {
	return r.settle(ctx, token, leave.ReservationCommitted, `
		UPDATE leave_balances
		SET reserved = reserved - $3, used = used + $3, updated_at = NOW()
		WHERE employee_id = $1 AND leave_type = $2
	`)
}

// Release implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) Release(ctx context.Context, token string) error {
	return r.settle(ctx, token, leave.ReservationReleased, `
		UPDATE leave_balances
		SET reserved = reserved - $3, updated_at = NOW()
		WHERE employee_id = $1 AND leave_type = $2
	`)
}

// settle flips a held reservation to a terminal status and applies the
// balance update. The status guard on the UPDATE makes repeated commits and
// releases no-ops.
func (r *balanceRepositoryImpl) settle(ctx context.Context, token string, to leave.ReservationStatus, balanceUpdate string) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		query := `
			UPDATE leave_reservations
			SET status = $2, updated_at = NOW()
			WHERE token = $1 AND status = $3
			RETURNING employee_id, leave_type, days
		`

		var (
			employeeID string
			typ        leave.Type
			days       int
		)
		err := q.QueryRow(ctx, query, token, to, leave.ReservationHeld).Scan(&employeeID, &typ, &days)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				// Already settled, or never issued.
				if _, getErr := r.GetReservation(ctx, token); getErr != nil {
					return getErr
				}
				return nil
			}
			return fmt.Errorf("failed to settle reservation: %w", err)
		}

		if _, err := q.Exec(ctx, balanceUpdate, employeeID, typ, days); err != nil {
			return fmt.Errorf("failed to update leave balance: %w", err)
		}
		return nil
	})
}

// GetReservation implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) GetReservation(ctx context.Context, token string) (leave.Reservation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT token, employee_id, leave_type, days, status, created_at, updated_at
		FROM leave_reservations
		WHERE token = $1
	`

	var res leave.Reservation
	err := q.QueryRow(ctx, query, token).Scan(
		&res.Token, &res.EmployeeID, &res.Type, &res.Days, &res.Status,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Reservation{}, leave.ErrUnknownReservation
		}
		return leave.Reservation{}, fmt.Errorf("failed to get reservation: %w", err)
	}

	return res, nil
}
