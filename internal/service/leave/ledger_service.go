package leave

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Basel-Alghamdi/HRMS/internal/domain/employee"
	"github.com/Basel-Alghamdi/HRMS/internal/domain/leave"
)

// LedgerServiceImpl implements leave.LedgerService on top of a
// BalanceRepository. It owns token issuance; the repository owns atomicity.
type LedgerServiceImpl struct {
	balanceRepo  leave.BalanceRepository
	employeeRepo employee.EmployeeRepository
}

func NewLedgerService(balanceRepo leave.BalanceRepository, employeeRepo employee.EmployeeRepository) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		balanceRepo:  balanceRepo,
		employeeRepo: employeeRepo,
	}
}

func (s *LedgerServiceImpl) GetBalance(ctx context.Context, employeeID string, typ leave.Type) (leave.Balance, error) {
	if _, ok := leave.PolicyFor(typ); !ok {
		return leave.Balance{}, leave.ErrUnknownLeaveType
	}

	balance, err := s.balanceRepo.GetBalance(ctx, employeeID, typ)
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return balance, nil
}

func (s *LedgerServiceImpl) ListBalances(ctx context.Context, employeeID string, typ leave.Type) ([]leave.BalanceResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	if typ != "" {
		balance, err := s.GetBalance(ctx, employeeID, typ)
		if err != nil {
			return nil, err
		}
		return []leave.BalanceResponse{toBalanceResponse(balance)}, nil
	}

	balances, err := s.balanceRepo.ListBalances(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}

	responses := make([]leave.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, toBalanceResponse(b))
	}
	return responses, nil
}

func (s *LedgerServiceImpl) Provision(ctx context.Context, req leave.ProvisionBalanceRequest) (leave.Balance, error) {
	if err := req.Validate(); err != nil {
		return leave.Balance{}, err
	}

	typ := leave.Type(req.Type)
	policy, ok := leave.PolicyFor(typ)
	if !ok {
		return leave.Balance{}, leave.ErrUnknownLeaveType
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !policy.AllowsGender(emp.Gender) {
		return leave.Balance{}, leave.ErrLeaveTypeNotAllowed
	}

	total := policy.DefaultEntitlement
	if req.Total != nil {
		total = *req.Total
	}

	balance, err := s.balanceRepo.Provision(ctx, leave.Balance{
		EmployeeID: req.EmployeeID,
		Type:       typ,
		Total:      total,
	})
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to provision leave balance: %w", err)
	}
	return balance, nil
}

func (s *LedgerServiceImpl) Reserve(ctx context.Context, employeeID string, typ leave.Type, days int) (string, error) {
	if _, ok := leave.PolicyFor(typ); !ok {
		return "", leave.ErrUnknownLeaveType
	}
	if days < 1 {
		return "", leave.ErrZeroWorkingDays
	}

	token := uuid.NewString()
	if err := s.balanceRepo.Reserve(ctx, employeeID, typ, days, token); err != nil {
		return "", fmt.Errorf("failed to reserve leave days: %w", err)
	}
	return token, nil
}

func (s *LedgerServiceImpl) Commit(ctx context.Context, token string) error {
	if err := s.balanceRepo.Commit(ctx, token); err != nil {
		return fmt.Errorf("failed to commit reservation: %w", err)
	}
	return nil
}

func (s *LedgerServiceImpl) Release(ctx context.Context, token string) error {
	if err := s.balanceRepo.Release(ctx, token); err != nil {
		return fmt.Errorf("failed to release reservation: %w", err)
	}
	return nil
}

func toBalanceResponse(b leave.Balance) leave.BalanceResponse {
	return leave.BalanceResponse{
		EmployeeID: b.EmployeeID,
		Type:       b.Type,
		Total:      b.Total,
		Used:       b.Used,
		Reserved:   b.Reserved,
		Remaining:  b.Remaining(),
	}
}
