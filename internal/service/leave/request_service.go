package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Basel-Alghamdi/HRMS/internal/domain/employee"
	"github.com/Basel-Alghamdi/HRMS/internal/domain/leave"
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/calendar"
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/clock"
)

// RequestServiceImpl implements leave.RequestService. Decisions are
// serialized on the request row: the repository's pending-status
// compare-and-swap picks a single winner, and only the winner settles the
// reservation, so the ledger always reflects the recorded decision.
type RequestServiceImpl struct {
	requestRepo  leave.RequestRepository
	holidayRepo  leave.HolidayRepository
	employeeRepo employee.EmployeeRepository
	ledger       leave.LedgerService
	clock        clock.Clock
	weekendDays  []time.Weekday
}

func NewRequestService(
	requestRepo leave.RequestRepository,
	holidayRepo leave.HolidayRepository,
	employeeRepo employee.EmployeeRepository,
	ledger leave.LedgerService,
	clk clock.Clock,
	weekendDays []time.Weekday,
) *RequestServiceImpl {
	return &RequestServiceImpl{
		requestRepo:  requestRepo,
		holidayRepo:  holidayRepo,
		employeeRepo: employeeRepo,
		ledger:       ledger,
		clock:        clk,
		weekendDays:  weekendDays,
	}
}

func (s *RequestServiceImpl) Submit(ctx context.Context, req leave.SubmitLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	typ := leave.Type(req.Type)
	policy, ok := leave.PolicyFor(typ)
	if !ok {
		return leave.LeaveRequestResponse{}, leave.ErrUnknownLeaveType
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !policy.AllowsGender(emp.Gender) {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveTypeNotAllowed
	}

	start, err := calendar.ParseDate(req.StartDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	end, err := calendar.ParseDate(req.EndDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse end date: %w", err)
	}
	if start.After(end) {
		return leave.LeaveRequestResponse{}, calendar.ErrInvalidRange
	}

	today := calendar.Truncate(s.clock.Now())
	if start.Before(today) {
		return leave.LeaveRequestResponse{}, leave.ErrStartDateInPast
	}

	days, err := s.countWorkingDays(ctx, start, end)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if days == 0 {
		return leave.LeaveRequestResponse{}, leave.ErrZeroWorkingDays
	}
	if policy.MaxDaysPerRequest > 0 && days > policy.MaxDaysPerRequest {
		return leave.LeaveRequestResponse{}, leave.ErrExceedsMaxDays
	}
	if policy.AttachmentRequired(days) && (req.AttachmentRef == nil || *req.AttachmentRef == "") {
		return leave.LeaveRequestResponse{}, leave.ErrAttachmentRequired
	}

	token, err := s.ledger.Reserve(ctx, req.EmployeeID, typ, days)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request := leave.LeaveRequest{
		EmployeeID:       req.EmployeeID,
		Type:             typ,
		StartDate:        start,
		EndDate:          end,
		Days:             days,
		Reason:           req.Reason,
		AttachmentRef:    req.AttachmentRef,
		Status:           leave.RequestStatusPending,
		ReservationToken: token,
		RequestedAt:      s.clock.Now(),
	}

	created, err := s.requestRepo.Create(ctx, request)
	if err != nil {
		// Give the held days back; the request row never existed.
		if releaseErr := s.ledger.Release(ctx, token); releaseErr != nil {
			slog.Error("Failed to release reservation after create failure",
				"token", token, "error", releaseErr)
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	created.EmployeeName = &emp.FullName
	return toRequestResponse(created), nil
}

func (s *RequestServiceImpl) Decide(ctx context.Context, req leave.DecideLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := s.requestRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	if request.Status != leave.RequestStatusPending {
		return leave.LeaveRequestResponse{}, &leave.InvalidTransitionError{
			From:      request.Status,
			Attempted: req.Decision,
		}
	}

	switch req.Decision {
	case leave.DecisionApprove:
		request.Status = leave.RequestStatusApproved
	case leave.DecisionReject:
		request.Status = leave.RequestStatusRejected
	}

	now := s.clock.Now()
	request.DecidedBy = &req.DeciderID
	request.DecidedAt = &now
	request.DecisionNote = req.Note

	// The pending-status swap inside Update is the serialization point: of
	// two concurrent decisions exactly one lands, and only the winner
	// touches the ledger below.
	if err := s.requestRepo.Update(ctx, request); err != nil {
		if errors.Is(err, leave.ErrRequestNotPending) {
			return leave.LeaveRequestResponse{}, s.transitionConflict(ctx, req.RequestID, req.Decision)
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	switch req.Decision {
	case leave.DecisionApprove:
		if err := s.ledger.Commit(ctx, request.ReservationToken); err != nil {
			return leave.LeaveRequestResponse{}, err
		}
	case leave.DecisionReject:
		if err := s.ledger.Release(ctx, request.ReservationToken); err != nil {
			return leave.LeaveRequestResponse{}, err
		}
	}
	return toRequestResponse(request), nil
}

// transitionConflict re-reads a request that lost the pending-status swap and
// reports the state it is actually in.
func (s *RequestServiceImpl) transitionConflict(ctx context.Context, requestID, attempted string) error {
	current, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to get leave request: %w", err)
	}
	return &leave.InvalidTransitionError{
		From:      current.Status,
		Attempted: attempted,
	}
}

func (s *RequestServiceImpl) Cancel(ctx context.Context, req leave.CancelLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := s.requestRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	if request.EmployeeID != req.EmployeeID {
		return leave.LeaveRequestResponse{}, leave.ErrNotRequestOwner
	}
	if request.Status != leave.RequestStatusPending {
		return leave.LeaveRequestResponse{}, &leave.InvalidTransitionError{
			From:      request.Status,
			Attempted: "cancel",
		}
	}

	now := s.clock.Now()
	request.Status = leave.RequestStatusCancelled
	request.DecidedBy = &req.EmployeeID
	request.DecidedAt = &now

	if err := s.requestRepo.Update(ctx, request); err != nil {
		if errors.Is(err, leave.ErrRequestNotPending) {
			return leave.LeaveRequestResponse{}, s.transitionConflict(ctx, req.RequestID, "cancel")
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	if err := s.ledger.Release(ctx, request.ReservationToken); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return toRequestResponse(request), nil
}

func (s *RequestServiceImpl) Get(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return toRequestResponse(request), nil
}

func (s *RequestServiceImpl) List(ctx context.Context, filter leave.RequestFilter) ([]leave.LeaveRequestResponse, error) {
	requests, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, toRequestResponse(r))
	}
	return responses, nil
}

func (s *RequestServiceImpl) countWorkingDays(ctx context.Context, start, end time.Time) (int, error) {
	holidays, err := s.holidayRepo.ListDates(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to list holidays: %w", err)
	}

	cal := calendar.New(s.weekendDays, holidays)
	days, err := cal.WorkingDaysBetween(start, end)
	if err != nil {
		return 0, err
	}
	return days, nil
}

func toRequestResponse(r leave.LeaveRequest) leave.LeaveRequestResponse {
	resp := leave.LeaveRequestResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		EmployeeName:  r.EmployeeName,
		Type:          r.Type,
		StartDate:     calendar.FormatDate(r.StartDate),
		EndDate:       calendar.FormatDate(r.EndDate),
		Days:          r.Days,
		Reason:        r.Reason,
		AttachmentRef: r.AttachmentRef,
		Status:        string(r.Status),
		RequestedAt:   r.RequestedAt.Format(time.RFC3339),
		DecidedBy:     r.DecidedBy,
		DecisionNote:  r.DecisionNote,
	}
	if r.DecidedAt != nil {
		decidedAt := r.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &decidedAt
	}
	return resp
}
