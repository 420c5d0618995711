package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Basel-Alghamdi/HRMS/internal/domain/leave"
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/database"
)

type requestRepositoryImpl struct {
	db *database.DB
}

func NewRequestRepository(db *database.DB) leave.RequestRepository {
	return &requestRepositoryImpl{db: db}
}

// Create implements leave.RequestRepository.
func (r *requestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type, start_date, end_date, days,
			reason, attachment_ref, status, reservation_token, requested_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.EmployeeID,
		request.Type,
		request.StartDate,
		request.EndDate,
		request.Days,
		request.Reason,
		request.AttachmentRef,
		request.Status,
		request.ReservationToken,
		request.RequestedAt,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)

	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return request, nil
}

// GetByID implements leave.RequestRepository.
func (r *requestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lr.id, lr.employee_id, lr.leave_type, lr.start_date, lr.end_date, lr.days,
			   lr.reason, lr.attachment_ref, lr.status, lr.reservation_token,
			   lr.requested_at, lr.decided_by, lr.decided_at, lr.decision_note,
			   lr.created_at, lr.updated_at,
			   e.full_name AS employee_name
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		WHERE lr.id = $1
	`

	var request leave.LeaveRequest
	err := q.QueryRow(ctx, query, id).Scan(
		&request.ID, &request.EmployeeID, &request.Type,
		&request.StartDate, &request.EndDate, &request.Days,
		&request.Reason, &request.AttachmentRef, &request.Status, &request.ReservationToken,
		&request.RequestedAt, &request.DecidedBy, &request.DecidedAt, &request.DecisionNote,
		&request.CreatedAt, &request.UpdatedAt,
		&request.EmployeeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	return request, nil
}

// List implements leave.RequestRepository.
func (r *requestRepositoryImpl) List(ctx context.Context, filter leave.RequestFilter) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lr.id, lr.employee_id, lr.leave_type, lr.start_date, lr.end_date, lr.days,
			   lr.reason, lr.attachment_ref, lr.status, lr.reservation_token,
			   lr.requested_at, lr.decided_by, lr.decided_at, lr.decision_note,
			   lr.created_at, lr.updated_at,
			   e.full_name AS employee_name
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		WHERE ($1 = '' OR lr.employee_id::text = $1)
		  AND ($2 = '' OR lr.status = $2)
		ORDER BY lr.requested_at DESC
	`

	rows, err := q.Query(ctx, query, filter.EmployeeID, filter.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		var request leave.LeaveRequest
		if err := rows.Scan(
			&request.ID, &request.EmployeeID, &request.Type,
			&request.StartDate, &request.EndDate, &request.Days,
			&request.Reason, &request.AttachmentRef, &request.Status, &request.ReservationToken,
			&request.RequestedAt, &request.DecidedBy, &request.DecidedAt, &request.DecisionNote,
			&request.CreatedAt, &request.UpdatedAt,
			&request.EmployeeName,
		); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	return requests, nil
}

// Update implements leave.RequestRepository.
func (r *requestRepositoryImpl) Update(ctx context.Context, request leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $2, decided_by = $3, decided_at = $4, decision_note = $5,
			updated_at = NOW()
		WHERE id = $1 AND status = $6
	`

	tag, err := q.Exec(ctx, query,
		request.ID,
		request.Status,
		request.DecidedBy,
		request.DecidedAt,
		request.DecisionNote,
		leave.RequestStatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the request does not exist or another decision won.
		var status leave.RequestStatus
		err := q.QueryRow(ctx, `SELECT status FROM leave_requests WHERE id = $1`, request.ID).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.ErrRequestNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get leave request status: %w", err)
		}
		return leave.ErrRequestNotPending
	}

	return nil
}

// ListApprovedOverlapping implements leave.RequestRepository.
func (r *requestRepositoryImpl) ListApprovedOverlapping(ctx context.Context, employeeID string, from, to time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, leave_type, start_date, end_date, days,
			   reason, attachment_ref, status, reservation_token,
			   requested_at, decided_by, decided_at, decision_note,
			   created_at, updated_at
		FROM leave_requests
		WHERE employee_id = $1 AND status = $2
		  AND start_date <= $4 AND end_date >= $3
		ORDER BY start_date
	`

	rows, err := q.Query(ctx, query, employeeID, leave.RequestStatusApproved, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave requests: %w", err)
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		var request leave.LeaveRequest
		if err := rows.Scan(
			&request.ID, &request.EmployeeID, &request.Type,
			&request.StartDate, &request.EndDate, &request.Days,
			&request.Reason, &request.AttachmentRef, &request.Status, &request.ReservationToken,
			&request.RequestedAt, &request.DecidedBy, &request.DecidedAt, &request.DecisionNote,
			&request.CreatedAt, &request.UpdatedAt,
		); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	return requests, nil
}
