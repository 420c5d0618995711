package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Basel-Alghamdi/HRMS/internal/domain/leave"
)

type RequestRepository struct {
	mu       sync.Mutex
	requests map[string]*leave.LeaveRequest
}

func NewRequestRepository() *RequestRepository {
	return &RequestRepository{
		requests: make(map[string]*leave.LeaveRequest),
	}
}

func (r *RequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	request.CreatedAt = now
	request.UpdatedAt = now

	stored := request
	r.requests[request.ID] = &stored
	return request, nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrRequestNotFound
	}
	return *req, nil
}

func (r *RequestRepository) List(ctx context.Context, filter leave.RequestFilter) ([]leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var requests []leave.LeaveRequest
	for _, req := range r.requests {
		if filter.EmployeeID != "" && req.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Status != "" && string(req.Status) != filter.Status {
			continue
		}
		requests = append(requests, *req)
	}

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].RequestedAt.After(requests[j].RequestedAt)
	})
	return requests, nil
}

func (r *RequestRepository) Update(ctx context.Context, request leave.LeaveRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.requests[request.ID]
	if !ok {
		return leave.ErrRequestNotFound
	}
	if existing.Status != leave.RequestStatusPending {
		return leave.ErrRequestNotPending
	}
	request.UpdatedAt = time.Now().UTC()

	stored := request
	r.requests[request.ID] = &stored
	return nil
}

func (r *RequestRepository) ListApprovedOverlapping(ctx context.Context, employeeID string, from, to time.Time) ([]leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var requests []leave.LeaveRequest
	for _, req := range r.requests {
		if req.EmployeeID != employeeID || req.Status != leave.RequestStatusApproved {
			continue
		}
		if req.StartDate.After(to) || req.EndDate.Before(from) {
			continue
		}
		requests = append(requests, *req)
	}

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].StartDate.Before(requests[j].StartDate)
	})
	return requests, nil
}
