package leave

import (
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/validator"
)

// MinReasonLength is the shortest acceptable request reason, in bytes.
const MinReasonLength = 10

type SubmitLeaveRequestRequest struct {
	EmployeeID    string  `json:"employee_id"`
	Type          string  `json:"leave_type"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	Reason        string  `json:"reason"`
	AttachmentRef *string `json:"attachment_ref,omitempty"`
}

func (r *SubmitLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.Type) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type is required",
		})
	}

	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	} else if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be a valid date (YYYY-MM-DD)",
		})
	}

	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required",
		})
	} else if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be a valid date (YYYY-MM-DD)",
		})
	}

	if len(r.Reason) < MinReasonLength {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must be at least 10 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

type DecideLeaveRequestRequest struct {
	RequestID string  `json:"request_id"`
	DeciderID string  `json:"decider_id"`
	Decision  string  `json:"decision"`
	Note      *string `json:"note,omitempty"`
}

func (r *DecideLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_id",
			Message: "request_id is required",
		})
	}

	if validator.IsEmpty(r.DeciderID) {
		errs = append(errs, validator.ValidationError{
			Field:   "decider_id",
			Message: "decider_id is required",
		})
	}

	if !validator.IsInSlice(r.Decision, []string{DecisionApprove, DecisionReject}) {
		errs = append(errs, validator.ValidationError{
			Field:   "decision",
			Message: "decision must be either 'approve' or 'reject'",
		})
	}

	if r.Decision == DecisionReject && (r.Note == nil || validator.IsEmpty(*r.Note)) {
		errs = append(errs, validator.ValidationError{
			Field:   "note",
			Message: "note is required when rejecting",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CancelLeaveRequestRequest struct {
	RequestID  string `json:"request_id"`
	EmployeeID string `json:"employee_id"`
}

func (r *CancelLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_id",
			Message: "request_id is required",
		})
	}

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ProvisionBalanceRequest struct {
	EmployeeID string `json:"employee_id"`
	Type       string `json:"leave_type"`
	// Total overrides the policy's default entitlement when set.
	Total *int `json:"total,omitempty"`
}

func (r *ProvisionBalanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.Type) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type is required",
		})
	}

	if r.Total != nil && *r.Total < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "total",
			Message: "total must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type BalanceResponse struct {
	EmployeeID string `json:"employee_id"`
	Type       Type   `json:"leave_type"`
	Total      int    `json:"total"`
	Used       int    `json:"used"`
	Reserved   int    `json:"reserved"`
	Remaining  int    `json:"remaining"`
}

type LeaveRequestResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  *string `json:"employee_name,omitempty"`
	Type          Type    `json:"leave_type"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	Days          int     `json:"days"`
	Reason        string  `json:"reason"`
	AttachmentRef *string `json:"attachment_ref,omitempty"`
	Status        string  `json:"status"`
	RequestedAt   string  `json:"requested_at"`
	DecidedBy     *string `json:"decided_by,omitempty"`
	DecidedAt     *string `json:"decided_at,omitempty"`
	DecisionNote  *string `json:"decision_note,omitempty"`
}

// RequestFilter narrows request listings.
type RequestFilter struct {
	EmployeeID string
	Status     string
}
