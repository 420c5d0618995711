package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"

	"github.com/Basel-Alghamdi/HRMS/internal/domain/leave"
	"github.com/Basel-Alghamdi/HRMS/internal/handler/http/response"
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/validator"
	"github.com/Basel-Alghamdi/HRMS/internal/service/file"
)

type LeaveHandler interface {
	SubmitRequest(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	DecideRequest(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)

	ListBalances(w http.ResponseWriter, r *http.Request)
	ProvisionBalance(w http.ResponseWriter, r *http.Request)

	UploadAttachment(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	requestService leave.RequestService
	ledgerService  leave.LedgerService
	fileService    file.FileService
}

func NewLeaveHandler(requestService leave.RequestService, ledgerService leave.LedgerService, fileService file.FileService) LeaveHandler {
	return &LeaveHandlerImpl{
		requestService: requestService,
		ledgerService:  ledgerService,
		fileService:    fileService,
	}
}

// SubmitRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.SubmitLeaveRequestRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SubmitRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	employeeID, ok := claimEmployeeID(r)
	if !ok {
		response.Unauthorized(w, "employee_id claim is missing or invalid")
		return
	}
	// Requests are always submitted for the authenticated employee.
	req.EmployeeID = employeeID

	created, err := l.requestService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", created)
}

// ListRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	filter := leave.RequestFilter{
		EmployeeID: r.URL.Query().Get("employee_id"),
		Status:     r.URL.Query().Get("status"),
	}

	// Non-admins only see their own requests.
	if !claimIsAdmin(r) {
		employeeID, ok := claimEmployeeID(r)
		if !ok {
			response.Unauthorized(w, "employee_id claim is missing or invalid")
			return
		}
		filter.EmployeeID = employeeID
	}

	requests, err := l.requestService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, requests)
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(requestID) {
		response.BadRequest(w, "Request ID must be a valid UUID", nil)
		return
	}

	request, err := l.requestService.Get(r.Context(), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if !claimIsAdmin(r) {
		employeeID, _ := claimEmployeeID(r)
		if request.EmployeeID != employeeID {
			response.Forbidden(w, "Leave request belongs to another employee")
			return
		}
	}

	response.Success(w, request)
}

// DecideRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) DecideRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.DecideLeaveRequestRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("DecideRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	deciderID, ok := claimEmployeeID(r)
	if !ok {
		response.Unauthorized(w, "employee_id claim is missing or invalid")
		return
	}
	req.RequestID = chi.URLParam(r, "id")
	if !validator.IsValidUUID(req.RequestID) {
		response.BadRequest(w, "Request ID must be a valid UUID", nil)
		return
	}
	req.DeciderID = deciderID

	decided, err := l.requestService.Decide(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request decided successfully", decided)
}

// CancelRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := claimEmployeeID(r)
	if !ok {
		response.Unauthorized(w, "employee_id claim is missing or invalid")
		return
	}

	req := leave.CancelLeaveRequestRequest{
		RequestID:  chi.URLParam(r, "id"),
		EmployeeID: employeeID,
	}
	if !validator.IsValidUUID(req.RequestID) {
		response.BadRequest(w, "Request ID must be a valid UUID", nil)
		return
	}

	cancelled, err := l.requestService.Cancel(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled successfully", cancelled)
}

// ListBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) ListBalances(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" || !claimIsAdmin(r) {
		claimed, ok := claimEmployeeID(r)
		if !ok {
			response.Unauthorized(w, "employee_id claim is missing or invalid")
			return
		}
		employeeID = claimed
	}

	typ := leave.Type(r.URL.Query().Get("type"))
	balances, err := l.ledgerService.ListBalances(r.Context(), employeeID, typ)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

// ProvisionBalance implements LeaveHandler.
func (l *LeaveHandlerImpl) ProvisionBalance(w http.ResponseWriter, r *http.Request) {
	var req leave.ProvisionBalanceRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ProvisionBalance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	balance, err := l.ledgerService.Provision(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave balance provisioned successfully", leave.BalanceResponse{
		EmployeeID: balance.EmployeeID,
		Type:       balance.Type,
		Total:      balance.Total,
		Used:       balance.Used,
		Reserved:   balance.Reserved,
		Remaining:  balance.Remaining(),
	})
}

// UploadAttachment implements LeaveHandler.
func (l *LeaveHandlerImpl) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := claimEmployeeID(r)
	if !ok {
		response.Unauthorized(w, "employee_id claim is missing or invalid")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Invalid multipart form", nil)
		return
	}

	uploaded, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "File is required", nil)
		return
	}
	defer uploaded.Close()

	ref, err := l.fileService.UploadLeaveAttachment(r.Context(), employeeID, uploaded, header.Filename)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	response.Created(w, "Attachment uploaded successfully", map[string]string{
		"attachment_ref": ref,
	})
}

func claimEmployeeID(r *http.Request) (string, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", false
	}
	employeeID, ok := claims["employee_id"].(string)
	return employeeID, ok
}

func claimIsAdmin(r *http.Request) bool {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return false
	}
	admin, ok := claims["is_admin"].(bool)
	return ok && admin
}
