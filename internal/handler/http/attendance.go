package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Basel-Alghamdi/HRMS/internal/domain/attendance"
	"github.com/Basel-Alghamdi/HRMS/internal/handler/http/response"
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/calendar"
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/clock"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	GetAttendance(w http.ResponseWriter, r *http.Request)
	GetSummary(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	clock             clock.Clock
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, clk clock.Clock) AttendanceHandler {
	return &AttendanceHandlerImpl{
		attendanceService: attendanceService,
		clock:             clk,
	}
}

// CheckIn implements AttendanceHandler.
func (a *AttendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckInRequest

	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Error("CheckIn decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	employeeID, ok := claimEmployeeID(r)
	if !ok {
		response.Unauthorized(w, "employee_id claim is missing or invalid")
		return
	}
	req.EmployeeID = employeeID

	record, err := a.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in successfully", record)
}

// CheckOut implements AttendanceHandler.
func (a *AttendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckOutRequest

	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Error("CheckOut decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	employeeID, ok := claimEmployeeID(r)
	if !ok {
		response.Unauthorized(w, "employee_id claim is missing or invalid")
		return
	}
	req.EmployeeID = employeeID

	record, err := a.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out successfully", record)
}

// GetAttendance implements AttendanceHandler.
func (a *AttendanceHandlerImpl) GetAttendance(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" || !claimIsAdmin(r) {
		claimed, ok := claimEmployeeID(r)
		if !ok {
			response.Unauthorized(w, "employee_id claim is missing or invalid")
			return
		}
		employeeID = claimed
	}

	req := attendance.RangeRequest{
		EmployeeID: employeeID,
		From:       r.URL.Query().Get("from"),
		To:         r.URL.Query().Get("to"),
	}

	records, err := a.attendanceService.GetAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// GetSummary implements AttendanceHandler.
func (a *AttendanceHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" || !claimIsAdmin(r) {
		claimed, ok := claimEmployeeID(r)
		if !ok {
			response.Unauthorized(w, "employee_id claim is missing or invalid")
			return
		}
		employeeID = claimed
	}

	// Default to the current month.
	now := calendar.Truncate(a.clock.Now())
	year := now.Year()
	month := int(now.Month())

	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "year must be a number", nil)
			return
		}
		year = parsed
	}
	if v := r.URL.Query().Get("month"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "month must be a number", nil)
			return
		}
		month = parsed
	}

	summary, err := a.attendanceService.GetSummary(r.Context(), employeeID, year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}
