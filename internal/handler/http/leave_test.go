package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Basel-Alghamdi/HRMS/internal/domain/attendance"
	"github.com/Basel-Alghamdi/HRMS/internal/domain/employee"
	"github.com/Basel-Alghamdi/HRMS/internal/domain/leave"
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/calendar"
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/clock"
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/jwt"
	"github.com/Basel-Alghamdi/HRMS/internal/repository/memory"
	attendanceService "github.com/Basel-Alghamdi/HRMS/internal/service/attendance"
	"github.com/Basel-Alghamdi/HRMS/internal/service/file"
	leaveService "github.com/Basel-Alghamdi/HRMS/internal/service/leave"
)

const testSecret = "test-secret-key-for-jwt"

type apiFixture struct {
	server     *httptest.Server
	jwtService jwt.Service
	employeeID string
	adminID    string
	ledger     leave.LedgerService
}

// Sunday 2024-12-15 is a working day under the Friday/Saturday weekend.
var apiNow = time.Date(2024, 12, 15, 10, 0, 0, 0, time.UTC)

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	employeeRepo := memory.NewEmployeeRepository()
	balanceRepo := memory.NewBalanceRepository()
	requestRepo := memory.NewRequestRepository()
	holidayRepo := memory.NewHolidayRepository()
	attendanceRepo := memory.NewAttendanceRepository()

	emp, err := employeeRepo.Create(context.Background(), employee.Employee{
		FullName: "API Employee",
		Gender:   employee.GenderMale,
		HireDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	admin, err := employeeRepo.Create(context.Background(), employee.Employee{
		FullName: "API Admin",
		Gender:   employee.GenderFemale,
		HireDate: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	fixedClock := clock.At(apiNow)
	jwtService := jwt.NewJWTService(testSecret)

	ledger := leaveService.NewLedgerService(balanceRepo, employeeRepo)
	requests := leaveService.NewRequestService(
		requestRepo, holidayRepo, employeeRepo, ledger, fixedClock, calendar.DefaultWeekend)
	attendanceSvc, err := attendanceService.NewAttendanceService(
		attendanceRepo, employeeRepo, holidayRepo, requestRepo, fixedClock,
		attendanceService.ShiftConfig{
			ShiftStart:   "09:00",
			ShiftEnd:     "17:00",
			GraceMinutes: 15,
			WeekendDays:  calendar.DefaultWeekend,
		})
	require.NoError(t, err)

	fileService := file.NewFileService(nil)
	router := NewRouter(jwtService,
		NewLeaveHandler(requests, ledger, fileService),
		NewAttendanceHandler(attendanceSvc, fixedClock))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &apiFixture{
		server:     server,
		jwtService: jwtService,
		employeeID: emp.ID,
		adminID:    admin.ID,
		ledger:     ledger,
	}
}

func (f *apiFixture) token(t *testing.T, employeeID string, isAdmin bool) string {
	t.Helper()
	_, tokenString, err := f.jwtService.JWTAuth().Encode(map[string]interface{}{
		"employee_id": employeeID,
		"is_admin":    isAdmin,
	})
	require.NoError(t, err)
	return tokenString
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success)
	if out != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
}

func (f *apiFixture) provisionAnnual(t *testing.T, total int) {
	t.Helper()
	adminToken := f.token(t, f.adminID, true)
	resp := f.do(t, http.MethodPost, "/api/v1/leaves/balances", adminToken, map[string]interface{}{
		"employee_id": f.employeeID,
		"leave_type":  "annual",
		"total":       total,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func TestAPIRequiresToken(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodGet, "/api/v1/leaves", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPILeaveLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	f.provisionAnnual(t, 21)

	employeeToken := f.token(t, f.employeeID, false)
	adminToken := f.token(t, f.adminID, true)

	// Submit Thursday through Monday; the weekend does not count.
	resp := f.do(t, http.MethodPost, "/api/v1/leaves", employeeToken, map[string]string{
		"leave_type": "annual",
		"start_date": "2024-12-19",
		"end_date":   "2024-12-23",
		"reason":     "family travel arrangements",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created leave.LeaveRequestResponse
	decodeData(t, resp, &created)
	assert.Equal(t, 3, created.Days)
	assert.Equal(t, "pending", created.Status)

	// Only an admin may decide.
	resp = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/leaves/%s/decision", created.ID),
		employeeToken, map[string]string{"decision": "approve"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/leaves/%s/decision", created.ID),
		adminToken, map[string]string{"decision": "approve"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decided leave.LeaveRequestResponse
	decodeData(t, resp, &decided)
	assert.Equal(t, "approved", decided.Status)

	// The hold became consumption.
	resp = f.do(t, http.MethodGet, "/api/v1/leaves/balances?type=annual", employeeToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var balances []leave.BalanceResponse
	decodeData(t, resp, &balances)
	require.Len(t, balances, 1)
	assert.Equal(t, 3, balances[0].Used)
	assert.Equal(t, 0, balances[0].Reserved)
	assert.Equal(t, 18, balances[0].Remaining)
}

func TestAPIInsufficientBalanceDetails(t *testing.T) {
	f := newAPIFixture(t)
	f.provisionAnnual(t, 2)

	employeeToken := f.token(t, f.employeeID, false)
	resp := f.do(t, http.MethodPost, "/api/v1/leaves", employeeToken, map[string]string{
		"leave_type": "annual",
		"start_date": "2024-12-19",
		"end_date":   "2024-12-23",
		"reason":     "family travel arrangements",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var envelope struct {
		Error struct {
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "3", envelope.Error.Details["requested"])
	assert.Equal(t, "2", envelope.Error.Details["available"])
}

func TestAPIAttendanceFlow(t *testing.T) {
	f := newAPIFixture(t)
	employeeToken := f.token(t, f.employeeID, false)

	resp := f.do(t, http.MethodPost, "/api/v1/attendance/check-in", employeeToken,
		map[string]string{"time": "09:20"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var checkedIn map[string]interface{}
	decodeData(t, resp, &checkedIn)
	assert.Equal(t, "late", checkedIn["status"])

	resp = f.do(t, http.MethodPost, "/api/v1/attendance/check-in", employeeToken,
		map[string]string{"time": "09:30"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodPost, "/api/v1/attendance/check-out", employeeToken,
		map[string]string{"time": "17:30"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var checkedOut map[string]interface{}
	decodeData(t, resp, &checkedOut)
	assert.InDelta(t, 8.17, checkedOut["worked_hours"].(float64), 0.001)
	assert.Equal(t, "late", checkedOut["status"])
}

func TestAPISummaryDefaultsToCurrentMonth(t *testing.T) {
	f := newAPIFixture(t)
	employeeToken := f.token(t, f.employeeID, false)

	resp := f.do(t, http.MethodPost, "/api/v1/attendance/check-in", employeeToken,
		map[string]string{"time": "09:00"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// No year/month params: the handler fills them from its clock.
	resp = f.do(t, http.MethodGet, "/api/v1/attendance/summary", employeeToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary attendance.SummaryResponse
	decodeData(t, resp, &summary)
	assert.Equal(t, apiNow.Year(), summary.Year)
	assert.Equal(t, int(apiNow.Month()), summary.Month)
	assert.Equal(t, 23, summary.WorkingDays)
	assert.Equal(t, 1, summary.PresentDays)
}
