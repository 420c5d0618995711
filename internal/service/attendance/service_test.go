package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Basel-Alghamdi/HRMS/internal/domain/attendance"
	"github.com/Basel-Alghamdi/HRMS/internal/domain/employee"
	"github.com/Basel-Alghamdi/HRMS/internal/domain/leave"
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/calendar"
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/clock"
	"github.com/Basel-Alghamdi/HRMS/internal/repository/memory"
)

type attendanceFixture struct {
	employeeID  string
	requestRepo *memory.RequestRepository
	holidayRepo *memory.HolidayRepository
	service     *AttendanceServiceImpl
}

func newAttendanceFixture(t *testing.T, now time.Time) *attendanceFixture {
	t.Helper()

	employeeRepo := memory.NewEmployeeRepository()
	emp, err := employeeRepo.Create(context.Background(), employee.Employee{
		FullName: "Attendance Employee",
		Gender:   employee.GenderMale,
		HireDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	requestRepo := memory.NewRequestRepository()
	holidayRepo := memory.NewHolidayRepository()

	svc, err := NewAttendanceService(
		memory.NewAttendanceRepository(),
		employeeRepo,
		holidayRepo,
		requestRepo,
		clock.At(now),
		ShiftConfig{
			ShiftStart:   "09:00",
			ShiftEnd:     "17:00",
			GraceMinutes: 15,
			WeekendDays:  calendar.DefaultWeekend,
		},
	)
	require.NoError(t, err)

	return &attendanceFixture{
		employeeID:  emp.ID,
		requestRepo: requestRepo,
		holidayRepo: holidayRepo,
		service:     svc,
	}
}

func strptr(s string) *string { return &s }

func (f *attendanceFixture) checkIn(t *testing.T, date, tod string) (attendance.AttendanceResponse, error) {
	t.Helper()
	return f.service.CheckIn(context.Background(), attendance.CheckInRequest{
		EmployeeID: f.employeeID,
		Date:       strptr(date),
		Time:       strptr(tod),
	})
}

func (f *attendanceFixture) checkOut(t *testing.T, date, tod string) (attendance.AttendanceResponse, error) {
	t.Helper()
	return f.service.CheckOut(context.Background(), attendance.CheckOutRequest{
		EmployeeID: f.employeeID,
		Date:       strptr(date),
		Time:       strptr(tod),
	})
}

// Monday 2024-12-16, mid-morning.
var attendanceNow = time.Date(2024, 12, 16, 10, 0, 0, 0, time.UTC)

func TestCheckInWithinGraceIsPresent(t *testing.T) {
	f := newAttendanceFixture(t, attendanceNow)

	resp, err := f.checkIn(t, "2024-12-16", "09:10")
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
	assert.Nil(t, resp.LateMinutes)
}

func TestCheckInAtGraceBoundaryIsPresent(t *testing.T) {
	f := newAttendanceFixture(t, attendanceNow)

	resp, err := f.checkIn(t, "2024-12-16", "09:15")
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
}

func TestCheckInAfterGraceIsLate(t *testing.T) {
	f := newAttendanceFixture(t, attendanceNow)

	resp, err := f.checkIn(t, "2024-12-16", "09:20")
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, resp.Status)
	require.NotNil(t, resp.LateMinutes)
	// Lateness counts from shift start, not from the grace deadline.
	assert.Equal(t, 20, *resp.LateMinutes)
}

func TestCheckInOnWeekendFails(t *testing.T) {
	f := newAttendanceFixture(t, attendanceNow)

	_, err := f.checkIn(t, "2024-12-20", "09:00")
	assert.ErrorIs(t, err, attendance.ErrNotAWorkday)
}

func TestCheckInOnHolidayFails(t *testing.T) {
	f := newAttendanceFixture(t, attendanceNow)
	f.holidayRepo.Add(time.Date(2024, 12, 16, 0, 0, 0, 0, time.UTC))

	_, err := f.checkIn(t, "2024-12-16", "09:00")
	assert.ErrorIs(t, err, attendance.ErrNotAWorkday)
}

func TestDoubleCheckInFails(t *testing.T) {
	f := newAttendanceFixture(t, attendanceNow)

	_, err := f.checkIn(t, "2024-12-16", "09:00")
	require.NoError(t, err)

	_, err = f.checkIn(t, "2024-12-16", "09:30")
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestConcurrentCheckInsHaveOneWinner(t *testing.T) {
	f := newAttendanceFixture(t, attendanceNow)

	const workers = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	var wins, duplicates int
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.checkIn(t, "2024-12-16", "09:00")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, attendance.ErrAlreadyCheckedIn):
				duplicates++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, workers-1, duplicates)
}

func TestCheckOutDerivesWorkedHours(t *testing.T) {
	f := newAttendanceFixture(t, attendanceNow)

	_, err := f.checkIn(t, "2024-12-16", "09:20")
	require.NoError(t, err)

	resp, err := f.checkOut(t, "2024-12-16", "17:30")
	require.NoError(t, err)
	require.NotNil(t, resp.WorkedHours)
	assert.InDelta(t, 8.17, *resp.WorkedHours, 0.001)
	// A late morning stays late after check-out.
	assert.Equal(t, attendance.StatusLate, resp.Status)
	assert.Nil(t, resp.EarlyLeaveMinutes)
}

func TestCheckOutBeforeShiftEndRecordsEarlyLeave(t *testing.T) {
	f := newAttendanceFixture(t, attendanceNow)

	_, err := f.checkIn(t, "2024-12-16", "09:00")
	require.NoError(t, err)

	resp, err := f.checkOut(t, "2024-12-16", "16:00")
	require.NoError(t, err)
	require.NotNil(t, resp.EarlyLeaveMinutes)
	assert.Equal(t, 60, *resp.EarlyLeaveMinutes)
}

func TestCheckOutWithoutCheckInFails(t *testing.T) {
	f := newAttendanceFixture(t, attendanceNow)

	_, err := f.checkOut(t, "2024-12-16", "17:00")
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestCheckOutBeforeCheckInFails(t *testing.T) {
	f := newAttendanceFixture(t, attendanceNow)

	_, err := f.checkIn(t, "2024-12-16", "09:00")
	require.NoError(t, err)

	_, err = f.checkOut(t, "2024-12-16", "08:30")
	assert.ErrorIs(t, err, attendance.ErrInvalidCheckOutTime)
}

func TestDoubleCheckOutFails(t *testing.T) {
	f := newAttendanceFixture(t, attendanceNow)

	_, err := f.checkIn(t, "2024-12-16", "09:00")
	require.NoError(t, err)
	_, err = f.checkOut(t, "2024-12-16", "17:00")
	require.NoError(t, err)

	_, err = f.checkOut(t, "2024-12-16", "18:00")
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func (f *attendanceFixture) approveLeave(t *testing.T, start, end time.Time) {
	t.Helper()
	_, err := f.requestRepo.Create(context.Background(), leave.LeaveRequest{
		EmployeeID: f.employeeID,
		Type:       leave.TypeAnnual,
		StartDate:  start,
		EndDate:    end,
		Days:       1,
		Status:     leave.RequestStatusApproved,
	})
	require.NoError(t, err)
}

func TestGetAttendanceDerivesStatuses(t *testing.T) {
	// Wednesday 2024-12-18; the 15th through 17th have fully elapsed.
	f := newAttendanceFixture(t, time.Date(2024, 12, 18, 8, 0, 0, 0, time.UTC))

	_, err := f.checkIn(t, "2024-12-16", "09:00")
	require.NoError(t, err)
	f.approveLeave(t,
		time.Date(2024, 12, 17, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 17, 0, 0, 0, 0, time.UTC))

	records, err := f.service.GetAttendance(context.Background(), attendance.RangeRequest{
		EmployeeID: f.employeeID,
		From:       "2024-12-13",
		To:         "2024-12-19",
	})
	require.NoError(t, err)
	require.Len(t, records, 7)

	byDate := make(map[string]attendance.Status, len(records))
	for _, rec := range records {
		byDate[rec.Date] = rec.Status
	}

	assert.Equal(t, attendance.StatusWeekend, byDate["2024-12-13"])      // Friday
	assert.Equal(t, attendance.StatusWeekend, byDate["2024-12-14"])      // Saturday
	assert.Equal(t, attendance.StatusAbsent, byDate["2024-12-15"])       // elapsed, no record
	assert.Equal(t, attendance.StatusPresent, byDate["2024-12-16"])      // stored row
	assert.Equal(t, attendance.StatusOnLeave, byDate["2024-12-17"])      // approved leave
	assert.Equal(t, attendance.StatusNotCheckedIn, byDate["2024-12-18"]) // today
	assert.Equal(t, attendance.StatusNotCheckedIn, byDate["2024-12-19"]) // future
}

func TestGetAttendanceSynthesizesHoliday(t *testing.T) {
	f := newAttendanceFixture(t, time.Date(2024, 12, 18, 8, 0, 0, 0, time.UTC))
	f.holidayRepo.Add(time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC))

	records, err := f.service.GetAttendance(context.Background(), attendance.RangeRequest{
		EmployeeID: f.employeeID,
		From:       "2024-12-15",
		To:         "2024-12-15",
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, attendance.StatusHoliday, records[0].Status)
}

func TestGetAttendanceInvalidRange(t *testing.T) {
	f := newAttendanceFixture(t, attendanceNow)

	_, err := f.service.GetAttendance(context.Background(), attendance.RangeRequest{
		EmployeeID: f.employeeID,
		From:       "2024-12-19",
		To:         "2024-12-13",
	})
	assert.ErrorIs(t, err, calendar.ErrInvalidRange)
}

func TestGetSummaryAggregatesMonth(t *testing.T) {
	// New Year's Eve; every December workday except the 31st has elapsed.
	f := newAttendanceFixture(t, time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC))

	_, err := f.checkIn(t, "2024-12-16", "09:00")
	require.NoError(t, err)
	_, err = f.checkOut(t, "2024-12-16", "17:00")
	require.NoError(t, err)

	_, err = f.checkIn(t, "2024-12-17", "09:30")
	require.NoError(t, err)
	_, err = f.checkOut(t, "2024-12-17", "17:00")
	require.NoError(t, err)

	f.approveLeave(t,
		time.Date(2024, 12, 22, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 23, 0, 0, 0, 0, time.UTC))

	summary, err := f.service.GetSummary(context.Background(), f.employeeID, 2024, 12)
	require.NoError(t, err)

	// December 2024 has 8 Friday/Saturday days, leaving 23 workdays.
	assert.Equal(t, 23, summary.WorkingDays)
	assert.Equal(t, 2, summary.PresentDays)
	assert.Equal(t, 1, summary.LateDays)
	assert.Equal(t, 2, summary.LeaveDays)
	assert.Equal(t, 18, summary.AbsentDays)
	assert.InDelta(t, 15.5, summary.TotalWorkedHours, 0.001)
	assert.InDelta(t, 8.7, summary.AttendancePercentage, 0.01)
}

func TestGetSummaryRejectsBadMonth(t *testing.T) {
	f := newAttendanceFixture(t, attendanceNow)

	_, err := f.service.GetSummary(context.Background(), f.employeeID, 2024, 13)
	assert.ErrorIs(t, err, calendar.ErrInvalidRange)
}
