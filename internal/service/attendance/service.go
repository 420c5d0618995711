package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Basel-Alghamdi/HRMS/internal/domain/attendance"
	"github.com/Basel-Alghamdi/HRMS/internal/domain/employee"
	"github.com/Basel-Alghamdi/HRMS/internal/domain/leave"
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/calendar"
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/clock"
)

// ShiftConfig carries the working-hours rules the tracker derives statuses
// from.
type ShiftConfig struct {
	ShiftStart   string // "15:04"
	ShiftEnd     string // "15:04"
	GraceMinutes int
	WeekendDays  []time.Weekday
}

// AttendanceServiceImpl implements attendance.AttendanceService.
type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	holidayRepo    leave.HolidayRepository
	requestRepo    leave.RequestRepository
	clock          clock.Clock

	shiftStart   timeOfDay
	shiftEnd     timeOfDay
	graceMinutes int
	weekendDays  []time.Weekday
}

type timeOfDay struct {
	hour, minute int
}

// on anchors the time of day to a civil date, in UTC.
func (t timeOfDay) on(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.hour, t.minute, 0, 0, time.UTC)
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	holidayRepo leave.HolidayRepository,
	requestRepo leave.RequestRepository,
	clk clock.Clock,
	cfg ShiftConfig,
) (*AttendanceServiceImpl, error) {
	start, err := parseTimeOfDay(cfg.ShiftStart)
	if err != nil {
		return nil, fmt.Errorf("failed to parse shift start: %w", err)
	}
	end, err := parseTimeOfDay(cfg.ShiftEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to parse shift end: %w", err)
	}

	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		holidayRepo:    holidayRepo,
		requestRepo:    requestRepo,
		clock:          clk,
		shiftStart:     start,
		shiftEnd:       end,
		graceMinutes:   cfg.GraceMinutes,
		weekendDays:    cfg.WeekendDays,
	}, nil
}

func parseTimeOfDay(s string) (timeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return timeOfDay{}, err
	}
	return timeOfDay{hour: t.Hour(), minute: t.Minute()}, nil
}

func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	date, checkIn, err := s.resolveMoment(req.Date, req.Time)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	cal, err := s.calendarFor(ctx, date, date)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !cal.IsWorkingDay(date) {
		return attendance.AttendanceResponse{}, attendance.ErrNotAWorkday
	}

	record := attendance.Attendance{
		EmployeeID:  req.EmployeeID,
		Date:        date,
		CheckInTime: &checkIn,
		Status:      attendance.StatusPresent,
	}

	// Late only once the grace window after shift start has fully passed.
	deadline := s.shiftStart.on(date).Add(time.Duration(s.graceMinutes) * time.Minute)
	if checkIn.After(deadline) {
		lateMinutes := int(checkIn.Sub(s.shiftStart.on(date)).Minutes())
		record.Status = attendance.StatusLate
		record.LateMinutes = &lateMinutes
	}

	created, err := s.attendanceRepo.Create(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}
	return toResponse(created), nil
}

func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, checkOut, err := s.resolveMoment(req.Date, req.Time)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	if record.CheckInTime == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if record.CheckOutTime != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}
	if checkOut.Before(*record.CheckInTime) {
		return attendance.AttendanceResponse{}, attendance.ErrInvalidCheckOutTime
	}

	worked := roundHours(checkOut.Sub(*record.CheckInTime))
	record.CheckOutTime = &checkOut
	record.WorkedHours = &worked

	if shiftEnd := s.shiftEnd.on(date); checkOut.Before(shiftEnd) {
		earlyMinutes := int(shiftEnd.Sub(checkOut).Minutes())
		record.EarlyLeaveMinutes = &earlyMinutes
	}

	// A late day stays late after check-out.
	if err := s.attendanceRepo.Update(ctx, record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}
	return toResponse(record), nil
}

func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, req attendance.RangeRequest) ([]attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	from, err := calendar.ParseDate(req.From)
	if err != nil {
		return nil, fmt.Errorf("failed to parse from date: %w", err)
	}
	to, err := calendar.ParseDate(req.To)
	if err != nil {
		return nil, fmt.Errorf("failed to parse to date: %w", err)
	}
	if from.After(to) {
		return nil, calendar.ErrInvalidRange
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	days, err := s.deriveRange(ctx, req.EmployeeID, from, to)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(days))
	for _, d := range days {
		responses = append(responses, toResponse(d))
	}
	return responses, nil
}

func (s *AttendanceServiceImpl) GetSummary(ctx context.Context, employeeID string, year int, month int) (attendance.SummaryResponse, error) {
	if month < 1 || month > 12 {
		return attendance.SummaryResponse{}, calendar.ErrInvalidRange
	}

	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	days, err := s.deriveRange(ctx, employeeID, from, to)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	summary := attendance.SummaryResponse{
		EmployeeID: employeeID,
		Year:       year,
		Month:      month,
	}
	for _, d := range days {
		switch d.Status {
		case attendance.StatusWeekend, attendance.StatusHoliday:
			continue
		}
		summary.WorkingDays++

		switch d.Status {
		case attendance.StatusPresent:
			summary.PresentDays++
		case attendance.StatusLate:
			summary.PresentDays++
			summary.LateDays++
		case attendance.StatusAbsent:
			summary.AbsentDays++
		case attendance.StatusOnLeave:
			summary.LeaveDays++
		}
		if d.WorkedHours != nil {
			summary.TotalWorkedHours += *d.WorkedHours
		}
	}
	if summary.WorkingDays > 0 {
		pct := float64(summary.PresentDays) / float64(summary.WorkingDays) * 100
		summary.AttendancePercentage = math.Round(pct*100) / 100
	}
	summary.TotalWorkedHours = math.Round(summary.TotalWorkedHours*100) / 100

	return summary, nil
}

// deriveRange produces one record per day in [from, to]. Stored rows win;
// everything else is synthesized from the calendar, approved leave and the
// current time.
func (s *AttendanceServiceImpl) deriveRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	cal, err := s.calendarFor(ctx, from, to)
	if err != nil {
		return nil, err
	}

	stored, err := s.attendanceRepo.ListByEmployeeRange(ctx, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	byDate := make(map[string]attendance.Attendance, len(stored))
	for _, rec := range stored {
		byDate[calendar.FormatDate(rec.Date)] = rec
	}

	approved, err := s.requestRepo.ListApprovedOverlapping(ctx, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}

	today := calendar.Truncate(s.clock.Now())

	var days []attendance.Attendance
	for d := calendar.Truncate(from); !d.After(calendar.Truncate(to)); d = d.AddDate(0, 0, 1) {
		if rec, ok := byDate[calendar.FormatDate(d)]; ok {
			days = append(days, rec)
			continue
		}

		day := attendance.Attendance{EmployeeID: employeeID, Date: d}
		switch cal.DayKind(d) {
		case calendar.KindWeekend:
			day.Status = attendance.StatusWeekend
		case calendar.KindHoliday:
			day.Status = attendance.StatusHoliday
		default:
			switch {
			case onApprovedLeave(approved, d):
				day.Status = attendance.StatusOnLeave
			case d.Before(today):
				// Workday fully elapsed with no check-in.
				day.Status = attendance.StatusAbsent
			default:
				day.Status = attendance.StatusNotCheckedIn
			}
		}
		days = append(days, day)
	}
	return days, nil
}

func onApprovedLeave(approved []leave.LeaveRequest, date time.Time) bool {
	for _, r := range approved {
		if r.Covers(date) {
			return true
		}
	}
	return false
}

// resolveMoment turns optional date and time overrides into a civil date and
// an instant on that date. Missing parts default to the current clock.
func (s *AttendanceServiceImpl) resolveMoment(dateStr, timeStr *string) (time.Time, time.Time, error) {
	now := s.clock.Now()
	date := calendar.Truncate(now)
	if dateStr != nil {
		parsed, err := calendar.ParseDate(*dateStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
		date = parsed
	}

	moment := time.Date(date.Year(), date.Month(), date.Day(),
		now.Hour(), now.Minute(), now.Second(), 0, time.UTC)
	if timeStr != nil {
		tod, err := parseTimeOfDay(*timeStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("failed to parse time: %w", err)
		}
		moment = tod.on(date)
	}
	return date, moment, nil
}

func (s *AttendanceServiceImpl) calendarFor(ctx context.Context, from, to time.Time) (*calendar.Calendar, error) {
	holidays, err := s.holidayRepo.ListDates(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	return calendar.New(s.weekendDays, holidays), nil
}

func roundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}

func toResponse(a attendance.Attendance) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		ID:                a.ID,
		EmployeeID:        a.EmployeeID,
		Date:              calendar.FormatDate(a.Date),
		Status:            a.Status,
		WorkedHours:       a.WorkedHours,
		LateMinutes:       a.LateMinutes,
		EarlyLeaveMinutes: a.EarlyLeaveMinutes,
	}
	if a.CheckInTime != nil {
		t := a.CheckInTime.Format(time.RFC3339)
		resp.CheckInTime = &t
	}
	if a.CheckOutTime != nil {
		t := a.CheckOutTime.Format(time.RFC3339)
		resp.CheckOutTime = &t
	}
	return resp
}
