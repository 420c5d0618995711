package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Basel-Alghamdi/HRMS/internal/domain/attendance"
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// Create implements attendance.AttendanceRepository.
//
// The unique index on (employee_id, date) decides the winner under
// concurrent check-ins; the losing insert comes back with no row.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, record attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (
			id, employee_id, date, check_in_time, status, late_minutes
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5
		)
		ON CONFLICT (employee_id, date) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.EmployeeID,
		record.Date,
		record.CheckInTime,
		record.Status,
		record.LateMinutes,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return record, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, date, check_in_time, check_out_time,
			   status, worked_hours, late_minutes, early_leave_minutes,
			   created_at, updated_at
		FROM attendances
		WHERE employee_id = $1 AND date = $2
	`

	var record attendance.Attendance
	err := q.QueryRow(ctx, query, employeeID, date).Scan(
		&record.ID, &record.EmployeeID, &record.Date,
		&record.CheckInTime, &record.CheckOutTime,
		&record.Status, &record.WorkedHours, &record.LateMinutes, &record.EarlyLeaveMinutes,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrRecordNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	return record, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, record attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET check_out_time = $2, status = $3, worked_hours = $4,
			late_minutes = $5, early_leave_minutes = $6, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		record.ID,
		record.CheckOutTime,
		record.Status,
		record.WorkedHours,
		record.LateMinutes,
		record.EarlyLeaveMinutes,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}

	return nil
}

// ListByEmployeeRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, date, check_in_time, check_out_time,
			   status, worked_hours, late_minutes, early_leave_minutes,
			   created_at, updated_at
		FROM attendances
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		var record attendance.Attendance
		if err := rows.Scan(
			&record.ID, &record.EmployeeID, &record.Date,
			&record.CheckInTime, &record.CheckOutTime,
			&record.Status, &record.WorkedHours, &record.LateMinutes, &record.EarlyLeaveMinutes,
			&record.CreatedAt, &record.UpdatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}
