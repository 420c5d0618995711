package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/Basel-Alghamdi/HRMS/internal/domain/leave"
	"github.com/Basel-Alghamdi/HRMS/internal/pkg/database"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) leave.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// ListDates implements leave.HolidayRepository.
func (r *holidayRepositoryImpl) ListDates(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT date
		FROM holidays
		WHERE date BETWEEN $1 AND $2
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	dates := make([]time.Time, 0)
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}

	return dates, nil
}
