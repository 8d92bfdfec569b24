package timespent

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=repository.go -destination=../mocks/timespent/mock_repository.go -package=mock_timespent

// Repository is the remote side of time tracking.
type Repository interface {
	// AddTimeSpent adds minutes to the user's day. Repeating a call adds again.
	AddTimeSpent(ctx context.Context, userID, day string, minutes int) error
	// TotalMinutes returns the server-confirmed total.
	TotalMinutes(ctx context.Context, userID string) (int, error)
	// FindDays returns the per-day totals from since onwards.
	FindDays(ctx context.Context, userID, since string) ([]DayTotal, error)
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

func (r *DBRepository) AddTimeSpent(ctx context.Context, userID, day string, minutes int) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO time_spent (user_id, day, minutes) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE minutes = minutes + VALUES(minutes)`,
		userID, day, minutes); err != nil {
		return fmt.Errorf("db.ExecContext(add time_spent) > %w", err)
	}
	return nil
}

func (r *DBRepository) TotalMinutes(ctx context.Context, userID string) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		"SELECT COALESCE(SUM(minutes), 0) FROM time_spent WHERE user_id = ?", userID); err != nil {
		return 0, fmt.Errorf("db.GetContext(sum time_spent) > %w", err)
	}
	return total, nil
}

func (r *DBRepository) FindDays(ctx context.Context, userID, since string) ([]DayTotal, error) {
	var days []DayTotal
	if err := r.db.SelectContext(ctx, &days,
		`SELECT DATE_FORMAT(day, '%Y-%m-%d') AS day, minutes
		FROM time_spent WHERE user_id = ? AND day >= ? ORDER BY day`,
		userID, since); err != nil {
		return nil, fmt.Errorf("db.SelectContext(time_spent) > %w", err)
	}
	return days, nil
}
