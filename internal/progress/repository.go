// Package progress tracks per-lesson resume position and completion, locally first and remotely in the background.
package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/lingosync/internal/lesson"
)

// Record is one row of lesson_progress. There is one per user and lesson.
type Record struct {
	UserID    string    `db:"user_id" json:"user_id"`
	LessonID  lesson.ID `db:"lesson_id" json:"lesson_id"`
	LastPage  int       `db:"last_page" json:"last_page"`
	Completed bool      `db:"completed" json:"completed"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

//go:generate mockgen -source=repository.go -destination=../mocks/progress/mock_repository.go -package=mock_progress

// Repository reads and upserts lesson_progress rows.
type Repository interface {
	// FindProgress returns nil when the user has no row for the lesson.
	FindProgress(ctx context.Context, userID string, lessonID lesson.ID) (*Record, error)
	FindByUser(ctx context.Context, userID string) ([]Record, error)
	// UpsertProgress writes by (user_id, lesson_id). A completed row stays completed.
	UpsertProgress(ctx context.Context, record *Record) error
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

func (r *DBRepository) FindProgress(ctx context.Context, userID string, lessonID lesson.ID) (*Record, error) {
	var record Record
	err := r.db.GetContext(ctx, &record,
		`SELECT user_id, lesson_id, last_page, completed, updated_at
		FROM lesson_progress WHERE user_id = ? AND lesson_id = ?`,
		userID, int64(lessonID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(lesson_progress) > %w", err)
	}
	return &record, nil
}

func (r *DBRepository) FindByUser(ctx context.Context, userID string) ([]Record, error) {
	var records []Record
	if err := r.db.SelectContext(ctx, &records,
		`SELECT user_id, lesson_id, last_page, completed, updated_at
		FROM lesson_progress WHERE user_id = ? ORDER BY lesson_id`,
		userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(lesson_progress by user) > %w", err)
	}
	return records, nil
}

func (r *DBRepository) UpsertProgress(ctx context.Context, record *Record) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO lesson_progress (user_id, lesson_id, last_page, completed, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			last_page = VALUES(last_page),
			completed = completed OR VALUES(completed),
			updated_at = VALUES(updated_at)`,
		record.UserID, int64(record.LessonID), record.LastPage, record.Completed, record.UpdatedAt); err != nil {
		return fmt.Errorf("db.ExecContext(upsert lesson_progress) > %w", err)
	}
	return nil
}
