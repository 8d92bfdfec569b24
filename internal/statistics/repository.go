// Package statistics re-derives the progress summary shown to the user from the remote store,
// overlaying the locally tracked minutes and vocabulary.
package statistics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/lingosync/internal/lesson"
	"github.com/at-ishikawa/lingosync/internal/timespent"
)

//go:generate mockgen -source=repository.go -destination=../mocks/statistics/mock_repository.go -package=mock_statistics

// Progress is the server-side aggregate of a user's progress.
type Progress struct {
	LessonsCompleted  int `db:"lessons_completed" json:"lessons_completed"`
	ChaptersCompleted int `db:"chapters_completed" json:"chapters_completed"`
	VocabCount        int `db:"vocab_count" json:"vocab_count"`
	TotalMinutes      int `db:"total_minutes" json:"total_minutes"`
}

// RemoteSummary is the result of the progress summary procedure.
type RemoteSummary struct {
	Progress Progress             `json:"progress"`
	Last7    []timespent.DayTotal `json:"last7"`
}

type Repository interface {
	// UpdateProgressCounts recomputes the user's aggregate counts on the server.
	UpdateProgressCounts(ctx context.Context, userID string) error
	ProgressSummary(ctx context.Context, userID string) (*RemoteSummary, error)
	// FindUserProgress returns nil when the user has no aggregate row yet.
	FindUserProgress(ctx context.Context, userID string) (*Progress, error)
	FindLessonVocabCounts(ctx context.Context, lessonIDs []lesson.ID) (map[lesson.ID]int, error)
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

func (r *DBRepository) UpdateProgressCounts(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `INSERT INTO user_progress
		(user_id, lessons_completed, chapters_completed, vocab_count, total_minutes)
	SELECT ?,
		(SELECT COUNT(*) FROM lesson_progress WHERE user_id = ? AND completed),
		(SELECT COUNT(*) FROM (
			SELECT m.chapter_no FROM lesson_meta m
			LEFT JOIN lesson_progress p ON p.lesson_id = m.lesson_id AND p.user_id = ? AND p.completed
			GROUP BY m.chapter_no HAVING COUNT(*) = COUNT(p.lesson_id)
		) AS done),
		(SELECT COUNT(*) FROM user_vocab WHERE user_id = ?),
		(SELECT COALESCE(SUM(minutes), 0) FROM time_spent WHERE user_id = ?)
	ON DUPLICATE KEY UPDATE
		lessons_completed = VALUES(lessons_completed),
		chapters_completed = VALUES(chapters_completed),
		vocab_count = VALUES(vocab_count),
		total_minutes = VALUES(total_minutes)`,
		userID, userID, userID, userID, userID); err != nil {
		return fmt.Errorf("db.ExecContext(update user_progress) > %w", err)
	}
	return nil
}

func (r *DBRepository) ProgressSummary(ctx context.Context, userID string) (*RemoteSummary, error) {
	progress, err := r.FindUserProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := &RemoteSummary{}
	if progress != nil {
		summary.Progress = *progress
	}
	if err := r.db.SelectContext(ctx, &summary.Last7,
		`SELECT DATE_FORMAT(day, '%Y-%m-%d') AS day, minutes
		FROM time_spent WHERE user_id = ? AND day >= UTC_DATE() - INTERVAL 6 DAY ORDER BY day`,
		userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(time_spent last7) > %w", err)
	}
	return summary, nil
}

func (r *DBRepository) FindUserProgress(ctx context.Context, userID string) (*Progress, error) {
	var progress Progress
	err := r.db.GetContext(ctx, &progress,
		`SELECT lessons_completed, chapters_completed, vocab_count, total_minutes
		FROM user_progress WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(user_progress) > %w", err)
	}
	return &progress, nil
}

func (r *DBRepository) FindLessonVocabCounts(ctx context.Context, lessonIDs []lesson.ID) (map[lesson.ID]int, error) {
	counts := make(map[lesson.ID]int, len(lessonIDs))
	if len(lessonIDs) == 0 {
		return counts, nil
	}

	query, args, err := sqlx.In("SELECT lesson_id, vocab_count FROM lesson_vocab_count WHERE lesson_id IN (?)", lessonIDs)
	if err != nil {
		return nil, fmt.Errorf("sqlx.In > %w", err)
	}
	var rows []struct {
		LessonID   int64 `db:"lesson_id"`
		VocabCount int   `db:"vocab_count"`
	}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(lesson_vocab_count) > %w", err)
	}
	for _, row := range rows {
		counts[lesson.ID(row.LessonID)] = row.VocabCount
	}
	return counts, nil
}
