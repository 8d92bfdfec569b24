package rest

import (
	"context"
	"net/url"

	"github.com/at-ishikawa/lingosync/internal/lesson"
	"github.com/at-ishikawa/lingosync/internal/statistics"
	"github.com/at-ishikawa/lingosync/internal/timespent"
)

var (
	_ statistics.Repository = (*Client)(nil)
	_ timespent.Repository  = (*Client)(nil)
)

type userArgs struct {
	User string `json:"p_user"`
}

func (c *Client) AddTimeSpent(ctx context.Context, userID, day string, minutes int) error {
	return c.rpc(ctx, "add_time_spent", struct {
		User    string `json:"p_user"`
		Day     string `json:"p_day"`
		Minutes int    `json:"p_minutes"`
	}{User: userID, Day: day, Minutes: minutes}, nil)
}

func (c *Client) TotalMinutes(ctx context.Context, userID string) (int, error) {
	summary, err := c.ProgressSummary(ctx, userID)
	if err != nil {
		return 0, err
	}
	return summary.Progress.TotalMinutes, nil
}

func (c *Client) FindDays(ctx context.Context, userID, since string) ([]timespent.DayTotal, error) {
	var days []timespent.DayTotal
	if err := c.get(ctx, "time_spent", url.Values{
		"select":  {"day,minutes"},
		"user_id": {eq(userID)},
		"day":     {"gte." + since},
		"order":   {"day.asc"},
	}, &days); err != nil {
		return nil, err
	}
	return days, nil
}

func (c *Client) UpdateProgressCounts(ctx context.Context, userID string) error {
	return c.rpc(ctx, "update_user_progress_counts", userArgs{User: userID}, nil)
}

// ProgressSummary calls get_progress_summary, which returns a single-element array.
func (c *Client) ProgressSummary(ctx context.Context, userID string) (*statistics.RemoteSummary, error) {
	var rows []statistics.RemoteSummary
	if err := c.rpc(ctx, "get_progress_summary", userArgs{User: userID}, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &statistics.RemoteSummary{}, nil
	}
	return &rows[0], nil
}

func (c *Client) FindUserProgress(ctx context.Context, userID string) (*statistics.Progress, error) {
	var rows []statistics.Progress
	if err := c.get(ctx, "user_progress", url.Values{
		"select":  {"lessons_completed,chapters_completed,vocab_count,total_minutes"},
		"user_id": {eq(userID)},
		"limit":   {"1"},
	}, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (c *Client) FindLessonVocabCounts(ctx context.Context, lessonIDs []lesson.ID) (map[lesson.ID]int, error) {
	counts := make(map[lesson.ID]int, len(lessonIDs))
	if len(lessonIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		LessonID   lesson.ID `json:"lesson_id"`
		VocabCount int       `json:"vocab_count"`
	}
	if err := c.get(ctx, "lesson_vocab_count", url.Values{
		"select":    {"lesson_id,vocab_count"},
		"lesson_id": {in(lessonIDs)},
	}, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.LessonID] = row.VocabCount
	}
	return counts, nil
}
