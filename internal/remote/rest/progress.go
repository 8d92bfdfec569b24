package rest

import (
	"context"
	"net/url"

	"github.com/at-ishikawa/lingosync/internal/lesson"
	"github.com/at-ishikawa/lingosync/internal/progress"
)

var _ progress.Repository = (*Client)(nil)

const progressColumns = "user_id,lesson_id,last_page,completed,updated_at"

func (c *Client) FindProgress(ctx context.Context, userID string, lessonID lesson.ID) (*progress.Record, error) {
	var records []progress.Record
	if err := c.get(ctx, "lesson_progress", url.Values{
		"select":    {progressColumns},
		"user_id":   {eq(userID)},
		"lesson_id": {eq(lessonID)},
		"limit":     {"1"},
	}, &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (c *Client) FindByUser(ctx context.Context, userID string) ([]progress.Record, error) {
	var records []progress.Record
	if err := c.get(ctx, "lesson_progress", url.Values{
		"select":  {progressColumns},
		"user_id": {eq(userID)},
		"order":   {"lesson_id.asc"},
	}, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) UpsertProgress(ctx context.Context, record *progress.Record) error {
	return c.upsert(ctx, "lesson_progress", "user_id,lesson_id", []*progress.Record{record})
}
