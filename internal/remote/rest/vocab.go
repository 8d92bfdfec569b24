package rest

import (
	"context"
	"net/url"
	"time"

	"github.com/at-ishikawa/lingosync/internal/vocab"
)

var _ vocab.Repository = (*Client)(nil)

type vocabRow struct {
	Vocab       string  `json:"vocab"`
	Pinyin      *string `json:"pinyin"`
	Translation *string `json:"translation"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (c *Client) UpsertVocab(ctx context.Context, items []vocab.Item) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]vocabRow, len(items))
	for i, item := range items {
		rows[i] = vocabRow{Vocab: item.Vocab, Pinyin: optional(item.Pinyin), Translation: optional(item.Translation)}
	}
	return c.upsert(ctx, "vocab", "vocab", rows)
}

func (c *Client) FindByTexts(ctx context.Context, texts []string) ([]vocab.Item, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	var items []vocab.Item
	if err := c.get(ctx, "vocab", url.Values{
		"select": {"id,vocab,pinyin,translation"},
		"vocab":  {in(texts)},
	}, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) UpsertLearned(ctx context.Context, entries []vocab.LearnedEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return c.upsert(ctx, "user_vocab", "user_id,vocab_id", entries)
}

type learnedRow struct {
	VocabID         int64      `json:"vocab_id"`
	LearnedAt       time.Time  `json:"learned_at"`
	SourceLessonKey string     `json:"source_lesson_key"`
	Vocab           vocab.Item `json:"vocab"`
}

func (c *Client) FindLearned(ctx context.Context, userID string) ([]vocab.LearnedItem, error) {
	var rows []learnedRow
	if err := c.get(ctx, "user_vocab", url.Values{
		"select":  {"vocab_id,learned_at,source_lesson_key,vocab:vocab(id,vocab,pinyin,translation)"},
		"user_id": {eq(userID)},
		"order":   {"learned_at.asc"},
	}, &rows); err != nil {
		return nil, err
	}

	items := make([]vocab.LearnedItem, len(rows))
	for i, row := range rows {
		items[i] = vocab.LearnedItem{
			VocabID:         row.VocabID,
			Vocab:           row.Vocab.Vocab,
			Pinyin:          row.Vocab.Pinyin,
			Translation:     row.Vocab.Translation,
			LearnedAt:       row.LearnedAt,
			SourceLessonKey: row.SourceLessonKey,
		}
	}
	return items, nil
}
