// Package vocab tracks which vocabulary a user has learned from completed lessons and keeps
// a local mirror of the remote learned-vocabulary table.
package vocab

import (
	"strings"
	"time"

	"github.com/at-ishikawa/lingosync/internal/lesson"
)

// Item is a row of the canonical vocabulary table, unique by text.
type Item struct {
	ID          int64  `db:"id" json:"id,omitempty"`
	Vocab       string `db:"vocab" json:"vocab"`
	Pinyin      string `db:"pinyin" json:"pinyin"`
	Translation string `db:"translation" json:"translation"`
}

// LearnedEntry is a row of user_vocab, unique by user and vocabulary id.
type LearnedEntry struct {
	UserID          string    `db:"user_id" json:"user_id"`
	VocabID         int64     `db:"vocab_id" json:"vocab_id"`
	LearnedAt       time.Time `db:"learned_at" json:"learned_at"`
	SourceLessonKey string    `db:"source_lesson_key" json:"source_lesson_key"`
}

// LearnedItem is a learned entry joined with its vocabulary, as kept in the local mirror.
type LearnedItem struct {
	VocabID         int64     `db:"vocab_id" json:"vocab_id"`
	Vocab           string    `db:"vocab" json:"vocab"`
	Pinyin          string    `db:"pinyin" json:"pinyin"`
	Translation     string    `db:"translation" json:"translation"`
	LearnedAt       time.Time `db:"learned_at" json:"learned_at"`
	SourceLessonKey string    `db:"source_lesson_key" json:"source_lesson_key"`
}

// QueueEntry is a batch of learned entries whose upsert failed. It is retried as a whole.
type QueueEntry struct {
	ID        string         `json:"id,omitempty"`
	Rows      []LearnedEntry `json:"rows"`
	CreatedAt time.Time      `json:"created_at"`
}

// Unique drops rows without text and keeps the first occurrence of each trimmed text.
func Unique(rows []lesson.VocabRow) []Item {
	seen := make(map[string]bool, len(rows))
	items := make([]Item, 0, len(rows))
	for _, r := range rows {
		text := strings.TrimSpace(r.Vocab)
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		items = append(items, Item{Vocab: text, Pinyin: r.Pinyin, Translation: r.Translation})
	}
	return items
}

// dedupeLearned keeps the first item per trimmed vocabulary text.
func dedupeLearned(items []LearnedItem) []LearnedItem {
	seen := make(map[string]bool, len(items))
	out := make([]LearnedItem, 0, len(items))
	for _, item := range items {
		text := strings.TrimSpace(item.Vocab)
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		out = append(out, item)
	}
	return out
}

func chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = len(items)
	}
	var chunks [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
