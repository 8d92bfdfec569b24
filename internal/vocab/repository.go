package vocab

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=repository.go -destination=../mocks/vocab/mock_repository.go -package=mock_vocab

// Repository reads and writes the remote vocabulary tables.
type Repository interface {
	// UpsertVocab inserts items by text, filling pinyin and translation only where they are missing.
	UpsertVocab(ctx context.Context, items []Item) error
	FindByTexts(ctx context.Context, texts []string) ([]Item, error)
	// UpsertLearned writes entries by (user_id, vocab_id).
	UpsertLearned(ctx context.Context, entries []LearnedEntry) error
	FindLearned(ctx context.Context, userID string) ([]LearnedItem, error)
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

func placeholders(rows, columns int) string {
	row := "(" + strings.TrimSuffix(strings.Repeat("?, ", columns), ", ") + ")"
	return strings.TrimSuffix(strings.Repeat(row+", ", rows), ", ")
}

func (r *DBRepository) UpsertVocab(ctx context.Context, items []Item) error {
	if len(items) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(items)*3)
	for _, item := range items {
		args = append(args, item.Vocab, item.Pinyin, item.Translation)
	}
	query := `INSERT INTO vocab (vocab, pinyin, translation) VALUES ` + placeholders(len(items), 3) + `
		ON DUPLICATE KEY UPDATE
			pinyin = COALESCE(NULLIF(pinyin, ''), VALUES(pinyin)),
			translation = COALESCE(NULLIF(translation, ''), VALUES(translation))`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db.ExecContext(upsert vocab) > %w", err)
	}
	return nil
}

func (r *DBRepository) FindByTexts(ctx context.Context, texts []string) ([]Item, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(
		`SELECT id, vocab, COALESCE(pinyin, '') AS pinyin, COALESCE(translation, '') AS translation
		FROM vocab WHERE vocab IN (?)`, texts)
	if err != nil {
		return nil, fmt.Errorf("sqlx.In > %w", err)
	}
	var items []Item
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(vocab by texts) > %w", err)
	}
	return items, nil
}

func (r *DBRepository) UpsertLearned(ctx context.Context, entries []LearnedEntry) error {
	if len(entries) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(entries)*4)
	for _, e := range entries {
		args = append(args, e.UserID, e.VocabID, e.LearnedAt, e.SourceLessonKey)
	}
	query := `INSERT INTO user_vocab (user_id, vocab_id, learned_at, source_lesson_key) VALUES ` +
		placeholders(len(entries), 4) + `
		ON DUPLICATE KEY UPDATE
			learned_at = VALUES(learned_at),
			source_lesson_key = VALUES(source_lesson_key)`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db.ExecContext(upsert user_vocab) > %w", err)
	}
	return nil
}

func (r *DBRepository) FindLearned(ctx context.Context, userID string) ([]LearnedItem, error) {
	var items []LearnedItem
	if err := r.db.SelectContext(ctx, &items,
		`SELECT uv.vocab_id, v.vocab, COALESCE(v.pinyin, '') AS pinyin, COALESCE(v.translation, '') AS translation,
			uv.learned_at, uv.source_lesson_key
		FROM user_vocab uv JOIN vocab v ON v.id = uv.vocab_id
		WHERE uv.user_id = ? ORDER BY uv.learned_at, uv.vocab_id`,
		userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(user_vocab) > %w", err)
	}
	return items, nil
}
