package lesson

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=repository.go -destination=../mocks/lesson/mock_repository.go -package=mock_lesson

// Repository reads lesson content from the remote store.
type Repository interface {
	// FindMetas returns the catalog rows of a chapter, or of every chapter when chapterNo is 0.
	FindMetas(ctx context.Context, chapterNo int) ([]Meta, error)
	FindLines(ctx context.Context, ref Ref) ([]Line, error)
	FindQuestions(ctx context.Context, ref Ref) ([]Question, error)
	FindVocab(ctx context.Context, ref Ref) ([]VocabRow, error)
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindMetas returns catalog rows ordered by chapter and lesson.
func (r *DBRepository) FindMetas(ctx context.Context, chapterNo int) ([]Meta, error) {
	query := `SELECT lesson_id, chapter_no, lesson_no, lesson_title, chapter_title, is_premium
		FROM lesson_meta`
	var args []interface{}
	if chapterNo > 0 {
		query += " WHERE chapter_no = ?"
		args = append(args, chapterNo)
	}
	query += " ORDER BY chapter_no, lesson_no"

	var metas []Meta
	if err := r.db.SelectContext(ctx, &metas, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(lesson_meta) > %w", err)
	}
	return metas, nil
}

// lessonFilter matches one lesson, or every lesson with the number when the ref has no chapter.
func lessonFilter(ref Ref) (string, []interface{}) {
	if !ref.HasChapter() {
		return "lesson_no = ?", []interface{}{ref.LessonNo}
	}
	return "chapter_no = ? AND lesson_no = ?", []interface{}{ref.ChapterNo, ref.LessonNo}
}

// FindLines returns the dialogue lines of a lesson ordered by page and id.
func (r *DBRepository) FindLines(ctx context.Context, ref Ref) ([]Line, error) {
	where, args := lessonFilter(ref)
	var lines []Line
	if err := r.db.SelectContext(ctx, &lines,
		`SELECT id, chapter_no, lesson_no, page, speaker, chinese, pinyin, translation, lesson_title, chapter_title
		FROM lessons WHERE `+where+` ORDER BY page, id`,
		args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(lessons) > %w", err)
	}
	return lines, nil
}

// FindQuestions returns the practice questions of a lesson ordered by page.
func (r *DBRepository) FindQuestions(ctx context.Context, ref Ref) ([]Question, error) {
	var questions []Question
	if err := r.db.SelectContext(ctx, &questions,
		`SELECT chapter_no, lesson_no, page, question_text, answer, normal_audio_url
		FROM lesson_questions WHERE chapter_no = ? AND lesson_no = ? ORDER BY page`,
		ref.ChapterNo, ref.LessonNo); err != nil {
		return nil, fmt.Errorf("db.SelectContext(lesson_questions) > %w", err)
	}
	return questions, nil
}

// FindVocab returns the vocabulary rows of a lesson, skipping rows without text.
func (r *DBRepository) FindVocab(ctx context.Context, ref Ref) ([]VocabRow, error) {
	where, args := lessonFilter(ref)
	var rows []VocabRow
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT vocab, COALESCE(vocab_pinyin, '') AS vocab_pinyin, COALESCE(vocab_translation, '') AS vocab_translation
		FROM lesson_vocab WHERE `+where+` AND vocab IS NOT NULL ORDER BY id`,
		args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(lesson_vocab) > %w", err)
	}
	return rows, nil
}
