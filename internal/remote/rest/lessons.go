package rest

import (
	"context"
	"net/url"

	"github.com/at-ishikawa/lingosync/internal/lesson"
)

var _ lesson.Repository = (*Client)(nil)

func lessonFilter(ref lesson.Ref) url.Values {
	params := url.Values{"lesson_no": {eq(ref.LessonNo)}}
	if ref.HasChapter() {
		params.Set("chapter_no", eq(ref.ChapterNo))
	}
	return params
}

func (c *Client) FindMetas(ctx context.Context, chapterNo int) ([]lesson.Meta, error) {
	params := url.Values{
		"select": {"lesson_id,chapter_no,lesson_no,lesson_title,chapter_title,is_premium"},
		"order":  {"chapter_no.asc,lesson_no.asc"},
	}
	if chapterNo > 0 {
		params.Set("chapter_no", eq(chapterNo))
	}
	var metas []lesson.Meta
	if err := c.get(ctx, "lesson_meta", params, &metas); err != nil {
		return nil, err
	}
	return metas, nil
}

func (c *Client) FindLines(ctx context.Context, ref lesson.Ref) ([]lesson.Line, error) {
	params := lessonFilter(ref)
	params.Set("select", "id,chapter_no,lesson_no,page,speaker,chinese,pinyin,translation,lesson_title,chapter_title")
	params.Set("order", "page.asc,id.asc")
	var lines []lesson.Line
	if err := c.get(ctx, "lessons", params, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (c *Client) FindQuestions(ctx context.Context, ref lesson.Ref) ([]lesson.Question, error) {
	params := lessonFilter(ref)
	params.Set("select", "chapter_no,lesson_no,page,question_text,answer,normal_audio_url")
	params.Set("order", "page.asc")
	var questions []lesson.Question
	if err := c.get(ctx, "lesson_questions", params, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (c *Client) FindVocab(ctx context.Context, ref lesson.Ref) ([]lesson.VocabRow, error) {
	params := lessonFilter(ref)
	params.Set("select", "vocab,vocab_pinyin,vocab_translation")
	params.Set("vocab", "not.is.null")
	params.Set("order", "id.asc")
	var rows []lesson.VocabRow
	if err := c.get(ctx, "lesson_vocab", params, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
