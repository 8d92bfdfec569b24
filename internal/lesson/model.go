package lesson

// Meta is one row of the lesson catalog (the lesson_meta view).
type Meta struct {
	LessonID     *int64 `json:"lesson_id,omitempty" db:"lesson_id"`
	ChapterNo    int    `json:"chapter_no" db:"chapter_no"`
	LessonNo     int    `json:"lesson_no" db:"lesson_no"`
	LessonTitle  string `json:"lesson_title" db:"lesson_title"`
	ChapterTitle string `json:"chapter_title" db:"chapter_title"`
	IsPremium    bool   `json:"is_premium" db:"is_premium"`
}

func (m Meta) Ref() Ref {
	return Ref{ChapterNo: m.ChapterNo, LessonNo: m.LessonNo}
}

// ID prefers the numeric id assigned by the catalog and falls back to the packed id.
func (m Meta) ID() ID {
	if m.LessonID != nil && *m.LessonID > 0 {
		return ID(*m.LessonID)
	}
	return m.Ref().ID()
}

// Line is one dialogue line of a lesson page.
type Line struct {
	ID           int64  `json:"id" db:"id"`
	ChapterNo    int    `json:"chapter_no" db:"chapter_no"`
	LessonNo     int    `json:"lesson_no" db:"lesson_no"`
	Page         int    `json:"page" db:"page"`
	Speaker      string `json:"speaker" db:"speaker"`
	Chinese      string `json:"chinese" db:"chinese"`
	Pinyin       string `json:"pinyin" db:"pinyin"`
	Translation  string `json:"translation" db:"translation"`
	LessonTitle  string `json:"lesson_title" db:"lesson_title"`
	ChapterTitle string `json:"chapter_title" db:"chapter_title"`
}

// Question is the practice question shown on a practice page.
type Question struct {
	ChapterNo      int    `json:"chapter_no" db:"chapter_no"`
	LessonNo       int    `json:"lesson_no" db:"lesson_no"`
	Page           int    `json:"page" db:"page"`
	QuestionText   string `json:"question_text" db:"question_text"`
	Answer         string `json:"answer" db:"answer"`
	NormalAudioURL string `json:"normal_audio_url" db:"normal_audio_url"`
}

// VocabRow is a vocabulary row attached to a lesson. Text may be blank in the source data.
type VocabRow struct {
	Vocab       string `json:"vocab" db:"vocab"`
	Pinyin      string `json:"vocab_pinyin" db:"vocab_pinyin"`
	Translation string `json:"vocab_translation" db:"vocab_translation"`
}

// Bundle is everything needed to replay a lesson offline.
type Bundle struct {
	LessonID  ID         `json:"lesson_id"`
	ChapterNo int        `json:"chapter_no"`
	LessonNo  int        `json:"lesson_no"`
	Lines     []Line     `json:"lines"`
	Questions []Question `json:"questions"`
	Vocab     []VocabRow `json:"vocab"`
}

// Section groups catalog rows of one chapter.
type Section struct {
	Title   string
	Lessons []Meta
}
