package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/at-ishikawa/lingosync/internal/lesson"
	"github.com/at-ishikawa/lingosync/internal/progress"
	"github.com/at-ishikawa/lingosync/internal/remote"
	"github.com/at-ishikawa/lingosync/internal/statistics"
	"github.com/at-ishikawa/lingosync/internal/timespent"
	"github.com/at-ishikawa/lingosync/internal/vocab"
)

// FakeRemote is an in-memory remote store with the upsert semantics of the MySQL schema.
// While offline every call fails with a transient error.
type FakeRemote struct {
	mu      sync.Mutex
	offline bool
	calls   map[string]int

	metas     []lesson.Meta
	lines     map[lesson.Ref][]lesson.Line
	questions map[lesson.Ref][]lesson.Question
	vocabRows map[lesson.Ref][]lesson.VocabRow

	progress map[string]map[lesson.ID]progress.Record
	vocab    []vocab.Item
	learned  map[string]map[int64]vocab.LearnedEntry
	minutes  map[string]timespent.DayMinutes
	counts   map[string]statistics.Progress
}

func NewFakeRemote() *FakeRemote {
	return &FakeRemote{
		calls:     map[string]int{},
		lines:     map[lesson.Ref][]lesson.Line{},
		questions: map[lesson.Ref][]lesson.Question{},
		vocabRows: map[lesson.Ref][]lesson.VocabRow{},
		progress:  map[string]map[lesson.ID]progress.Record{},
		learned:   map[string]map[int64]vocab.LearnedEntry{},
		minutes:   map[string]timespent.DayMinutes{},
		counts:    map[string]statistics.Progress{},
	}
}

// SetOffline toggles failure injection.
func (f *FakeRemote) SetOffline(offline bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offline = offline
}

// Calls returns how often op was called, including failed calls.
func (f *FakeRemote) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// AddLesson seeds the catalog with one lesson.
func (f *FakeRemote) AddLesson(meta lesson.Meta, lines []lesson.Line, questions []lesson.Question, rows []lesson.VocabRow) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ref := meta.Ref()
	f.metas = append(f.metas, meta)
	f.lines[ref] = lines
	f.questions[ref] = questions
	f.vocabRows[ref] = rows
}

// Minutes returns the server-side minutes of a user per day.
func (f *FakeRemote) Minutes(userID string) timespent.DayMinutes {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := timespent.DayMinutes{}
	for day, m := range f.minutes[userID] {
		out[day] = m
	}
	return out
}

func (f *FakeRemote) enter(op string) error {
	f.calls[op]++
	if f.offline {
		return fmt.Errorf("%s: %w", op, remote.ErrTransient)
	}
	return nil
}

func (f *FakeRemote) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enter("Ping")
}

func (f *FakeRemote) FindMetas(ctx context.Context, chapterNo int) ([]lesson.Meta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("FindMetas"); err != nil {
		return nil, err
	}
	var metas []lesson.Meta
	for _, m := range f.metas {
		if chapterNo == 0 || m.ChapterNo == chapterNo {
			metas = append(metas, m)
		}
	}
	return metas, nil
}

func (f *FakeRemote) FindLines(ctx context.Context, ref lesson.Ref) ([]lesson.Line, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("FindLines"); err != nil {
		return nil, err
	}
	return append([]lesson.Line(nil), f.lines[ref]...), nil
}

func (f *FakeRemote) FindQuestions(ctx context.Context, ref lesson.Ref) ([]lesson.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("FindQuestions"); err != nil {
		return nil, err
	}
	return append([]lesson.Question(nil), f.questions[ref]...), nil
}

func (f *FakeRemote) FindVocab(ctx context.Context, ref lesson.Ref) ([]lesson.VocabRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("FindVocab"); err != nil {
		return nil, err
	}
	return append([]lesson.VocabRow(nil), f.vocabRows[ref]...), nil
}

func (f *FakeRemote) FindProgress(ctx context.Context, userID string, lessonID lesson.ID) (*progress.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("FindProgress"); err != nil {
		return nil, err
	}
	record, ok := f.progress[userID][lessonID]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (f *FakeRemote) FindByUser(ctx context.Context, userID string) ([]progress.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("FindByUser"); err != nil {
		return nil, err
	}
	records := make([]progress.Record, 0, len(f.progress[userID]))
	for _, r := range f.progress[userID] {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].LessonID < records[j].LessonID })
	return records, nil
}

func (f *FakeRemote) UpsertProgress(ctx context.Context, record *progress.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UpsertProgress"); err != nil {
		return err
	}
	rows := f.progress[record.UserID]
	if rows == nil {
		rows = map[lesson.ID]progress.Record{}
		f.progress[record.UserID] = rows
	}
	next := *record
	if prev, ok := rows[record.LessonID]; ok && prev.Completed {
		next.Completed = true
	}
	rows[record.LessonID] = next
	return nil
}

func (f *FakeRemote) UpsertVocab(ctx context.Context, items []vocab.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UpsertVocab"); err != nil {
		return err
	}
	for _, item := range items {
		i := f.vocabIndex(item.Vocab)
		if i < 0 {
			item.ID = int64(len(f.vocab) + 1)
			f.vocab = append(f.vocab, item)
			continue
		}
		if f.vocab[i].Pinyin == "" {
			f.vocab[i].Pinyin = item.Pinyin
		}
		if f.vocab[i].Translation == "" {
			f.vocab[i].Translation = item.Translation
		}
	}
	return nil
}

func (f *FakeRemote) vocabIndex(text string) int {
	for i, v := range f.vocab {
		if v.Vocab == strings.TrimSpace(text) {
			return i
		}
	}
	return -1
}

func (f *FakeRemote) FindByTexts(ctx context.Context, texts []string) ([]vocab.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("FindByTexts"); err != nil {
		return nil, err
	}
	var items []vocab.Item
	for _, text := range texts {
		if i := f.vocabIndex(text); i >= 0 {
			items = append(items, f.vocab[i])
		}
	}
	return items, nil
}

func (f *FakeRemote) UpsertLearned(ctx context.Context, entries []vocab.LearnedEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UpsertLearned"); err != nil {
		return err
	}
	for _, e := range entries {
		rows := f.learned[e.UserID]
		if rows == nil {
			rows = map[int64]vocab.LearnedEntry{}
			f.learned[e.UserID] = rows
		}
		rows[e.VocabID] = e
	}
	return nil
}

func (f *FakeRemote) FindLearned(ctx context.Context, userID string) ([]vocab.LearnedItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("FindLearned"); err != nil {
		return nil, err
	}
	var items []vocab.LearnedItem
	for _, v := range f.vocab {
		e, ok := f.learned[userID][v.ID]
		if !ok {
			continue
		}
		items = append(items, vocab.LearnedItem{
			VocabID:         v.ID,
			Vocab:           v.Vocab,
			Pinyin:          v.Pinyin,
			Translation:     v.Translation,
			LearnedAt:       e.LearnedAt,
			SourceLessonKey: e.SourceLessonKey,
		})
	}
	return items, nil
}

func (f *FakeRemote) AddTimeSpent(ctx context.Context, userID, day string, minutes int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("AddTimeSpent"); err != nil {
		return err
	}
	days := f.minutes[userID]
	if days == nil {
		days = timespent.DayMinutes{}
		f.minutes[userID] = days
	}
	days[day] += minutes
	return nil
}

func (f *FakeRemote) TotalMinutes(ctx context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("TotalMinutes"); err != nil {
		return 0, err
	}
	return f.minutes[userID].Sum(), nil
}

func (f *FakeRemote) FindDays(ctx context.Context, userID, since string) ([]timespent.DayTotal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("FindDays"); err != nil {
		return nil, err
	}
	days := f.minutes[userID]
	var totals []timespent.DayTotal
	for _, day := range days.Days() {
		if day >= since {
			totals = append(totals, timespent.DayTotal{Day: day, Minutes: days[day]})
		}
	}
	return totals, nil
}

func (f *FakeRemote) UpdateProgressCounts(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UpdateProgressCounts"); err != nil {
		return err
	}
	var p statistics.Progress
	for _, r := range f.progress[userID] {
		if r.Completed {
			p.LessonsCompleted++
		}
	}
	chapters := map[int]bool{}
	for _, m := range f.metas {
		done, seen := chapters[m.ChapterNo]
		r, ok := f.progress[userID][m.ID()]
		complete := ok && r.Completed
		chapters[m.ChapterNo] = complete && (done || !seen)
	}
	for _, done := range chapters {
		if done {
			p.ChaptersCompleted++
		}
	}
	p.VocabCount = len(f.learned[userID])
	p.TotalMinutes = f.minutes[userID].Sum()
	f.counts[userID] = p
	return nil
}

func (f *FakeRemote) FindUserProgress(ctx context.Context, userID string) (*statistics.Progress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("FindUserProgress"); err != nil {
		return nil, err
	}
	p, ok := f.counts[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *FakeRemote) ProgressSummary(ctx context.Context, userID string) (*statistics.RemoteSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ProgressSummary"); err != nil {
		return nil, err
	}
	summary := &statistics.RemoteSummary{Progress: f.counts[userID]}
	days := f.minutes[userID]
	for _, day := range days.Days() {
		summary.Last7 = append(summary.Last7, timespent.DayTotal{Day: day, Minutes: days[day]})
	}
	if len(summary.Last7) > timespent.WeekDays {
		summary.Last7 = summary.Last7[len(summary.Last7)-timespent.WeekDays:]
	}
	return summary, nil
}

func (f *FakeRemote) FindLessonVocabCounts(ctx context.Context, lessonIDs []lesson.ID) (map[lesson.ID]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("FindLessonVocabCounts"); err != nil {
		return nil, err
	}
	counts := make(map[lesson.ID]int, len(lessonIDs))
	for _, id := range lessonIDs {
		for _, m := range f.metas {
			if m.ID() == id {
				if n := len(vocab.Unique(f.vocabRows[m.Ref()])); n > 0 {
					counts[id] = n
				}
			}
		}
	}
	return counts, nil
}

var (
	_ remote.Prober         = (*FakeRemote)(nil)
	_ lesson.Repository     = (*FakeRemote)(nil)
	_ progress.Repository   = (*FakeRemote)(nil)
	_ vocab.Repository      = (*FakeRemote)(nil)
	_ timespent.Repository  = (*FakeRemote)(nil)
	_ statistics.Repository = (*FakeRemote)(nil)
)
