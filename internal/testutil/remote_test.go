package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/lingosync/internal/lesson"
	"github.com/at-ishikawa/lingosync/internal/progress"
	"github.com/at-ishikawa/lingosync/internal/remote"
	"github.com/at-ishikawa/lingosync/internal/timespent"
	"github.com/at-ishikawa/lingosync/internal/vocab"
)

func TestFakeRemote_Offline(t *testing.T) {
	ctx := context.Background()
	f := NewFakeRemote()
	f.SetOffline(true)

	err := f.Ping(ctx)
	assert.True(t, remote.IsTransient(err))
	err = f.AddTimeSpent(ctx, TestUserID, "2026-10-19", 3)
	assert.True(t, remote.IsTransient(err))
	assert.Equal(t, 1, f.Calls("AddTimeSpent"))
	assert.Empty(t, f.Minutes(TestUserID))

	f.SetOffline(false)
	require.NoError(t, f.Ping(ctx))
}

func TestFakeRemote_UpsertProgressKeepsCompletion(t *testing.T) {
	ctx := context.Background()
	f := NewFakeRemote()
	id := lesson.Pack(1, 2)

	require.NoError(t, f.UpsertProgress(ctx, &progress.Record{UserID: TestUserID, LessonID: id, LastPage: 7, Completed: true}))
	require.NoError(t, f.UpsertProgress(ctx, &progress.Record{UserID: TestUserID, LessonID: id, LastPage: 2}))

	got, err := f.FindProgress(ctx, TestUserID, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.LastPage)
	assert.True(t, got.Completed)

	missing, err := f.FindProgress(ctx, TestUserID, lesson.Pack(9, 9))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFakeRemote_VocabAndCounts(t *testing.T) {
	ctx := context.Background()
	f := NewFakeRemote()
	f.AddLesson(lesson.Meta{ChapterNo: 1, LessonNo: 1}, nil, nil, []lesson.VocabRow{
		{Vocab: "你好", Pinyin: "nǐ hǎo"},
		{Vocab: " 你好 "},
		{Vocab: "谢谢"},
		{Vocab: ""},
	})
	f.AddLesson(lesson.Meta{ChapterNo: 1, LessonNo: 2}, nil, nil, nil)

	require.NoError(t, f.UpsertVocab(ctx, []vocab.Item{{Vocab: "你好"}, {Vocab: "谢谢", Translation: "thanks"}}))
	require.NoError(t, f.UpsertVocab(ctx, []vocab.Item{{Vocab: "你好", Pinyin: "nǐ hǎo"}}))
	items, err := f.FindByTexts(ctx, []string{"你好", "谢谢", "再见"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "nǐ hǎo", items[0].Pinyin)

	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.UpsertLearned(ctx, []vocab.LearnedEntry{
		{UserID: TestUserID, VocabID: items[0].ID, LearnedAt: now, SourceLessonKey: "1_1"},
		{UserID: TestUserID, VocabID: items[1].ID, LearnedAt: now, SourceLessonKey: "1_1"},
	}))
	learned, err := f.FindLearned(ctx, TestUserID)
	require.NoError(t, err)
	assert.Len(t, learned, 2)

	require.NoError(t, f.UpsertProgress(ctx, &progress.Record{UserID: TestUserID, LessonID: lesson.Pack(1, 1), Completed: true}))
	require.NoError(t, f.AddTimeSpent(ctx, TestUserID, "2026-10-18", 4))
	require.NoError(t, f.AddTimeSpent(ctx, TestUserID, "2026-10-19", 2))
	require.NoError(t, f.AddTimeSpent(ctx, TestUserID, "2026-10-19", 1))

	require.NoError(t, f.UpdateProgressCounts(ctx, TestUserID))
	summary, err := f.ProgressSummary(ctx, TestUserID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Progress.LessonsCompleted)
	assert.Equal(t, 0, summary.Progress.ChaptersCompleted)
	assert.Equal(t, 2, summary.Progress.VocabCount)
	assert.Equal(t, 7, summary.Progress.TotalMinutes)
	assert.Equal(t, []timespent.DayTotal{{Day: "2026-10-18", Minutes: 4}, {Day: "2026-10-19", Minutes: 3}}, summary.Last7)

	counts, err := f.FindLessonVocabCounts(ctx, []lesson.ID{lesson.Pack(1, 1), lesson.Pack(1, 2)})
	require.NoError(t, err)
	assert.Equal(t, map[lesson.ID]int{lesson.Pack(1, 1): 2}, counts)

	days, err := f.FindDays(ctx, TestUserID, "2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, []timespent.DayTotal{{Day: "2026-10-19", Minutes: 3}}, days)
}
