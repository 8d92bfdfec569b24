package vocab_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/lingosync/internal/kvstore"
	"github.com/at-ishikawa/lingosync/internal/lesson"
	"github.com/at-ishikawa/lingosync/internal/remote"
	"github.com/at-ishikawa/lingosync/internal/testutil"
	"github.com/at-ishikawa/lingosync/internal/vocab"
)

func TestTracker_MarkLessonVocabsLearned_Twice(t *testing.T) {
	ctx := context.Background()
	fake := testutil.NewFakeRemote()
	fake.AddLesson(lesson.Meta{ChapterNo: 1, LessonNo: 3}, nil, nil, []lesson.VocabRow{
		{Vocab: "你好", Pinyin: "nǐ hǎo", Translation: "hello"},
		{Vocab: " 你好", Pinyin: "ni hao"},
		{Vocab: "谢谢", Pinyin: "xièxie", Translation: "thanks"},
	})

	tracker := vocab.NewTracker(kvstore.NewCodec(kvstore.NewMemoryStore(), nil), fake, fake, vocab.Config{
		UserID:    testUser,
		BatchSize: 1,
		Retry:     remote.RetryPolicy{Attempts: 1},
	}, nil)

	first := testNow
	second := testNow.Add(time.Hour)
	now := first
	vocab.SetClock(tracker, func() time.Time { return now })

	got, err := tracker.MarkLessonVocabsLearned(ctx, "1_3")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Learned)

	now = second
	got, err = tracker.MarkLessonVocabsLearned(ctx, lesson.Pack(1, 3).String())
	require.NoError(t, err)
	assert.Equal(t, 2, got.Learned)

	learned, err := fake.FindLearned(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, learned, 2)
	texts := make([]string, 0, len(learned))
	for _, item := range learned {
		texts = append(texts, item.Vocab)
		assert.Equal(t, second, item.LearnedAt)
		assert.Equal(t, "101003", item.SourceLessonKey)
	}
	assert.ElementsMatch(t, []string{"你好", "谢谢"}, texts)

	mirror, err := tracker.LearnedList(ctx)
	require.NoError(t, err)
	assert.Len(t, mirror, 2)
}
