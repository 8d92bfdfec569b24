package kvstore

import (
	"fmt"

	"github.com/at-ishikawa/lingosync/internal/lesson"
)

// Key names are shared with existing installs and must not change.
const (
	KeyLessonCompleted   = "lesson.completed.v1"
	KeyLessonMetaCache   = "lesson_meta.cache.v1"
	KeyDownloadedLessons = "downloaded.lessons.v1"
	KeyLessonProgress    = "lesson.progress.v1"

	KeyVocabLearnedCount = "VOCAB_LEARNED_COUNT.v1"
	KeyVocabLearnedList  = "VOCAB_LEARNED_LIST.v1"
	KeyVocabUpsertQueue  = "VOCAB_UPSERT_QUEUE.v1"
	// KeyVocabPendingLessons holds lessons whose vocabulary could not be resolved to ids yet.
	KeyVocabPendingLessons = "VOCAB_PENDING_LESSONS.v1"

	KeyTimeSpentByDay   = "TIME_SPENT_BY_DAY.v1"
	KeyTimeSpentTotal   = "TIME_SPENT_TOTAL.v1"
	KeyTimeSpentPending = "TIME_SPENT_PENDING.v1"
	// KeyTimeSpentPendingByDay splits the pending minutes by the day they were accrued.
	KeyTimeSpentPendingByDay = "TIME_SPENT_PENDING_BY_DAY.v1"
	// KeyTimeSpentLegacyQueue is the pending queue of older installs, folded into the pending minutes on load.
	KeyTimeSpentLegacyQueue = "time_spent:pending_queue"

	KeyVocabCount = "VOCAB_COUNT.v1"
)

func ChapterLessonsKey(chapterNo int) string {
	return fmt.Sprintf("chapter.lessons.v1.%d", chapterNo)
}

func LessonCacheKey(id lesson.ID) string {
	return "lesson.cache.v1." + id.String()
}

func LessonQuestionsKey(ref lesson.Ref) string {
	return fmt.Sprintf("lesson_questions_%d_%d", ref.ChapterNo, ref.LessonNo)
}

func LessonVocabKey(ref lesson.Ref) string {
	return fmt.Sprintf("lesson_vocab_%d_%d", ref.ChapterNo, ref.LessonNo)
}
