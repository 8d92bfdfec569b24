package vocab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/at-ishikawa/lingosync/internal/kvstore"
	"github.com/at-ishikawa/lingosync/internal/lesson"
	"github.com/at-ishikawa/lingosync/internal/remote"
)

// ErrPartialBatch reports queued batches that could not be written. They stay queued intact.
var ErrPartialBatch = errors.New("learned vocabulary batch not written")

const DefaultBatchSize = 200

type Config struct {
	UserID    string
	BatchSize int
	Retry     remote.RetryPolicy
}

// MarkResult describes one MarkLessonVocabsLearned call.
type MarkResult struct {
	Unique  int
	Learned int
	// Queued is set when the learned rows could not be written and wait in the pending queue.
	Queued bool
}

// SyncReport describes one SyncPending call.
type SyncReport struct {
	Drained   int
	Remaining int
	Replayed  int
}

type Tracker struct {
	codec   *kvstore.Codec
	repo    Repository
	lessons lesson.Repository
	cfg     Config
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string

	group singleflight.Group
	// guards the queue, pending lessons and mirror keys
	mu sync.Mutex
}

func NewTracker(codec *kvstore.Codec, repo Repository, lessons lesson.Repository, cfg Config, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	return &Tracker{
		codec:   codec,
		repo:    repo,
		lessons: lessons,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
}

// sourceKey is the provenance recorded on learned entries: the canonical id when the key names a chapter.
func sourceKey(key string, ref lesson.Ref) string {
	if ref.HasChapter() {
		return ref.ID().String()
	}
	return strings.TrimSpace(key)
}

// MarkLessonVocabsLearned records every vocabulary term of a lesson as learned by the user.
// Terms are ensured in the vocabulary table first; that step is best effort. Learned rows that cannot
// be written are queued as one batch and the call still succeeds. When the lesson's terms cannot be
// read or resolved to ids, the lesson is remembered and replayed by SyncPending.
func (t *Tracker) MarkLessonVocabsLearned(ctx context.Context, lessonKey string) (MarkResult, error) {
	ref, err := lesson.ParseRef(lessonKey)
	if err != nil {
		return MarkResult{}, fmt.Errorf("lesson.ParseRef(%s) > %w", lessonKey, err)
	}

	result, err := t.mark(ctx, lessonKey, ref)
	if err != nil && remote.IsTransient(err) {
		if perr := t.rememberLesson(ctx, lessonKey); perr != nil {
			t.logger.Warn("failed to remember lesson for replay", "lesson", lessonKey, "error", perr)
		}
	}
	return result, err
}

func (t *Tracker) mark(ctx context.Context, lessonKey string, ref lesson.Ref) (MarkResult, error) {
	rows, err := t.lessons.FindVocab(ctx, ref)
	if err != nil {
		return MarkResult{}, fmt.Errorf("lessons.FindVocab(%s) > %w", ref, err)
	}
	items := Unique(rows)
	result := MarkResult{Unique: len(items)}
	if len(items) == 0 {
		return result, nil
	}

	for _, batch := range chunk(items, t.cfg.BatchSize) {
		if err := t.cfg.Retry.Do(ctx, func(ctx context.Context) error {
			return t.repo.UpsertVocab(ctx, batch)
		}); err != nil {
			t.logger.Warn("vocab upsert failed, continuing", "lesson", lessonKey, "error", err)
		}
	}

	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Vocab
	}
	canonical, err := t.repo.FindByTexts(ctx, texts)
	if err != nil {
		return result, fmt.Errorf("repo.FindByTexts > %w", err)
	}
	idByText := make(map[string]int64, len(canonical))
	for _, c := range canonical {
		idByText[strings.TrimSpace(c.Vocab)] = c.ID
	}

	learnedAt := t.now().UTC()
	source := sourceKey(lessonKey, ref)
	entries := make([]LearnedEntry, 0, len(items))
	for _, item := range items {
		id, ok := idByText[item.Vocab]
		if !ok || id == 0 {
			continue
		}
		entries = append(entries, LearnedEntry{
			UserID:          t.cfg.UserID,
			VocabID:         id,
			LearnedAt:       learnedAt,
			SourceLessonKey: source,
		})
	}
	result.Learned = len(entries)
	if len(entries) == 0 {
		return result, nil
	}

	if err := t.upsertLearned(ctx, entries); err != nil {
		t.logger.Warn("learned vocabulary upsert failed, queuing", "lesson", lessonKey, "rows", len(entries), "error", err)
		if err := t.enqueue(ctx, entries); err != nil {
			return result, fmt.Errorf("enqueue > %w", err)
		}
		result.Queued = true
	}

	if _, err := t.RefreshMirror(ctx); err != nil {
		t.logger.Warn("learned vocabulary mirror refresh failed", "error", err)
	}
	return result, nil
}

// upsertLearned writes entries in batches, stopping at the first batch that fails.
func (t *Tracker) upsertLearned(ctx context.Context, entries []LearnedEntry) error {
	batches := chunk(entries, t.cfg.BatchSize)
	for i, batch := range batches {
		if err := t.cfg.Retry.Do(ctx, func(ctx context.Context) error {
			return t.repo.UpsertLearned(ctx, batch)
		}); err != nil {
			return fmt.Errorf("%w: batch %d of %d: %v", ErrPartialBatch, i+1, len(batches), err)
		}
	}
	return nil
}

// SyncPending replays remembered lessons and drains the pending queue oldest first.
// Each entry is written as a whole; a failed entry stays in the queue at its position.
// Overlapping calls share one run.
func (t *Tracker) SyncPending(ctx context.Context) (SyncReport, error) {
	v, err, _ := t.group.Do("sync", func() (interface{}, error) {
		return t.syncPending(ctx)
	})
	report, _ := v.(SyncReport)
	return report, err
}

func (t *Tracker) syncPending(ctx context.Context) (SyncReport, error) {
	var report SyncReport
	replayed, err := t.replayLessons(ctx)
	report.Replayed = replayed
	if err != nil {
		t.logger.Warn("lesson replay incomplete", "error", err)
	}

	queue, err := t.snapshotQueue(ctx)
	if err != nil {
		return report, err
	}

	drained := make(map[string]bool)
	for _, entry := range queue {
		if err := t.upsertLearned(ctx, entry.Rows); err != nil {
			t.logger.Warn("pending batch still failing", "entry", entry.ID, "rows", len(entry.Rows), "error", err)
			continue
		}
		drained[entry.ID] = true
	}

	remaining, err := t.removeFromQueue(ctx, drained)
	if err != nil {
		return report, err
	}
	report.Drained = len(drained)
	report.Remaining = remaining

	if len(drained) > 0 {
		if _, err := t.RefreshMirror(ctx); err != nil {
			t.logger.Warn("learned vocabulary mirror refresh failed", "error", err)
		}
	}
	if report.Remaining > 0 {
		return report, fmt.Errorf("%d queued entries > %w", report.Remaining, ErrPartialBatch)
	}
	return report, nil
}

func (t *Tracker) loadQueue(ctx context.Context) ([]QueueEntry, error) {
	var queue []QueueEntry
	if _, err := t.codec.Load(ctx, kvstore.KeyVocabUpsertQueue, &queue); err != nil {
		return nil, fmt.Errorf("codec.Load(queue) > %w", err)
	}
	return queue, nil
}

func (t *Tracker) enqueue(ctx context.Context, rows []LearnedEntry) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	queue, err := t.loadQueue(ctx)
	if err != nil {
		return err
	}
	queue = append(queue, QueueEntry{ID: t.newID(), Rows: rows, CreatedAt: t.now().UTC()})
	return t.codec.Save(ctx, kvstore.KeyVocabUpsertQueue, queue)
}

// snapshotQueue returns the queue, giving ids to entries written before entries had them.
func (t *Tracker) snapshotQueue(ctx context.Context) ([]QueueEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	queue, err := t.loadQueue(ctx)
	if err != nil {
		return nil, err
	}
	assigned := false
	for i := range queue {
		if queue[i].ID == "" {
			queue[i].ID = t.newID()
			assigned = true
		}
	}
	if assigned {
		if err := t.codec.Save(ctx, kvstore.KeyVocabUpsertQueue, queue); err != nil {
			return nil, err
		}
	}
	return queue, nil
}

// removeFromQueue drops drained entries, keeping the order of the rest and anything enqueued meanwhile.
func (t *Tracker) removeFromQueue(ctx context.Context, drained map[string]bool) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	queue, err := t.loadQueue(ctx)
	if err != nil {
		return 0, err
	}
	if len(drained) == 0 {
		return len(queue), nil
	}
	remaining := make([]QueueEntry, 0, len(queue))
	for _, entry := range queue {
		if !drained[entry.ID] {
			remaining = append(remaining, entry)
		}
	}
	if err := t.codec.Save(ctx, kvstore.KeyVocabUpsertQueue, remaining); err != nil {
		return 0, err
	}
	return len(remaining), nil
}

// Pending returns the queued entries, oldest first.
func (t *Tracker) Pending(ctx context.Context) ([]QueueEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loadQueue(ctx)
}

func (t *Tracker) rememberLesson(ctx context.Context, lessonKey string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var keys []string
	if _, err := t.codec.Load(ctx, kvstore.KeyVocabPendingLessons, &keys); err != nil {
		return err
	}
	for _, k := range keys {
		if k == lessonKey {
			return nil
		}
	}
	return t.codec.Save(ctx, kvstore.KeyVocabPendingLessons, append(keys, lessonKey))
}

func (t *Tracker) forgetLesson(ctx context.Context, lessonKey string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var keys []string
	if _, err := t.codec.Load(ctx, kvstore.KeyVocabPendingLessons, &keys); err != nil {
		return err
	}
	kept := keys[:0]
	for _, k := range keys {
		if k != lessonKey {
			kept = append(kept, k)
		}
	}
	return t.codec.Save(ctx, kvstore.KeyVocabPendingLessons, kept)
}

func (t *Tracker) replayLessons(ctx context.Context) (int, error) {
	t.mu.Lock()
	var keys []string
	_, err := t.codec.Load(ctx, kvstore.KeyVocabPendingLessons, &keys)
	t.mu.Unlock()
	if err != nil {
		return 0, err
	}

	var errs []error
	replayed := 0
	for _, key := range keys {
		if _, err := t.MarkLessonVocabsLearned(ctx, key); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := t.forgetLesson(ctx, key); err != nil {
			errs = append(errs, err)
			continue
		}
		replayed++
	}
	return replayed, errors.Join(errs...)
}

// RefreshMirror replaces the local learned list and count with the remote rows, one per term.
func (t *Tracker) RefreshMirror(ctx context.Context) (int, error) {
	items, err := t.repo.FindLearned(ctx, t.cfg.UserID)
	if err != nil {
		return 0, fmt.Errorf("repo.FindLearned > %w", err)
	}
	deduped := dedupeLearned(items)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.codec.Save(ctx, kvstore.KeyVocabLearnedList, deduped); err != nil {
		return 0, err
	}
	if err := t.codec.Save(ctx, kvstore.KeyVocabLearnedCount, len(deduped)); err != nil {
		return 0, err
	}
	return len(deduped), nil
}

// LearnedCount reads the mirrored count. ok is false when nothing was mirrored yet.
func (t *Tracker) LearnedCount(ctx context.Context) (count int, ok bool, err error) {
	ok, err = t.codec.Load(ctx, kvstore.KeyVocabLearnedCount, &count)
	return count, ok, err
}

func (t *Tracker) LearnedList(ctx context.Context) ([]LearnedItem, error) {
	var items []LearnedItem
	if _, err := t.codec.Load(ctx, kvstore.KeyVocabLearnedList, &items); err != nil {
		return nil, err
	}
	return items, nil
}
