// Package catalog caches lesson reference data (catalog rows, dialogue lines, practice questions
// and vocabulary) and downloads whole lessons for offline use.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/at-ishikawa/lingosync/internal/cache"
	"github.com/at-ishikawa/lingosync/internal/kvstore"
	"github.com/at-ishikawa/lingosync/internal/lesson"
)

// ErrNoData is returned when lesson content is neither cached nor reachable.
var ErrNoData = cache.ErrNoData

type Catalog struct {
	cache  *cache.Manager
	codec  *kvstore.Codec
	repo   lesson.Repository
	logger *slog.Logger

	// guards the read-modify-write of lesson_meta.cache.v1 and downloaded.lessons.v1
	mu sync.Mutex
}

func New(manager *cache.Manager, repo lesson.Repository, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		cache:  manager,
		codec:  manager.Codec(),
		repo:   repo,
		logger: logger,
	}
}

// ChapterLessons serves the cached lesson list of a chapter and refreshes it.
// A fresh list is also merged into the whole-catalog cache.
func (c *Catalog) ChapterLessons(ctx context.Context, chapterNo int) cache.Result[[]lesson.Meta] {
	key := kvstore.ChapterLessonsKey(chapterNo)
	return cache.ReadThrough(ctx, c.cache, cache.Source[[]lesson.Meta]{
		Key: key,
		Fetch: func(ctx context.Context) ([]lesson.Meta, error) {
			return c.repo.FindMetas(ctx, chapterNo)
		},
		Store: func(ctx context.Context, metas []lesson.Meta) error {
			if err := c.codec.Save(ctx, key, metas); err != nil {
				return err
			}
			return c.mergeIntoCatalog(ctx, chapterNo, metas)
		},
	})
}

// AllLessons serves the whole cached catalog and refreshes it.
func (c *Catalog) AllLessons(ctx context.Context) cache.Result[[]lesson.Meta] {
	return cache.ReadThrough(ctx, c.cache, cache.Source[[]lesson.Meta]{
		Key: kvstore.KeyLessonMetaCache,
		Fetch: func(ctx context.Context) ([]lesson.Meta, error) {
			return c.repo.FindMetas(ctx, 0)
		},
		Store: func(ctx context.Context, metas []lesson.Meta) error {
			c.mu.Lock()
			defer c.mu.Unlock()
			return c.codec.Save(ctx, kvstore.KeyLessonMetaCache, metas)
		},
	})
}

// Sections loads the catalog, preferring fresh rows, and groups it by chapter.
func (c *Catalog) Sections(ctx context.Context) ([]lesson.Section, error) {
	metas, err := c.AllLessons(ctx).Await(ctx)
	if err != nil {
		return nil, fmt.Errorf("AllLessons > %w", err)
	}
	return lesson.Sections(metas), nil
}

func (c *Catalog) mergeIntoCatalog(ctx context.Context, chapterNo int, metas []lesson.Meta) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var all []lesson.Meta
	if _, err := c.codec.Load(ctx, kvstore.KeyLessonMetaCache, &all); err != nil {
		return fmt.Errorf("codec.Load(catalog) > %w", err)
	}
	merged := make([]lesson.Meta, 0, len(all)+len(metas))
	for _, m := range all {
		if m.ChapterNo != chapterNo {
			merged = append(merged, m)
		}
	}
	merged = append(merged, metas...)
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].ChapterNo != merged[j].ChapterNo {
			return merged[i].ChapterNo < merged[j].ChapterNo
		}
		return merged[i].LessonNo < merged[j].LessonNo
	})
	return c.codec.Save(ctx, kvstore.KeyLessonMetaCache, merged)
}

// Lines serves the cached dialogue lines of a lesson. An empty remote result keeps the cache.
func (c *Catalog) Lines(ctx context.Context, ref lesson.Ref) cache.Result[[]lesson.Line] {
	return cache.ReadThrough(ctx, c.cache, cache.Source[[]lesson.Line]{
		Key: kvstore.LessonCacheKey(ref.ID()),
		Fetch: func(ctx context.Context) ([]lesson.Line, error) {
			return c.repo.FindLines(ctx, ref)
		},
		IsEmpty: func(lines []lesson.Line) bool { return len(lines) == 0 },
	})
}

func (c *Catalog) Questions(ctx context.Context, ref lesson.Ref) cache.Result[[]lesson.Question] {
	return cache.ReadThrough(ctx, c.cache, cache.Source[[]lesson.Question]{
		Key: kvstore.LessonQuestionsKey(ref),
		Fetch: func(ctx context.Context) ([]lesson.Question, error) {
			return c.repo.FindQuestions(ctx, ref)
		},
		IsEmpty: func(questions []lesson.Question) bool { return len(questions) == 0 },
	})
}

func (c *Catalog) Vocab(ctx context.Context, ref lesson.Ref) cache.Result[[]lesson.VocabRow] {
	return cache.ReadThrough(ctx, c.cache, cache.Source[[]lesson.VocabRow]{
		Key: kvstore.LessonVocabKey(ref),
		Fetch: func(ctx context.Context) ([]lesson.VocabRow, error) {
			return c.repo.FindVocab(ctx, ref)
		},
		IsEmpty: func(rows []lesson.VocabRow) bool { return len(rows) == 0 },
	})
}

// LoadPages builds the pages of a lesson. Missing lines are fatal; missing questions are not.
func (c *Catalog) LoadPages(ctx context.Context, ref lesson.Ref, practice lesson.PracticeRange) (map[int]lesson.Page, error) {
	linesResult := c.Lines(ctx, ref)
	questionsResult := c.Questions(ctx, ref)

	lines, err := linesResult.Await(ctx)
	if err != nil {
		return nil, fmt.Errorf("Lines(%s) > %w", ref, err)
	}
	questions, err := questionsResult.Await(ctx)
	if err != nil {
		c.logger.Warn("practice questions unavailable", "lesson", ref.ID(), "error", err)
	}
	return lesson.BuildPages(lines, questions, practice), nil
}
