package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/at-ishikawa/lingosync/internal/kvstore"
	"github.com/at-ishikawa/lingosync/internal/lesson"
)

// Download fetches everything a lesson needs offline. Nothing is written unless all fetches succeed,
// and the downloaded marker is written last.
func (c *Catalog) Download(ctx context.Context, ref lesson.Ref) (*lesson.Bundle, error) {
	bundle := lesson.Bundle{LessonID: ref.ID(), ChapterNo: ref.ChapterNo, LessonNo: ref.LessonNo}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lines, err := c.repo.FindLines(gctx, ref)
		if err != nil {
			return fmt.Errorf("repo.FindLines > %w", err)
		}
		bundle.Lines = lines
		return nil
	})
	g.Go(func() error {
		questions, err := c.repo.FindQuestions(gctx, ref)
		if err != nil {
			return fmt.Errorf("repo.FindQuestions > %w", err)
		}
		bundle.Questions = questions
		return nil
	})
	g.Go(func() error {
		vocab, err := c.repo.FindVocab(gctx, ref)
		if err != nil {
			return fmt.Errorf("repo.FindVocab > %w", err)
		}
		bundle.Vocab = vocab
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("download(%s) > %w", ref, err)
	}

	if err := c.codec.Save(ctx, kvstore.LessonCacheKey(bundle.LessonID), bundle.Lines); err != nil {
		return nil, err
	}
	if err := c.codec.Save(ctx, kvstore.LessonQuestionsKey(ref), bundle.Questions); err != nil {
		return nil, err
	}
	if err := c.codec.Save(ctx, kvstore.LessonVocabKey(ref), bundle.Vocab); err != nil {
		return nil, err
	}
	if err := c.markDownloaded(ctx, ref); err != nil {
		return nil, err
	}
	return &bundle, nil
}

func (c *Catalog) markDownloaded(ctx context.Context, ref lesson.Ref) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	downloaded := make(map[string]bool)
	if _, err := c.codec.Load(ctx, kvstore.KeyDownloadedLessons, &downloaded); err != nil {
		return fmt.Errorf("codec.Load(downloaded) > %w", err)
	}
	if downloaded == nil {
		downloaded = make(map[string]bool)
	}
	downloaded[ref.ID().String()] = true
	if ref.HasChapter() {
		downloaded[ref.Key()] = true
	}
	return c.codec.Save(ctx, kvstore.KeyDownloadedLessons, downloaded)
}

// IsDownloaded checks the downloaded marker under every historical key shape.
func (c *Catalog) IsDownloaded(ctx context.Context, ref lesson.Ref) (bool, error) {
	var downloaded map[string]bool
	if _, err := c.codec.Load(ctx, kvstore.KeyDownloadedLessons, &downloaded); err != nil {
		return false, fmt.Errorf("codec.Load(downloaded) > %w", err)
	}
	v, _ := kvstore.LookupDownloaded(downloaded, ref)
	return v, nil
}
