package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/at-ishikawa/lingosync/internal/background"
	"github.com/at-ishikawa/lingosync/internal/kvstore"
	"github.com/at-ishikawa/lingosync/internal/lesson"
)

// Source says where a resume position came from.
type Source string

const (
	SourceRemote  Source = "remote"
	SourceLocal   Source = "local"
	SourceDefault Source = "default"
)

// Resume is where a lesson opens.
type Resume struct {
	Page      int
	Source    Source
	Completed bool
	// OfferRestart is set for a finished lesson: the caller must choose between
	// Restart and leaving for the lesson list instead of resuming.
	OfferRestart bool
}

// Step is the outcome of advancing a page.
type Step struct {
	Page       int
	ExitToList bool
}

// CompletionHook runs in the background after a lesson is finished.
type CompletionHook struct {
	Name string
	Run  func(ctx context.Context, ref lesson.Ref) error
}

type Config struct {
	UserID     string
	TotalPages int
	Practice   lesson.PracticeRange
}

type Ledger struct {
	codec  *kvstore.Codec
	repo   Repository
	runner *background.Runner
	cfg    Config
	hooks  []CompletionHook
	logger *slog.Logger
	now    func() time.Time

	// serializes the read-modify-write of the shared progress and completed maps
	mu sync.Mutex
}

func NewLedger(codec *kvstore.Codec, repo Repository, runner *background.Runner, cfg Config, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		codec:  codec,
		repo:   repo,
		runner: runner,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// OnComplete registers work to run in the background when a lesson is finished, in registration order.
func (l *Ledger) OnComplete(hooks ...CompletionHook) {
	l.hooks = append(l.hooks, hooks...)
}

func (l *Ledger) TotalPages() int {
	return l.cfg.TotalPages
}

// Open decides the resume position: the remote record first, then the local map, then page 1.
func (l *Ledger) Open(ctx context.Context, ref lesson.Ref) Resume {
	id := ref.ID()
	record, err := l.repo.FindProgress(ctx, l.cfg.UserID, id)
	if err != nil {
		l.logger.Warn("remote progress unavailable, using local", "lesson", id, "error", err)
	}
	if err == nil && record != nil {
		if record.Completed && record.LastPage == l.cfg.TotalPages {
			return Resume{Page: record.LastPage, Source: SourceRemote, Completed: true, OfferRestart: true}
		}
		return Resume{Page: l.clamp(record.LastPage), Source: SourceRemote, Completed: record.Completed}
	}

	pages, err := l.loadPages(ctx)
	if err != nil {
		l.logger.Warn("local progress unavailable", "lesson", id, "error", err)
		return Resume{Page: 1, Source: SourceDefault}
	}
	if page, ok := kvstore.Lookup(pages, ref); ok && page >= 1 && page <= l.cfg.TotalPages {
		return Resume{Page: page, Source: SourceLocal}
	}
	return Resume{Page: 1, Source: SourceDefault}
}

// Restart sends a finished lesson back to page 1. Completion is kept.
func (l *Ledger) Restart(ctx context.Context, ref lesson.Ref) (int, error) {
	return 1, l.SetPage(ctx, ref, 1)
}

// SetPage persists the page locally before returning and syncs it to the remote store in the background.
func (l *Ledger) SetPage(ctx context.Context, ref lesson.Ref, page int) error {
	if page < 1 || page > l.cfg.TotalPages {
		return fmt.Errorf("page %d is outside 1..%d", page, l.cfg.TotalPages)
	}
	if err := l.savePage(ctx, ref, page); err != nil {
		return err
	}

	completed, err := l.IsCompleted(ctx, ref)
	if err != nil {
		l.logger.Warn("completed map unavailable", "lesson", ref.ID(), "error", err)
	}
	l.upsertInBackground(ctx, ref, page, completed)
	return nil
}

// Back moves one page back, stopping at page 1.
func (l *Ledger) Back(ctx context.Context, ref lesson.Ref, page int) (int, error) {
	prev := page - 1
	if prev < 1 {
		prev = 1
	}
	return prev, l.SetPage(ctx, ref, prev)
}

// Advance moves past page. Past the final page the lesson is finished: completion is recorded locally,
// the remote write and completion hooks are queued, and the step always exits to the lesson list,
// returning any local failure alongside.
func (l *Ledger) Advance(ctx context.Context, ref lesson.Ref, page int) (Step, error) {
	if page < l.cfg.TotalPages {
		next := page + 1
		return Step{Page: next}, l.SetPage(ctx, ref, next)
	}

	var errs []error
	if err := l.savePage(ctx, ref, l.cfg.TotalPages); err != nil {
		errs = append(errs, err)
	}
	if err := l.markCompleted(ctx, ref); err != nil {
		errs = append(errs, err)
		l.logger.Warn("failed to record completion locally", "lesson", ref.ID(), "error", err)
	}

	l.upsertInBackground(ctx, ref, l.cfg.TotalPages, true)
	for _, hook := range l.hooks {
		hook := hook
		l.runner.Go(ctx, hook.Name, func(ctx context.Context) error {
			return hook.Run(ctx, ref)
		})
	}
	return Step{Page: l.cfg.TotalPages, ExitToList: true}, errors.Join(errs...)
}

// CheckAnswer is the answer check of a practice page. Continuing afterwards always advances.
func (l *Ledger) CheckAnswer(page int, question *lesson.Question, submitted string) (lesson.Verdict, error) {
	if !l.cfg.Practice.Contains(page) {
		return lesson.Verdict{}, fmt.Errorf("page %d is not a practice page", page)
	}
	if question == nil {
		return lesson.Verdict{}, fmt.Errorf("page %d has no question", page)
	}
	return lesson.CheckAnswer(submitted, question.Answer), nil
}

func (l *Ledger) upsertInBackground(ctx context.Context, ref lesson.Ref, page int, completed bool) {
	record := &Record{
		UserID:    l.cfg.UserID,
		LessonID:  ref.ID(),
		LastPage:  page,
		Completed: completed,
		UpdatedAt: l.now().UTC(),
	}
	l.runner.Go(ctx, "progress upsert", func(ctx context.Context) error {
		if err := l.repo.UpsertProgress(ctx, record); err != nil {
			return fmt.Errorf("repo.UpsertProgress(%s) > %w", record.LessonID, err)
		}
		return nil
	})
}

func (l *Ledger) clamp(page int) int {
	if page < 1 {
		return 1
	}
	if page > l.cfg.TotalPages {
		return l.cfg.TotalPages
	}
	return page
}

func (l *Ledger) loadPages(ctx context.Context) (map[string]int, error) {
	pages := make(map[string]int)
	if _, err := l.codec.Load(ctx, kvstore.KeyLessonProgress, &pages); err != nil {
		return nil, err
	}
	if pages == nil {
		pages = make(map[string]int)
	}
	return pages, nil
}

func (l *Ledger) savePage(ctx context.Context, ref lesson.Ref, page int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	pages, err := l.loadPages(ctx)
	if err != nil {
		return fmt.Errorf("load progress map > %w", err)
	}
	pages[ref.ID().String()] = page
	if err := l.codec.Save(ctx, kvstore.KeyLessonProgress, pages); err != nil {
		return fmt.Errorf("save progress map > %w", err)
	}
	return nil
}
