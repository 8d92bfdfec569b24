package statistics

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/lingosync/internal/kvstore"
	"github.com/at-ishikawa/lingosync/internal/lesson"
	"github.com/at-ishikawa/lingosync/internal/timespent"
)

// Source tells where the progress counts of a summary came from.
type Source string

const (
	SourceServer   Source = "server"
	SourceFallback Source = "fallback"
	SourceLocal    Source = "local"
)

// VocabSource tells which fallback produced the vocabulary count.
type VocabSource string

const (
	VocabFromMirror    VocabSource = "learned"
	VocabFromCompleted VocabSource = "completed_lessons"
	VocabFromServer    VocabSource = "server"
	VocabFromCache     VocabSource = "cache"
)

// Summary is the progress shown to the user.
type Summary struct {
	VocabCount        int                  `json:"vocab_count" yaml:"vocab_count"`
	VocabSource       VocabSource          `json:"vocab_source" yaml:"vocab_source"`
	LessonsCompleted  int                  `json:"lessons_completed" yaml:"lessons_completed"`
	ChaptersCompleted int                  `json:"chapters_completed" yaml:"chapters_completed"`
	TotalMinutes      int                  `json:"total_minutes" yaml:"total_minutes"`
	PendingMinutes    int                  `json:"pending_minutes" yaml:"pending_minutes"`
	Week              []timespent.DayTotal `json:"week" yaml:"week"`
	Source            Source               `json:"source" yaml:"source"`
}

// CompletedLessons lists the lessons the user completed.
type CompletedLessons interface {
	CompletedLessons(ctx context.Context) ([]lesson.ID, error)
}

type Reconciler struct {
	codec     *kvstore.Codec
	repo      Repository
	minutes   *timespent.Aggregator
	completed CompletedLessons
	userID    string
	logger    *slog.Logger
}

func NewReconciler(
	codec *kvstore.Codec,
	repo Repository,
	minutes *timespent.Aggregator,
	completed CompletedLessons,
	userID string,
	logger *slog.Logger,
) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		codec:     codec,
		repo:      repo,
		minutes:   minutes,
		completed: completed,
		userID:    userID,
		logger:    logger,
	}
}

// Refresh re-derives the summary. Remote failures degrade to the fallback reads and then to local
// state; only local store failures are returned.
func (r *Reconciler) Refresh(ctx context.Context) (Summary, error) {
	if err := r.repo.UpdateProgressCounts(ctx, r.userID); err != nil {
		r.logger.Warn("failed to update progress counts", "error", err)
	}

	summary := Summary{Source: SourceServer}
	var progress *Progress
	var week []timespent.DayTotal

	remote, err := r.repo.ProgressSummary(ctx, r.userID)
	if err == nil && remote != nil {
		progress = &remote.Progress
		week, err = r.minutes.Week(ctx, remote.Last7)
		if err != nil {
			return Summary{}, fmt.Errorf("minutes.Week > %w", err)
		}
	} else {
		r.logger.Warn("progress summary unavailable, reading tables", "error", err)
		summary.Source = SourceFallback
		progress, err = r.repo.FindUserProgress(ctx, r.userID)
		if err != nil {
			r.logger.Warn("user progress unavailable, using local state", "error", err)
			summary.Source = SourceLocal
		}
		week, err = r.minutes.FetchWeek(ctx)
		if err != nil {
			return Summary{}, fmt.Errorf("minutes.FetchWeek > %w", err)
		}
	}
	summary.Week = week

	if progress != nil {
		if _, err := r.minutes.ApplyServerTotal(ctx, progress.TotalMinutes); err != nil {
			return Summary{}, fmt.Errorf("minutes.ApplyServerTotal > %w", err)
		}
		summary.LessonsCompleted = progress.LessonsCompleted
		summary.ChaptersCompleted = progress.ChaptersCompleted
	}
	snap, err := r.minutes.Snapshot(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("minutes.Snapshot > %w", err)
	}
	summary.TotalMinutes = snap.Total()
	summary.PendingMinutes = snap.Pending

	completed, err := r.completed.CompletedLessons(ctx)
	if err != nil {
		r.logger.Warn("failed to read completed lessons", "error", err)
	}
	if progress == nil {
		summary.LessonsCompleted = len(completed)
	}

	summary.VocabCount, summary.VocabSource, err = r.vocabCount(ctx, completed, progress)
	if err != nil {
		return Summary{}, err
	}
	return summary, nil
}

// vocabCount prefers the learned vocabulary mirror, then the vocabulary of completed lessons,
// then the server's count and finally the last derived count.
func (r *Reconciler) vocabCount(ctx context.Context, completed []lesson.ID, progress *Progress) (int, VocabSource, error) {
	var learned int
	if _, err := r.codec.Load(ctx, kvstore.KeyVocabLearnedCount, &learned); err != nil {
		return 0, "", err
	}
	if learned > 0 {
		return learned, VocabFromMirror, r.codec.Save(ctx, kvstore.KeyVocabCount, learned)
	}

	if len(completed) > 0 {
		counts, err := r.repo.FindLessonVocabCounts(ctx, completed)
		if err != nil {
			r.logger.Warn("failed to read lesson vocab counts", "error", err)
		} else {
			total := 0
			for _, c := range counts {
				total += c
			}
			if total > 0 {
				return total, VocabFromCompleted, r.codec.Save(ctx, kvstore.KeyVocabCount, total)
			}
		}
	}

	if progress != nil {
		return progress.VocabCount, VocabFromServer, r.codec.Save(ctx, kvstore.KeyVocabCount, progress.VocabCount)
	}

	var cached int
	if _, err := r.codec.Load(ctx, kvstore.KeyVocabCount, &cached); err != nil {
		return 0, "", err
	}
	return cached, VocabFromCache, nil
}
