// Package datasync reconciles local state with the remote store on connectivity, foreground
// and mount triggers.
package datasync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/at-ishikawa/lingosync/internal/statistics"
	"github.com/at-ishikawa/lingosync/internal/timespent"
	"github.com/at-ishikawa/lingosync/internal/vocab"
)

//go:generate mockgen -source=datasync.go -destination=../mocks/datasync/mock_datasync.go -package=mock_datasync

// Trigger is the event that started a pass.
type Trigger string

const (
	TriggerMount        Trigger = "mount"
	TriggerConnectivity Trigger = "connectivity"
	TriggerForeground   Trigger = "foreground"
)

// VocabSyncer drains the pending learned-vocabulary queue.
type VocabSyncer interface {
	SyncPending(ctx context.Context) (vocab.SyncReport, error)
}

// TimeFlusher sends the pending foreground minutes.
type TimeFlusher interface {
	Tick(ctx context.Context) (timespent.Snapshot, error)
	Flush(ctx context.Context) (timespent.FlushReport, error)
}

// StatsRefresher re-derives the progress summary.
type StatsRefresher interface {
	Refresh(ctx context.Context) (statistics.Summary, error)
}

// Report tracks the outcome of each step of a pass.
type Report struct {
	Trigger  Trigger
	Vocab    vocab.SyncReport
	VocabErr error
	Time     timespent.FlushReport
	TimeErr  error
	Summary  *statistics.Summary
	StatsErr error
}

// Err joins the step failures.
func (r *Report) Err() error {
	return errors.Join(r.VocabErr, r.TimeErr, r.StatsErr)
}

type Orchestrator struct {
	vocab  VocabSyncer
	time   TimeFlusher
	stats  StatsRefresher
	writer io.Writer
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	// next collects triggers that arrived while a pass was running; they share one follow-up pass
	next *followUp
}

type followUp struct {
	trigger Trigger
	done    chan struct{}
	report  *Report
}

// NewOrchestrator creates an Orchestrator. Step lines are written to writer when it is not nil.
func NewOrchestrator(syncer VocabSyncer, flusher TimeFlusher, refresher StatsRefresher, writer io.Writer, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if writer == nil {
		writer = io.Discard
	}
	return &Orchestrator{
		vocab:  syncer,
		time:   flusher,
		stats:  refresher,
		writer: writer,
		logger: logger,
	}
}

// Handle runs one pass: drain the vocabulary queue, flush pending minutes, then refresh the summary.
// Steps are independent; a failing step does not stop the next ones. Triggers arriving while a pass
// runs are coalesced into one follow-up pass started when it ends, and share its report.
func (o *Orchestrator) Handle(ctx context.Context, trigger Trigger) (*Report, error) {
	o.mu.Lock()
	if o.running {
		if o.next == nil {
			o.next = &followUp{trigger: trigger, done: make(chan struct{})}
		}
		f := o.next
		o.mu.Unlock()
		o.logger.Debug("sync trigger coalesced", "trigger", trigger, "follow_up", f.trigger)

		select {
		case <-f.done:
			return f.report, f.report.Err()
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	o.running = true
	o.mu.Unlock()

	report := o.run(ctx, trigger)
	for {
		o.mu.Lock()
		f := o.next
		o.next = nil
		if f == nil {
			o.running = false
			o.mu.Unlock()
			break
		}
		o.mu.Unlock()

		f.report = o.run(context.WithoutCancel(ctx), f.trigger)
		close(f.done)
	}
	return report, report.Err()
}

func (o *Orchestrator) run(ctx context.Context, trigger Trigger) *Report {
	report := &Report{Trigger: trigger}
	o.logger.Info("sync pass started", "trigger", trigger)

	report.Vocab, report.VocabErr = o.drainVocab(ctx)
	if report.VocabErr != nil {
		o.logger.Warn("vocab sync failed", "trigger", trigger, "error", report.VocabErr)
		fmt.Fprintf(o.writer, "  [FAIL]  vocab: %v\n", report.VocabErr)
	} else {
		fmt.Fprintf(o.writer, "  [OK]  vocab: drained %d, remaining %d, replayed %d\n",
			report.Vocab.Drained, report.Vocab.Remaining, report.Vocab.Replayed)
	}

	report.Time, report.TimeErr = o.flushTime(ctx)
	if report.TimeErr != nil {
		o.logger.Warn("time flush failed", "trigger", trigger, "error", report.TimeErr)
		fmt.Fprintf(o.writer, "  [FAIL]  time: %v\n", report.TimeErr)
	} else {
		fmt.Fprintf(o.writer, "  [OK]  time: flushed %d, pending %d\n", report.Time.Flushed, report.Time.Remaining)
	}

	summary, err := o.refreshStats(ctx)
	if err != nil {
		report.StatsErr = err
		o.logger.Warn("stats refresh failed", "trigger", trigger, "error", err)
		fmt.Fprintf(o.writer, "  [FAIL]  stats: %v\n", err)
	} else {
		report.Summary = &summary
		fmt.Fprintf(o.writer, "  [OK]  stats: %s\n", summary.Source)
	}
	return report
}

func (o *Orchestrator) drainVocab(ctx context.Context) (report vocab.SyncReport, err error) {
	defer recoverStep("vocab", &err)
	return o.vocab.SyncPending(ctx)
}

func (o *Orchestrator) flushTime(ctx context.Context) (report timespent.FlushReport, err error) {
	defer recoverStep("time", &err)
	return o.time.Flush(ctx)
}

func (o *Orchestrator) refreshStats(ctx context.Context) (summary statistics.Summary, err error) {
	defer recoverStep("stats", &err)
	return o.stats.Refresh(ctx)
}

func recoverStep(step string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s step panicked: %v", step, r)
	}
}

// Tick accrues one foreground minute.
func (o *Orchestrator) Tick(ctx context.Context) (timespent.Snapshot, error) {
	return o.time.Tick(ctx)
}
