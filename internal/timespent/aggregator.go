package timespent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/at-ishikawa/lingosync/internal/kvstore"
	"github.com/at-ishikawa/lingosync/internal/remote"
)

const DefaultFlushTimeout = 10 * time.Second

type Config struct {
	UserID string
	// FlushTimeout bounds each remote call of a flush.
	FlushTimeout time.Duration
	Retry        remote.RetryPolicy
}

// Snapshot is the locally known state of time tracking.
// The displayed total is Confirmed + Pending.
type Snapshot struct {
	Confirmed int
	Pending   int
	Days      DayMinutes
}

func (s Snapshot) Total() int {
	return s.Confirmed + s.Pending
}

// FlushReport describes one Flush call.
type FlushReport struct {
	Flushed   int
	Remaining int
	// ServerTotal is set when the confirmed total was refreshed from the server.
	ServerTotal *int
}

type legacyQueueEntry struct {
	DayISO  string `json:"dayISO"`
	Minutes int    `json:"minutes"`
}

type state struct {
	confirmed int
	pending   DayMinutes
	days      DayMinutes
}

func (s *state) pendingTotal() int {
	return s.pending.Sum()
}

// Aggregator owns the time-spent keys. Every read-modify-write of them happens under one lock.
type Aggregator struct {
	codec  *kvstore.Codec
	repo   Repository
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	loaded bool
	st     state

	// serializes flushes so a pending day is never sent twice
	flushMu sync.Mutex
}

func NewAggregator(codec *kvstore.Codec, repo Repository, cfg Config, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.FlushTimeout <= 0 {
		cfg.FlushTimeout = DefaultFlushTimeout
	}
	return &Aggregator{
		codec:  codec,
		repo:   repo,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// load reads the persisted state once. The caller holds mu.
func (a *Aggregator) load(ctx context.Context) error {
	if a.loaded {
		return nil
	}

	st := state{pending: DayMinutes{}, days: DayMinutes{}}
	if _, err := a.codec.Load(ctx, kvstore.KeyTimeSpentTotal, &st.confirmed); err != nil {
		return err
	}
	if _, err := a.codec.Load(ctx, kvstore.KeyTimeSpentByDay, &st.days); err != nil {
		return err
	}
	if st.days == nil {
		st.days = DayMinutes{}
	}

	found, err := a.codec.Load(ctx, kvstore.KeyTimeSpentPendingByDay, &st.pending)
	if err != nil {
		return err
	}
	if st.pending == nil {
		st.pending = DayMinutes{}
	}
	if !found {
		// older installs only kept a pending sum, attributed to today
		var pending int
		if _, err := a.codec.Load(ctx, kvstore.KeyTimeSpentPending, &pending); err != nil {
			return err
		}
		if pending > 0 {
			st.pending[Day(a.now())] += pending
		}
	}

	var legacy []legacyQueueEntry
	migrated, err := a.codec.Load(ctx, kvstore.KeyTimeSpentLegacyQueue, &legacy)
	if err != nil {
		return err
	}
	for _, e := range legacy {
		if e.Minutes > 0 && e.DayISO != "" {
			st.pending[normalizeDay(e.DayISO)] += e.Minutes
		}
	}

	a.st = st
	a.loaded = true
	if migrated {
		if err := a.persist(ctx); err != nil {
			return err
		}
		if err := a.codec.Remove(ctx, kvstore.KeyTimeSpentLegacyQueue); err != nil {
			return err
		}
		a.logger.Info("migrated legacy time queue", "entries", len(legacy))
	}
	return nil
}

// persist writes the state. The caller holds mu.
func (a *Aggregator) persist(ctx context.Context) error {
	a.prune()
	if err := a.codec.Save(ctx, kvstore.KeyTimeSpentPendingByDay, a.st.pending); err != nil {
		return err
	}
	if err := a.codec.Save(ctx, kvstore.KeyTimeSpentPending, a.st.pendingTotal()); err != nil {
		return err
	}
	if err := a.codec.Save(ctx, kvstore.KeyTimeSpentTotal, a.st.confirmed); err != nil {
		return err
	}
	return a.codec.Save(ctx, kvstore.KeyTimeSpentByDay, a.st.days)
}

func (a *Aggregator) prune() {
	oldest := Day(a.now().AddDate(0, 0, -retainDays))
	for day := range a.st.days {
		if day < oldest {
			delete(a.st.days, day)
		}
	}
}

func (a *Aggregator) snapshot() Snapshot {
	return Snapshot{
		Confirmed: a.st.confirmed,
		Pending:   a.st.pendingTotal(),
		Days:      a.st.days.clone(),
	}
}

// apply runs fn on the loaded state and persists the result as one step.
func (a *Aggregator) apply(ctx context.Context, fn func(*state)) (Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.load(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("load time spent > %w", err)
	}
	fn(&a.st)
	if err := a.persist(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("persist time spent > %w", err)
	}
	return a.snapshot(), nil
}

func (a *Aggregator) Snapshot(ctx context.Context) (Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.load(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("load time spent > %w", err)
	}
	return a.snapshot(), nil
}

// Accrue records foreground minutes on today's UTC day as pending.
func (a *Aggregator) Accrue(ctx context.Context, minutes int) (Snapshot, error) {
	if minutes <= 0 {
		return a.Snapshot(ctx)
	}
	today := Day(a.now())
	return a.apply(ctx, func(s *state) {
		s.pending[today] += minutes
		s.days[today] += minutes
	})
}

// Tick accrues one minute and attempts an immediate flush. A failed flush keeps the minute pending.
func (a *Aggregator) Tick(ctx context.Context) (Snapshot, error) {
	if _, err := a.Accrue(ctx, 1); err != nil {
		return Snapshot{}, err
	}
	if _, err := a.Flush(ctx); err != nil {
		a.logger.Debug("time flush deferred", "error", err)
	}
	return a.Snapshot(ctx)
}

// Flush sends the pending minutes day by day. A day is removed from pending only after the server
// acknowledged it; minutes accrued meanwhile stay pending. The confirmed total is then refreshed from
// the server, or advanced by the flushed amount when that read fails.
func (a *Aggregator) Flush(ctx context.Context) (FlushReport, error) {
	a.flushMu.Lock()
	defer a.flushMu.Unlock()

	snap, err := a.pendingSnapshot(ctx)
	if err != nil {
		return FlushReport{}, err
	}

	var report FlushReport
	var errs []error
	for _, day := range snap.Days() {
		minutes := snap[day]
		if minutes <= 0 {
			continue
		}
		err := a.cfg.Retry.Do(ctx, func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, a.cfg.FlushTimeout)
			defer cancel()
			return a.repo.AddTimeSpent(ctx, a.cfg.UserID, day, minutes)
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("repo.AddTimeSpent(%s) > %w", day, err))
			continue
		}
		if _, err := a.apply(ctx, func(s *state) {
			s.pending[day] -= minutes
			if s.pending[day] <= 0 {
				delete(s.pending, day)
			}
			s.confirmed += minutes
		}); err != nil {
			errs = append(errs, err)
			continue
		}
		report.Flushed += minutes
	}

	if report.Flushed > 0 {
		total, err := a.fetchTotal(ctx)
		if err != nil {
			a.logger.Warn("failed to refresh confirmed minutes", "error", err)
		} else if _, err := a.ApplyServerTotal(ctx, total); err == nil {
			report.ServerTotal = &total
		}
	}

	after, err := a.Snapshot(ctx)
	if err == nil {
		report.Remaining = after.Pending
	}
	return report, errors.Join(errs...)
}

func (a *Aggregator) pendingSnapshot(ctx context.Context) (DayMinutes, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.load(ctx); err != nil {
		return nil, fmt.Errorf("load time spent > %w", err)
	}
	return a.st.pending.clone(), nil
}

func (a *Aggregator) fetchTotal(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.FlushTimeout)
	defer cancel()
	return a.repo.TotalMinutes(ctx, a.cfg.UserID)
}

// ApplyServerTotal adopts a confirmed total read from the server. Server totals only grow,
// so a lagging read never lowers the confirmed total.
func (a *Aggregator) ApplyServerTotal(ctx context.Context, total int) (Snapshot, error) {
	return a.apply(ctx, func(s *state) {
		if total > s.confirmed {
			s.confirmed = total
		}
	})
}

// Week merges the server's days of the current week with the local day map.
func (a *Aggregator) Week(ctx context.Context, server []DayTotal) ([]DayTotal, error) {
	snap, err := a.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return MergeWeek(server, snap.Days, a.now()), nil
}

// FetchWeek reads the current week from the server and merges it with the local day map.
func (a *Aggregator) FetchWeek(ctx context.Context) ([]DayTotal, error) {
	since := WeekEnding(a.now())[0]
	server, err := a.repo.FindDays(ctx, a.cfg.UserID, since)
	if err != nil {
		a.logger.Warn("failed to read server days, using local", "error", err)
		server = nil
	}
	return a.Week(ctx, server)
}
