package datasync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

const (
	DefaultTickInterval  = time.Minute
	DefaultProbeInterval = 30 * time.Second
)

// Ticker schedules the foreground minute tick and the connectivity probe.
type Ticker struct {
	scheduler     *gocron.Scheduler
	orchestrator  *Orchestrator
	monitor       *Monitor
	tickInterval  time.Duration
	probeInterval time.Duration
	logger        *slog.Logger
}

func NewTicker(orchestrator *Orchestrator, monitor *Monitor, tickInterval, probeInterval time.Duration, logger *slog.Logger) *Ticker {
	if logger == nil {
		logger = slog.Default()
	}
	if tickInterval <= 0 {
		tickInterval = DefaultTickInterval
	}
	if probeInterval <= 0 {
		probeInterval = DefaultProbeInterval
	}
	return &Ticker{
		scheduler:     gocron.NewScheduler(time.UTC),
		orchestrator:  orchestrator,
		monitor:       monitor,
		tickInterval:  tickInterval,
		probeInterval: probeInterval,
		logger:        logger,
	}
}

// Start schedules the jobs and returns. Jobs stop when ctx is done or Stop is called.
func (t *Ticker) Start(ctx context.Context) error {
	t.scheduler.SingletonModeAll()

	if _, err := t.scheduler.Every(t.tickInterval).WaitForSchedule().Do(func() {
		snap, err := t.orchestrator.Tick(ctx)
		if err != nil {
			t.logger.Warn("minute tick failed", "error", err)
			return
		}
		t.logger.Debug("minute tick", "total", snap.Total(), "pending", snap.Pending)
	}); err != nil {
		return fmt.Errorf("scheduler.Do(tick) > %w", err)
	}

	if t.monitor != nil {
		if _, err := t.scheduler.Every(t.probeInterval).Do(func() {
			t.monitor.Check(ctx)
		}); err != nil {
			return fmt.Errorf("scheduler.Do(probe) > %w", err)
		}
	}

	t.scheduler.StartAsync()
	go func() {
		<-ctx.Done()
		t.Stop()
	}()
	return nil
}

func (t *Ticker) Stop() {
	if t.scheduler.IsRunning() {
		t.scheduler.Stop()
	}
}
