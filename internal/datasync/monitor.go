package datasync

import (
	"context"
	"log/slog"
	"sync"

	"github.com/at-ishikawa/lingosync/internal/remote"
)

//go:generate mockgen -source=monitor.go -destination=../mocks/datasync/mock_monitor.go -package=mock_datasync

// Handler runs a pass for a trigger.
type Handler interface {
	Handle(ctx context.Context, trigger Trigger) (*Report, error)
}

// Monitor probes the remote store and fires a connectivity trigger when it becomes reachable again.
type Monitor struct {
	prober  remote.Prober
	handler Handler
	logger  *slog.Logger

	mu     sync.Mutex
	online bool
	known  bool
}

func NewMonitor(prober remote.Prober, handler Handler, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{prober: prober, handler: handler, logger: logger}
}

// Check probes once and reports whether the probe found connectivity regained.
func (m *Monitor) Check(ctx context.Context) bool {
	err := m.prober.Ping(ctx)
	online := err == nil

	m.mu.Lock()
	regained := m.known && !m.online && online
	if m.known && m.online && !online {
		m.logger.Info("remote store unreachable", "error", err)
	}
	m.online = online
	m.known = true
	m.mu.Unlock()

	if !regained {
		return false
	}
	m.logger.Info("remote store reachable again")
	if _, err := m.handler.Handle(ctx, TriggerConnectivity); err != nil {
		m.logger.Warn("sync after reconnect incomplete", "error", err)
	}
	return true
}

// Online reports the result of the last probe. Before the first probe it is false.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.known && m.online
}
