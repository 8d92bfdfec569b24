// Package background runs fire-and-forget tasks off the caller's path.
// Failures are logged, never returned to whoever submitted the task.
package background

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("background runner is closed")

// Task is a unit of background work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Runner executes tasks in submission order on a single worker goroutine.
// The queue is unbounded so Submit never waits for running work.
type Runner struct {
	logger *slog.Logger

	mu     sync.Mutex
	queue  []queued
	closed bool
	wake   chan struct{}
	done   chan struct{}
	wg     sync.WaitGroup
}

type queued struct {
	ctx  context.Context
	task Task
}

// NewRunner starts the worker. capacity sizes the initial queue.
func NewRunner(capacity int, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if capacity <= 0 {
		capacity = 64
	}
	r := &Runner{
		logger: logger,
		queue:  make([]queued, 0, capacity),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go r.work()
	return r
}

// Submit enqueues task and returns without waiting. The task keeps the values of ctx but not
// its cancellation, so it still completes after the submitter has moved on.
func (r *Runner) Submit(ctx context.Context, task Task) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	r.wg.Add(1)
	r.queue = append(r.queue, queued{ctx: context.WithoutCancel(ctx), task: task})
	r.mu.Unlock()

	r.signal()
	return nil
}

func (r *Runner) signal() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Go submits a task and logs instead of returning the error when the runner is closed.
func (r *Runner) Go(ctx context.Context, name string, run func(ctx context.Context) error) {
	if err := r.Submit(ctx, Task{Name: name, Run: run}); err != nil {
		r.logger.Warn("background task dropped", "task", name, "error", err)
	}
}

// Wait blocks until every submitted task has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Close stops accepting tasks and waits for the queued ones to finish.
func (r *Runner) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.signal()
	<-r.done
}

func (r *Runner) work() {
	defer close(r.done)
	for {
		q, ok := r.next()
		if !ok {
			return
		}
		r.run(q)
	}
}

// next pops the oldest task, waiting for one. It reports false once the runner is closed and drained.
func (r *Runner) next() (queued, bool) {
	for {
		r.mu.Lock()
		if len(r.queue) > 0 {
			q := r.queue[0]
			r.queue[0] = queued{}
			r.queue = r.queue[1:]
			r.mu.Unlock()
			return q, true
		}
		closed := r.closed
		r.mu.Unlock()
		if closed {
			return queued{}, false
		}
		<-r.wake
	}
}

func (r *Runner) run(q queued) {
	defer r.wg.Done()
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("background task panicked", "task", q.task.Name, "panic", p)
		}
	}()

	if err := q.task.Run(q.ctx); err != nil {
		r.logger.Warn("background task failed", "task", q.task.Name, "error", err)
		return
	}
	r.logger.Debug("background task finished", "task", q.task.Name)
}
