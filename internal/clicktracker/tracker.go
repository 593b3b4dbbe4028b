// Package clicktracker applies QR click increments off the request path.
package clicktracker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sunriseyouth/backend/internal/metrics"
	"github.com/sunriseyouth/backend/internal/repository"
)

// Incrementer is the store operation a Tracker drives.
type Incrementer interface {
	IncrementClicks(ctx context.Context, code string, at time.Time) error
}

// Options configures a Tracker. Zero values fall back to defaults.
type Options struct {
	QueueSize int
	Workers   int
	Timeout   time.Duration
}

const (
	defaultQueueSize = 256
	defaultWorkers   = 2
	defaultTimeout   = 5 * time.Second
)

type click struct {
	code string
	at   time.Time
}

// Tracker is a bounded queue of click increments served by a fixed set of
// workers. Track never blocks; when the queue is full the click is dropped.
type Tracker struct {
	store   Incrementer
	metrics *metrics.Metrics
	timeout time.Duration
	workers int

	queue chan click
	wg    sync.WaitGroup

	mu      sync.RWMutex
	started bool
	closed  bool
}

// New creates a Tracker. Call Start before Track.
func New(store Incrementer, opts Options, m *metrics.Metrics) *Tracker {
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Tracker{
		store:   store,
		metrics: m,
		timeout: opts.Timeout,
		workers: opts.Workers,
		queue:   make(chan click, opts.QueueSize),
	}
}

// Start launches the workers. Calling it twice is a no-op.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started || t.closed {
		return
	}
	t.started = true
	for i := 0; i < t.workers; i++ {
		t.wg.Add(1)
		go t.run()
	}
}

// Track enqueues one click for code stamped with the current time. It
// reports whether the click was accepted.
func (t *Tracker) Track(code string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		t.metrics.IncrementClickFailures("closed")
		slog.Warn("click dropped: tracker closed", "code", code)
		return false
	}

	select {
	case t.queue <- click{code: code, at: time.Now().UTC()}:
		return true
	default:
		t.metrics.IncrementClickFailures("queue_full")
		slog.Warn("click dropped: queue full", "code", code, "capacity", cap(t.queue))
		return false
	}
}

// Close stops accepting clicks and waits for queued ones to be applied, or
// for ctx to expire. Clicks still queued when ctx expires are lost.
func (t *Tracker) Close(ctx context.Context) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	close(t.queue)
	started := t.started
	t.mu.Unlock()

	if !started {
		return nil
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		slog.Warn("click tracker shutdown timed out", "pending", len(t.queue))
		return ctx.Err()
	}
}

func (t *Tracker) run() {
	defer t.wg.Done()
	for c := range t.queue {
		t.apply(c)
	}
}

// apply runs on its own context: the request that produced the click is
// long gone by now.
func (t *Tracker) apply(c click) {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	err := t.store.IncrementClicks(ctx, c.code, c.at)
	switch {
	case err == nil:
		t.metrics.IncrementClickUpdates()
	case errors.Is(err, repository.ErrNotFound):
		t.metrics.IncrementClickFailures("not_found")
		slog.Warn("click dropped: code no longer exists", "code", c.code)
	default:
		t.metrics.IncrementClickFailures("store")
		slog.Error("click increment failed", "code", c.code, "error", err)
	}
}
