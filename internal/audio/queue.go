// Package audio runs background audio generation: a bounded job queue
// drained by a fixed pool of workers, owned by the process and shut down
// at exit.
package audio

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

const queueCapacity = 256

// ProcessFunc generates audio for one devotional day.
type ProcessFunc func(ctx context.Context, id uuid.UUID) error

// Queue accepts fire-and-forget generation jobs. Enqueue never blocks;
// jobs submitted while the queue is full are dropped and logged.
type Queue struct {
	jobs    chan uuid.UUID
	process ProcessFunc
	wg      sync.WaitGroup
	cancel  context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewQueue starts workers goroutines draining the queue.
func NewQueue(workers int, process ProcessFunc) *Queue {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		jobs:    make(chan uuid.UUID, queueCapacity),
		process: process,
		cancel:  cancel,
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx)
	}
	slog.Info("audio queue started", "workers", workers)
	return q
}

func (q *Queue) worker(ctx context.Context) {
	defer q.wg.Done()
	for id := range q.jobs {
		if ctx.Err() != nil {
			return
		}
		if err := q.process(ctx, id); err != nil {
			slog.Error("audio generation failed", "area", "audio", "devotional_id", id, "error", err)
		}
	}
}

// Enqueue submits a devotional day for generation and returns immediately.
// Returns false if the queue is shut down or full.
func (q *Queue) Enqueue(id uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	select {
	case q.jobs <- id:
		return true
	default:
		slog.Warn("audio queue full, dropping job", "devotional_id", id)
		return false
	}
}

// Stop drains no further jobs: pending items are abandoned and in-flight
// work is canceled. Blocks until all workers exit.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	q.cancel()
	q.wg.Wait()
	slog.Info("audio queue stopped")
}
