package audio

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesAllJobs(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[uuid.UUID]int)
	done := make(chan struct{}, 10)

	q := NewQueue(3, func(_ context.Context, id uuid.UUID) error {
		mu.Lock()
		seen[id]++
		mu.Unlock()
		done <- struct{}{}
		return nil
	})

	ids := make([]uuid.UUID, 10)
	for i := range ids {
		ids[i] = uuid.New()
		require.True(t, q.Enqueue(ids[i]))
	}

	for range ids {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}
	q.Stop()

	mu.Lock()
	defer mu.Unlock()
	for _, id := range ids {
		assert.Equal(t, 1, seen[id])
	}
}

func TestEnqueueAfterStop(t *testing.T) {
	q := NewQueue(1, func(context.Context, uuid.UUID) error { return nil })
	q.Stop()
	assert.False(t, q.Enqueue(uuid.New()))
}

func TestStopIsIdempotent(t *testing.T) {
	q := NewQueue(2, func(context.Context, uuid.UUID) error { return nil })
	q.Stop()
	q.Stop()
}

func TestWorkerErrorDoesNotStall(t *testing.T) {
	done := make(chan struct{}, 2)
	q := NewQueue(1, func(_ context.Context, id uuid.UUID) error {
		done <- struct{}{}
		return context.DeadlineExceeded
	})
	defer q.Stop()

	require.True(t, q.Enqueue(uuid.New()))
	require.True(t, q.Enqueue(uuid.New()))
	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("worker stalled after error")
		}
	}
}
