package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestQueueProcessesJobs(t *testing.T) {
	done := make(chan Job, 1)
	q := NewQueue("test", func(_ context.Context, job Job) error {
		done <- job
		return nil
	}, QueueConfig{})

	require.Error(t, q.Enqueue(Job{ID: "early"}))

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "1", Type: "cleanup"}))
	select {
	case job := <-done:
		assert.Equal(t, "1", job.ID)
		assert.False(t, job.Enqueued.IsZero())
	case <-time.After(time.Second):
		t.Fatal("job not processed")
	}
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var calls int32
	succeeded := make(chan int, 1)
	q := NewQueue("retry", func(_ context.Context, job Job) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("boom")
		}
		succeeded <- job.Attempt
		return nil
	}, QueueConfig{MaxRetries: 3, RetryDelay: 5 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "r"}))
	select {
	case attempt := <-succeeded:
		assert.Equal(t, 2, attempt)
	case <-time.After(time.Second):
		t.Fatal("job never succeeded")
	}
}

func TestQueueRecoversFromPanics(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	q := NewQueue("panic", func(context.Context, Job) error {
		panic("kaboom")
	}, QueueConfig{MaxRetries: 0, Logger: zap.New(core)})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "p"}))
	require.Eventually(t, func() bool {
		return logs.FilterMessage("job exceeded retries").Len() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestQueueEvery(t *testing.T) {
	var runs int32
	q := NewQueue("tick", func(context.Context, Job) error {
		atomic.AddInt32(&runs, 1)
		return nil
	}, QueueConfig{})

	require.Error(t, q.Every(time.Millisecond, func() Job { return Job{} }))
	q.Start(context.Background())
	require.Error(t, q.Every(0, func() Job { return Job{} }))
	require.NoError(t, q.Every(5*time.Millisecond, func() Job { return Job{Type: "cleanup"} }))

	require.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 2 }, time.Second, 5*time.Millisecond)
	q.Stop()
}
