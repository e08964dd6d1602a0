package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorker_EnqueueAsyncDoesNotBlockCaller(t *testing.T) {
	w := NewWorker(1)
	defer w.Shutdown()

	release := make(chan struct{})
	done := make(chan struct{})
	start := time.Now()
	w.EnqueueAsync(func(ctx context.Context) error {
		<-release
		close(done)
		return nil
	})
	assert.Less(t, time.Since(start), 50*time.Millisecond)

	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("async job did not run")
	}
}

func TestWorker_CountsFailuresAndPanics(t *testing.T) {
	w := NewWorker(2)

	w.EnqueueAsync(func(ctx context.Context) error { return errors.New("boom") })
	w.EnqueueAsync(func(ctx context.Context) error { panic("kaboom") })
	w.EnqueueAsync(func(ctx context.Context) error { return nil })
	w.Shutdown()

	stats := w.GetStats()
	assert.Equal(t, int64(3), stats.CompletedJobs)
	assert.Equal(t, int64(2), stats.FailedJobs)
	assert.Equal(t, 0, stats.ActiveJobs)
}

func TestWorker_EnqueueRunsOnPool(t *testing.T) {
	w := NewWorker(2)

	var ran atomic.Int32
	done := make(chan struct{}, 5)
	for i := 0; i < 5; i++ {
		w.Enqueue(func(ctx context.Context) error {
			ran.Add(1)
			done <- struct{}{}
			return nil
		})
	}
	for i := 0; i < 5; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("queued job did not run")
		}
	}
	w.Shutdown()
	assert.Equal(t, int32(5), ran.Load())
}

func TestWorker_ScheduleEveryImmediateRunsAtStart(t *testing.T) {
	w := NewWorker(1)

	ran := make(chan struct{}, 1)
	w.ScheduleEveryImmediate(time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("immediate job did not run")
	}
	w.Shutdown()
}

func TestWorker_ScheduleCron(t *testing.T) {
	w := NewWorker(1)
	defer w.Shutdown()

	require.NoError(t, w.ScheduleCron("0 3 * * *", func(ctx context.Context) error { return nil }))
	assert.Equal(t, 1, w.GetStats().ScheduledCrons)

	err := w.ScheduleCron("not a cron", func(ctx context.Context) error { return nil })
	assert.ErrorContains(t, err, "invalid cron spec")
}

func TestWorker_ShutdownIsIdempotent(t *testing.T) {
	w := NewWorker(1)
	w.Shutdown()
	assert.NotPanics(t, w.Shutdown)
	assert.Error(t, w.Context().Err())
}
