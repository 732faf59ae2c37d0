package worker

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviehub/internal/pkg/logx"
	"moviehub/internal/pkg/metrics"
)

func init() {
	logx.SetOutput(io.Discard, zerolog.Disabled)
}

func TestPool_RunsSubmittedJobs(t *testing.T) {
	p := NewPool("test-run", 2, 10)

	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(func(ctx context.Context) {
			defer wg.Done()
			ran.Add(1)
		}))
	}

	wg.Wait()
	assert.Equal(t, int32(5), ran.Load())
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestPool_QueueFull(t *testing.T) {
	p := NewPool("test-full", 1, 1)

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, p.Submit(func(ctx context.Context) {
		close(started)
		<-release
	}))
	<-started

	// One slot in the queue, then it is full.
	require.NoError(t, p.Submit(func(ctx context.Context) {}))
	before := testutil.ToFloat64(metrics.DispatchRejected.WithLabelValues("test-full", "full"))
	assert.ErrorIs(t, p.Submit(func(ctx context.Context) {}), ErrQueueFull)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.DispatchRejected.WithLabelValues("test-full", "full")))

	close(release)
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestPool_ShutdownDrainsQueue(t *testing.T) {
	p := NewPool("test-drain", 1, 10)

	var ran atomic.Int32
	for i := 0; i < 10; i++ {
		require.NoError(t, p.Submit(func(ctx context.Context) {
			time.Sleep(time.Millisecond)
			ran.Add(1)
		}))
	}

	require.NoError(t, p.Shutdown(context.Background()))
	assert.Equal(t, int32(10), ran.Load())
	assert.ErrorIs(t, p.Submit(func(ctx context.Context) {}), ErrStopped)

	// Second shutdown is harmless.
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestPool_ShutdownDeadlineCancelsJobs(t *testing.T) {
	p := NewPool("test-deadline", 1, 1)

	cancelled := make(chan struct{})
	require.NoError(t, p.Submit(func(ctx context.Context) {
		<-ctx.Done()
		close(cancelled)
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, p.Shutdown(ctx), context.DeadlineExceeded)

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("job context was not cancelled")
	}
}

func TestPool_PanickingJobDoesNotKillWorker(t *testing.T) {
	p := NewPool("test-panic", 1, 4)

	require.NoError(t, p.Submit(func(ctx context.Context) { panic("boom") }))

	done := make(chan struct{})
	require.NoError(t, p.Submit(func(ctx context.Context) { close(done) }))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not survive panic")
	}
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestPool_SubmitKeyedPreservesOrder(t *testing.T) {
	p := NewPool("test-keyed", 8, 256)

	var mu sync.Mutex
	got := map[string][]int{}
	var wg sync.WaitGroup

	for i := 0; i < 40; i++ {
		i := i
		for _, key := range []string{"alice", "bob", "carol"} {
			key := key
			wg.Add(1)
			require.NoError(t, p.SubmitKeyed(key, func(ctx context.Context) {
				defer wg.Done()
				if i%7 == 0 {
					time.Sleep(time.Millisecond)
				}
				mu.Lock()
				got[key] = append(got[key], i)
				mu.Unlock()
			}))
		}
	}

	wg.Wait()
	require.NoError(t, p.Shutdown(context.Background()))

	for _, key := range []string{"alice", "bob", "carol"} {
		require.Len(t, got[key], 40, key)
		for i, v := range got[key] {
			assert.Equal(t, i, v, key)
		}
	}
}

func TestPool_SubmitKeyedFullLane(t *testing.T) {
	p := NewPool("test-keyed-full", 1, 1)

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, p.SubmitKeyed("a", func(ctx context.Context) {
		close(started)
		<-release
	}))
	<-started

	require.NoError(t, p.SubmitKeyed("a", func(ctx context.Context) {}))
	assert.ErrorIs(t, p.SubmitKeyed("a", func(ctx context.Context) {}), ErrQueueFull)

	close(release)
	require.NoError(t, p.Shutdown(context.Background()))
	assert.ErrorIs(t, p.SubmitKeyed("a", func(ctx context.Context) {}), ErrStopped)
}

func TestPool_SubmitKeyedWait(t *testing.T) {
	p := NewPool("test-keyed-wait", 1, 1)

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, p.SubmitKeyed("a", func(ctx context.Context) {
		close(started)
		<-release
	}))
	<-started
	require.NoError(t, p.SubmitKeyed("a", func(ctx context.Context) {}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.SubmitKeyedWait(ctx, "a", func(ctx context.Context) {}), context.DeadlineExceeded)

	ran := make(chan struct{})
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(release)
	}()
	require.NoError(t, p.SubmitKeyedWait(context.Background(), "a", func(ctx context.Context) { close(ran) }))

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("waited job did not run")
	}
	require.NoError(t, p.Shutdown(context.Background()))
	assert.ErrorIs(t, p.SubmitKeyedWait(context.Background(), "a", func(ctx context.Context) {}), ErrStopped)
}
