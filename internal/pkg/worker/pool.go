/*
Package worker provides a bounded pool for background jobs.

Each worker owns a lane (a bounded FIFO queue). Jobs submitted with the same key
always land on the same lane, so they run one after another in submission order;
unkeyed jobs take any lane with a free slot. Submit never blocks the caller: a full
lane is reported as ErrQueueFull so that backpressure is visible to whoever produced
the work. Shutdown stops intake, drains what is already queued and waits for the workers.
*/
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"

	"moviehub/internal/pkg/logx"
	"moviehub/internal/pkg/metrics"
)

var (
	// ErrQueueFull is returned by Submit when the queue has no free slot.
	ErrQueueFull = errors.New("worker: queue full")

	// ErrStopped is returned by Submit after Shutdown has been called.
	ErrStopped = errors.New("worker: pool stopped")
)

// Job is a unit of background work. The context is cancelled when the pool
// is shut down with an expired deadline.
type Job func(ctx context.Context)

// Pool runs jobs on a fixed number of goroutines, one bounded lane per goroutine.
type Pool struct {
	name  string
	lanes []chan Job
	next  atomic.Uint64
	wg    sync.WaitGroup
	ctx   context.Context
	abort context.CancelFunc

	// mu guards stopped and the close of the lanes against concurrent submits.
	mu      sync.RWMutex
	stopped bool

	logger zerolog.Logger
}

// NewPool starts workers goroutines. queueSize slots are split evenly across
// their lanes, rounded up.
func NewPool(name string, workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	laneSize := (queueSize + workers - 1) / workers

	ctx, abort := context.WithCancel(context.Background())

	p := &Pool{
		name:   name,
		lanes:  make([]chan Job, workers),
		ctx:    ctx,
		abort:  abort,
		logger: logx.Component("worker").With().Str("pool", name).Logger(),
	}

	p.wg.Add(workers)
	for i := range p.lanes {
		p.lanes[i] = make(chan Job, laneSize)
		go p.run(p.lanes[i])
	}

	p.logger.Info().Int("workers", workers).Int("lane_size", laneSize).Msg("Worker pool started.")
	return p
}

func (p *Pool) run(lane chan Job) {
	defer p.wg.Done()

	for job := range lane {
		p.reportDepth()
		p.execute(job)
	}
}

// execute runs one job, converting a panic into a log line so one bad job
// cannot take a worker down.
func (p *Pool) execute(job Job) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Err(fmt.Errorf("panic: %v", r)).Msg("Background job panicked.")
		}
	}()

	job(p.ctx)
}

func (p *Pool) reportDepth() {
	depth := 0
	for _, lane := range p.lanes {
		depth += len(lane)
	}
	metrics.DispatchQueueDepth.WithLabelValues(p.name).Set(float64(depth))
}

func (p *Pool) laneFor(key string) chan Job {
	return p.lanes[xxhash.Sum64String(key)%uint64(len(p.lanes))]
}

func (p *Pool) reject(reason string, err error) error {
	metrics.DispatchRejected.WithLabelValues(p.name, reason).Inc()
	return err
}

// Submit queues job on the first lane with a free slot, without blocking.
// Jobs submitted this way carry no ordering guarantee.
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return p.reject("stopped", ErrStopped)
	}

	start := p.next.Add(1)
	for i := range p.lanes {
		lane := p.lanes[(start+uint64(i))%uint64(len(p.lanes))]
		select {
		case lane <- job:
			p.reportDepth()
			return nil
		default:
		}
	}
	return p.reject("full", ErrQueueFull)
}

// SubmitKeyed queues job on the lane owned by key, without blocking. Jobs
// sharing a key run in the order they were submitted.
func (p *Pool) SubmitKeyed(key string, job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return p.reject("stopped", ErrStopped)
	}

	select {
	case p.laneFor(key) <- job:
		p.reportDepth()
		return nil
	default:
		return p.reject("full", ErrQueueFull)
	}
}

// SubmitKeyedWait is SubmitKeyed that waits for a free slot on the key's lane
// until ctx is done.
func (p *Pool) SubmitKeyedWait(ctx context.Context, key string, job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return p.reject("stopped", ErrStopped)
	}

	select {
	case p.laneFor(key) <- job:
		p.reportDepth()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting jobs and waits until queued jobs have run. If ctx
// expires first, running jobs see their context cancelled and ctx.Err() is returned.
// Calling Shutdown more than once is safe.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.stopped {
		p.stopped = true
		for _, lane := range p.lanes {
			close(lane)
		}
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.abort()
		p.logger.Info().Msg("Worker pool drained.")
		return nil
	case <-ctx.Done():
		p.abort()
		p.logger.Warn().Msg("Worker pool shutdown deadline reached, abandoning queued jobs.")
		return ctx.Err()
	}
}
