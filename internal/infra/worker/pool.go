package worker

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"projectnest/internal/infra/metrics"
)

// Task is a unit of background work; kind labels it in logs and metrics.
type Task func(ctx context.Context) error

var (
	ErrNilTask   = errors.New("nil task")
	ErrQueueFull = errors.New("worker queue full")
	ErrStopped   = errors.New("worker pool stopped")
)

// Submitter is what use cases depend on to run fire-and-forget work.
type Submitter interface {
	Submit(kind string, task Task) error
}

var _ Submitter = (*Pool)(nil)

type job struct {
	kind string
	run  Task
}

type Pool struct {
	wg     sync.WaitGroup
	jobs   chan job
	quit   chan struct{}
	n      int
	log    *zerolog.Logger
	mu     sync.RWMutex
	closed bool
}

func NewPool(workers int, log *zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{jobs: make(chan job, workers*4), quit: make(chan struct{}), n: workers, log: log}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.n; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-p.quit:
					p.drain(ctx, id)
					return
				case j := <-p.jobs:
					p.run(ctx, id, j)
				}
			}
		}(i)
	}
}

// drain runs whatever is still queued once Stop was requested.
func (p *Pool) drain(ctx context.Context, id int) {
	for {
		select {
		case j := <-p.jobs:
			p.run(ctx, id, j)
		default:
			return
		}
	}
}

func (p *Pool) run(ctx context.Context, id int, j job) {
	defer func() {
		if r := recover(); r != nil {
			metrics.IncWorkerTask(j.kind, "failed")
			p.log.Error().Int("worker", id).Str("kind", j.kind).Interface("panic", r).Msg("worker task panicked")
		}
	}()
	if err := j.run(ctx); err != nil {
		metrics.IncWorkerTask(j.kind, "failed")
		p.log.Warn().Err(err).Int("worker", id).Str("kind", j.kind).Msg("worker task error")
		return
	}
	metrics.IncWorkerTask(j.kind, "ok")
}

func (p *Pool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.quit)
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pool) Submit(kind string, task Task) error {
	if task == nil {
		return ErrNilTask
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrStopped
	}
	select {
	case p.jobs <- job{kind: kind, run: task}:
		return nil
	default:
		// drop when saturated; callers treat these tasks as best-effort
		metrics.IncWorkerTask(kind, "dropped")
		return ErrQueueFull
	}
}
