// Package worker runs background jobs for the streaming loop.
package worker

import (
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Pool runs jobs on a fixed set of goroutines, taking them from an
// unbounded FIFO queue. Submit never blocks, so jobs may submit follow-up
// jobs without risk of starving the pool.
type Pool struct {
	log *slog.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool

	inflight sync.WaitGroup
	group    errgroup.Group
}

// NewPool starts a pool with the given number of workers. Zero or less
// uses one worker per CPU.
func NewPool(workers int, log *slog.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{log: log}
	p.cond = sync.NewCond(&p.mu)
	for range workers {
		p.group.Go(p.run)
	}
	log.Debug("worker pool started", "workers", workers)
	return p
}

// Submit queues a job. Jobs submitted after Close are dropped.
func (p *Pool) Submit(job func()) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.log.Warn("job submitted to closed pool")
		return
	}
	p.inflight.Add(1)
	p.queue = append(p.queue, job)
	p.mu.Unlock()
	p.cond.Signal()
}

// Queued returns the number of jobs waiting for a worker.
func (p *Pool) Queued() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Wait blocks until every submitted job, including jobs submitted by other
// jobs, has finished.
func (p *Pool) Wait() {
	p.inflight.Wait()
}

// Close finishes queued jobs and stops the workers.
func (p *Pool) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cond.Broadcast()
	return p.group.Wait()
}

func (p *Pool) run() error {
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return nil
		}
		job := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.mu.Unlock()

		job()
		p.inflight.Done()
	}
}
