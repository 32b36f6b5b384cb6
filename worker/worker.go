// Package worker runs independent jobs, such as scenario simulations, on a fixed set of
// goroutines.
package worker

import (
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/atomic"
)

// ErrClosed is returned when submitting to a closed Pool.
var ErrClosed = errors.New("worker pool is closed")

type job struct {
	name string
	f    func()
}

// Pool runs submitted jobs on a fixed amount of workers. A job that panics is reported to
// sentry, tagged with its name, and does not take its worker down.
type Pool struct {
	queue   chan job
	done    chan struct{}
	workers sync.WaitGroup
	jobs    sync.WaitGroup

	pending *atomic.Int64
	failed  *atomic.Int64
	log     *slog.Logger

	mu     deadlock.RWMutex
	closed bool
}

// New starts a pool of n workers. If n is not positive, one worker per CPU is started.
func New(n int, logger *slog.Logger) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pool{
		queue:   make(chan job, n),
		done:    make(chan struct{}),
		pending: atomic.NewInt64(0),
		failed:  atomic.NewInt64(0),
		log:     logger,
	}
	p.workers.Add(n)
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.workers.Done()
	for {
		select {
		case j := <-p.queue:
			p.run(j)
		case <-p.done:
			return
		}
	}
}

func (p *Pool) run(j job) {
	defer p.jobs.Done()
	defer p.pending.Dec()

	hub := sentry.CurrentHub().Clone()
	hub.Scope().SetTag("job", j.name)
	defer func() {
		if r := recover(); r != nil {
			p.failed.Inc()
			hub.Recover(r)
			p.log.Error("job panicked", "job", j.name, "panic", r)
		}
	}()
	j.f()
}

// Submit queues f to run on the pool. It blocks while the queue is full.
func (p *Pool) Submit(name string, f func()) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrClosed
	}
	p.jobs.Add(1)
	p.pending.Inc()
	p.mu.RUnlock()

	// The queue is never closed, and workers keep draining it until every accepted job ran.
	p.queue <- job{name: name, f: f}
	return nil
}

// Wait blocks until every job submitted so far finished.
func (p *Pool) Wait() {
	p.jobs.Wait()
}

// Pending returns the amount of jobs that were submitted but did not finish yet.
func (p *Pool) Pending() int64 { return p.pending.Load() }

// Failed returns the amount of jobs that panicked.
func (p *Pool) Failed() int64 { return p.failed.Load() }

// Close waits for the submitted jobs to finish and stops the workers. Submitting to a
// closed pool fails with ErrClosed.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.jobs.Wait()
	close(p.done)
	p.workers.Wait()
}
