package worker

import (
	"log/slog"
	"sync"

	"github.com/FindHome-mobile/FindHome-Backend/internal/metrics"
)

// Pool runs background side effects (favorites cascade) on a fixed set of
// goroutines. Stop drains queued tasks before returning.
type Pool struct {
	wg     sync.WaitGroup
	jobs   chan func()
	mu     sync.RWMutex
	closed bool
}

func NewPool(n int) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{jobs: make(chan func(), 1024)}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				metrics.WorkerQueueDepth.Dec()
				run(job)
			}
		}()
	}
	return p
}

func run(job func()) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("worker task panic", "err", rec)
		}
	}()
	job()
}

// Submit queues f. After Stop it runs f synchronously so no work is lost.
func (p *Pool) Submit(f func()) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		run(f)
		return
	}
	metrics.WorkerQueueDepth.Inc()
	p.jobs <- f
}

func (p *Pool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}
