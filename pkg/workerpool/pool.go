// Package workerpool provides a bounded goroutine pool. Workers start
// lazily on Submit, up to the configured size.
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// MaxWorkers bounds the size passed to New.
const MaxWorkers = 256

// Pool manages a fixed number of worker goroutines.
type Pool struct {
	workers int32
	tasks   chan func()
	running int32
	closed  int32
	wg      sync.WaitGroup
}

// New creates a pool of workers. A non-positive size means GOMAXPROCS and
// sizes above MaxWorkers are clamped.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, MaxWorkers)
	return &Pool{
		workers: int32(workers),
		tasks:   make(chan func(), workers*4),
	}
}

// Submit queues task. It blocks while the queue is full and returns false
// once the pool is closed.
func (p *Pool) Submit(task func()) bool {
	if atomic.LoadInt32(&p.closed) == 1 {
		return false
	}
	for {
		running := atomic.LoadInt32(&p.running)
		if running >= p.workers {
			break
		}
		if atomic.CompareAndSwapInt32(&p.running, running, running+1) {
			p.wg.Add(1)
			go p.worker()
			break
		}
	}
	p.tasks <- task
	return true
}

func (p *Pool) worker() {
	defer func() {
		if r := recover(); r != nil && atomic.LoadInt32(&p.closed) == 0 {
			// replace ourselves; running and wg stay as they are
			go p.worker()
			return
		}
		atomic.AddInt32(&p.running, -1)
		p.wg.Done()
	}()
	for task := range p.tasks {
		if task != nil {
			task()
		}
	}
}

// Cap returns the worker limit.
func (p *Pool) Cap() int { return int(p.workers) }

// Close waits for queued tasks to finish and stops the workers. Safe to
// call more than once.
func (p *Pool) Close() {
	if !atomic.CompareAndSwapInt32(&p.closed, 0, 1) {
		return
	}
	close(p.tasks)
	p.wg.Wait()
}

// Map applies fn to each item on p and returns results in input order.
func Map[T, R any](p *Pool, items []T, fn func(T) R) []R {
	results := make([]R, len(items))
	var wg sync.WaitGroup
	wg.Add(len(items))
	for i, item := range items {
		idx, val := i, item
		if !p.Submit(func() {
			defer wg.Done()
			results[idx] = fn(val)
		}) {
			wg.Done()
		}
	}
	wg.Wait()
	return results
}
