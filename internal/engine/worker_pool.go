package engine

import (
	"context"
	"sync"
)

// task pairs an input with the channel its result is delivered on.
type task[T, R any] struct {
	in  T
	out chan R
}

// workerPool is a fixed-size goroutine pool with a bounded input queue.
// Each submitted input yields exactly one result on its own channel.
type workerPool[T, R any] struct {
	queue   chan task[T, R]
	process func(ctx context.Context, t T) R
	wg      sync.WaitGroup
	once    sync.Once
}

// newWorkerPool creates and starts a pool with n goroutines and queue capacity depth.
func newWorkerPool[T, R any](ctx context.Context, n, depth int, fn func(context.Context, T) R) *workerPool[T, R] {
	p := &workerPool[T, R]{
		queue:   make(chan task[T, R], depth),
		process: fn,
	}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.run(ctx)
		}()
	}
	return p
}

func (p *workerPool[T, R]) run(ctx context.Context) {
	for {
		select {
		case tk, ok := <-p.queue:
			if !ok {
				return
			}
			// out is buffered: a caller that gave up never blocks the worker.
			tk.out <- p.process(ctx, tk.in)
		case <-ctx.Done():
			return
		}
	}
}

// Submit enqueues t without blocking. It returns the channel the result
// arrives on, or false if the queue is full.
func (p *workerPool[T, R]) Submit(t T) (<-chan R, bool) {
	out := make(chan R, 1)
	select {
	case p.queue <- task[T, R]{in: t, out: out}:
		return out, true
	default:
		return nil, false
	}
}

// Drain closes the queue and waits for all workers to finish.
func (p *workerPool[T, R]) Drain() {
	p.once.Do(func() { close(p.queue) })
	p.wg.Wait()
}

// QueueLen returns how many jobs are currently queued.
func (p *workerPool[T, R]) QueueLen() int {
	return len(p.queue)
}

// QueueCap returns the total queue capacity.
func (p *workerPool[T, R]) QueueCap() int {
	return cap(p.queue)
}
