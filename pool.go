package shred

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Pool bounds the number of workers running at the same
// time. Each worker holds a slot from the moment it is
// dispatched until it returns, whatever the outcome.
type Pool struct {
	sem      *semaphore.Weighted
	capacity int
}

// NewPool creates a pool of the specified capacity.
func NewPool(capacity int) *Pool {
	return &Pool{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: capacity,
	}
}

// Capacity returns the maximum number of workers.
func (p *Pool) Capacity() int {
	return p.capacity
}

// Go acquires a slot, blocking while the pool is full, and
// runs fn on a new goroutine. The slot is released when fn
// returns. An error is returned only when ctx is done
// before a slot is available, in which case fn never runs.
func (p *Pool) Go(
	ctx context.Context, name string, fn func() error,
) (*Handle, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	h := &Handle{
		name: name,
		done: make(chan struct{}),
	}
	go func() {
		defer close(h.done)
		defer p.sem.Release(1)
		h.err = fn()
	}()
	return h, nil
}

// Handle refers to a dispatched worker.
type Handle struct {
	name string
	done chan struct{}
	err  error
}

// Name returns the path the worker operates on.
func (h *Handle) Name() string {
	return h.name
}

// Wait blocks until the worker has returned, and returns
// the error it has returned.
func (h *Handle) Wait() error {
	<-h.done
	return h.err
}
