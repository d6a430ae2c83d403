package gui

import (
	"context"
	"sync"
)

// opQueue runs submitted operations one at a time in submission order, so the
// controller sees user actions in the order they were made.
type opQueue struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
}

func newOpQueue() *opQueue {
	return &opQueue{wake: make(chan struct{}, 1)}
}

// Push never blocks the caller.
func (q *opQueue) Push(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Run drains the queue until ctx is done. Operations still pending then are dropped.
func (q *opQueue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-q.wake:
		}
		for ctx.Err() == nil {
			fn, ok := q.pop()
			if !ok {
				break
			}
			fn()
		}
	}
}

func (q *opQueue) pop() (func(), bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil, false
	}
	fn := q.pending[0]
	q.pending[0] = nil
	q.pending = q.pending[1:]
	return fn, true
}
