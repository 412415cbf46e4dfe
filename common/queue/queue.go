package queue

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Push after the queue has been closed.
var ErrClosed = errors.New("queue is closed")

// Queue is an unbounded multi-producer/multi-consumer FIFO with an
// explicit close signal. Items pushed before Close are still delivered;
// Pop distinguishes "closed and drained" from "momentarily empty".
//
// Native channels cannot express this directly: they are bounded, and an
// unbuffered channel would make Push block on a busy pool. The queue is
// therefore built on a mutex and condition variable over a slice.
type Queue[T any] struct {
	mu     sync.Mutex
	notify *sync.Cond
	items  []T
	closed bool
}

// New creates an empty open queue.
func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.notify = sync.NewCond(&q.mu)
	return q
}

// Push enqueues v and wakes one waiting consumer.
// It returns ErrClosed if the queue has been closed.
func (q *Queue[T]) Push(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}

	q.items = append(q.items, v)
	q.notify.Signal()
	return nil
}

// Pop blocks until an item is available or the queue is closed with no
// pending items. The second return value is false only on the latter,
// which is the normal termination signal for consumers.
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.notify.Wait()
	}

	if len(q.items) == 0 {
		var zero T
		return zero, false
	}

	v := q.items[0]
	q.items = q.items[1:]
	return v, true
}

// Close marks the queue closed and wakes every waiting consumer so they
// can observe the drain. Already-enqueued items are not discarded.
// Close is idempotent.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.notify.Broadcast()
}

// Len reports the number of items currently waiting for a consumer.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Closed reports whether Close has been called.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
