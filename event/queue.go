// SPDX-License-Identifier: EPL-2.0

package event

import (
	"context"
	"errors"
	"sync"
)

// DefaultCapacity of a Queue.
const DefaultCapacity = 256

var ErrClosed = errors.New("event queue closed")

// Sender posts events without blocking. It reports whether the event was
// accepted.
type Sender interface {
	Send(ev Event) bool
}

// Queue delivers events from any number of goroutines to a single
// receiver in the order each sender posted them. Once capacity events are
// pending, droppable events are discarded, every other event is still
// queued.
type Queue struct {
	mu       sync.Mutex
	pending  []Event
	capacity int
	closed   bool
	dropped  int
	wake     chan struct{}
}

var _ Sender = (*Queue)(nil)

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Queue{
		capacity: capacity,
		pending:  make([]Event, 0, capacity),
		wake:     make(chan struct{}, 1),
	}
}

func (q *Queue) Send(ev Event) bool {
	q.mu.Lock()
	if q.closed || (ev.ID.Droppable() && len(q.pending) >= q.capacity) {
		if !q.closed {
			q.dropped++
		}
		q.mu.Unlock()
		return false
	}
	q.pending = append(q.pending, ev)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}

	return true
}

// Drain returns every pending event without blocking.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return nil
	}

	batch := q.pending
	q.pending = make([]Event, 0, q.capacity)

	return batch
}

// Wait blocks until at least one event is pending and returns all of them.
// It fails with ErrClosed once the queue is closed and empty, or with the
// context error.
func (q *Queue) Wait(ctx context.Context) ([]Event, error) {
	for {
		if batch := q.Drain(); batch != nil {
			return batch, nil
		}

		q.mu.Lock()
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return nil, ErrClosed
		}

		select {
		case <-q.wake:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Len is the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.pending)
}

// Dropped counts the droppable events discarded so far.
func (q *Queue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.dropped
}

// Close rejects further events and wakes the receiver. Pending events can
// still be drained.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Func adapts a function to Sender.
type Func func(ev Event) bool

func (f Func) Send(ev Event) bool { return f(ev) }
