// Package events is the single inbox of the application loop. Background
// work never touches application state directly; it posts events here.
package events

import "context"

// Event is anything the loop knows how to handle.
type Event interface{}

// Queue is a FIFO of events consumed by one loop goroutine.
type Queue struct {
	ch   chan Event
	done chan struct{}
}

// NewQueue creates a queue with the given buffer size.
func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{
		ch:   make(chan Event, size),
		done: make(chan struct{}),
	}
}

// C is the receive side read by the loop.
func (q *Queue) C() <-chan Event {
	return q.ch
}

// Emit enqueues ev, blocking while the buffer is full. It gives up when ctx
// is cancelled or the queue is closed and reports whether ev was queued.
// Events emitted from one goroutine keep their order.
func (q *Queue) Emit(ctx context.Context, ev Event) bool {
	select {
	case <-ctx.Done():
		return false
	case <-q.done:
		return false
	default:
	}

	select {
	case q.ch <- ev:
		return true
	case <-ctx.Done():
		return false
	case <-q.done:
		return false
	}
}

// Post enqueues ev without ever blocking the caller, which makes it safe to
// call from the loop goroutine itself. When the buffer is full the send is
// handed to a goroutine, so posted events may overtake each other.
func (q *Queue) Post(ev Event) {
	select {
	case <-q.done:
		return
	default:
	}

	select {
	case q.ch <- ev:
	default:
		go func() {
			select {
			case q.ch <- ev:
			case <-q.done:
			}
		}()
	}
}

// Close stops accepting events. Pending senders are released.
func (q *Queue) Close() {
	select {
	case <-q.done:
	default:
		close(q.done)
	}
}
