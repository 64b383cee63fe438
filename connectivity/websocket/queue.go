package websocket

import (
	"context"
	"sync"

	"github.com/eapache/queue"
)

// frameQueue is an unbounded FIFO of frames safe for many producers and consumers.
// ready holds at most one wake up token, closed is closed exactly once.
type frameQueue struct {
	mu       sync.Mutex
	items    *queue.Queue
	isClosed bool
	ready    chan struct{}
	closed   chan struct{}
}

func newFrameQueue() *frameQueue {
	return &frameQueue{
		items:  queue.New(),
		ready:  make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

// push appends a frame without blocking
func (q *frameQueue) push(f Frame) error {
	q.mu.Lock()
	if q.isClosed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.items.Add(f)
	q.mu.Unlock()
	q.notify()
	return nil
}

func (q *frameQueue) notify() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// tryPop removes the head of the queue if there is one
func (q *frameQueue) tryPop() (Frame, bool) {
	q.mu.Lock()
	if q.items.Length() == 0 {
		q.mu.Unlock()
		return Frame{}, false
	}
	f := q.items.Remove().(Frame)
	remaining := q.items.Length() > 0
	q.mu.Unlock()
	if remaining {
		// hand the token on so another waiter picks up the rest
		q.notify()
	}
	return f, true
}

// pop blocks until a frame is available. Frames still queued when the queue
// is closed are delivered before ErrEndOfStream.
func (q *frameQueue) pop(ctx context.Context) (Frame, error) {
	for {
		if f, ok := q.tryPop(); ok {
			return f, nil
		}
		q.mu.Lock()
		drained := q.isClosed && q.items.Length() == 0
		q.mu.Unlock()
		if drained {
			return Frame{}, ErrEndOfStream
		}

		select {
		case <-q.ready:
		case <-q.closed:
		case <-ctx.Done():
			return Frame{}, ctx.Err()
		}
	}
}

// close stops further pushes and returns how many frames were still queued
func (q *frameQueue) close() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.isClosed {
		return 0
	}
	q.isClosed = true
	close(q.closed)
	return q.items.Length()
}

func (q *frameQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Length()
}
