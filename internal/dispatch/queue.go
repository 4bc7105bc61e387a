// Package dispatch serializes work onto a single owner goroutine.
//
// Components that are not safe for concurrent use (the playback adapter,
// engine callbacks) receive a post function instead of a lock. Everything
// posted runs, in order, on whichever goroutine drains the queue.
package dispatch

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when work is posted to a closed queue.
var ErrClosed = errors.New("dispatch queue closed")

// Queue is an unbounded FIFO of functions. Post never blocks, so it is safe
// to call from the goroutine that runs the queue.
type Queue struct {
	mu     sync.Mutex
	tasks  []func()
	closed bool
	wake   chan struct{}
	done   chan struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Post appends fn to the queue. It returns false when the queue is closed.
func (q *Queue) Post(fn func()) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

// Run executes posted functions until ctx is done or Close is called.
// Functions still pending at Close are dropped.
func (q *Queue) Run(ctx context.Context) error {
	for {
		for _, fn := range q.take() {
			if q.isClosed() {
				return nil
			}
			fn()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.done:
			return nil
		case <-q.wake:
		}
	}
}

// Close stops Run and rejects further posts. It is safe to call more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.tasks = nil
	close(q.done)
}

// Len returns the number of pending functions.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

func (q *Queue) take() []func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	tasks := q.tasks
	q.tasks = nil
	return tasks
}

func (q *Queue) isClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Invoke posts fn through post and waits until it has run. It must not be
// called from the goroutine that drains post, which would deadlock.
func Invoke(ctx context.Context, post func(func()) bool, fn func()) error {
	ran := make(chan struct{})
	if !post(func() {
		defer close(ran)
		fn()
	}) {
		return ErrClosed
	}
	select {
	case <-ran:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
