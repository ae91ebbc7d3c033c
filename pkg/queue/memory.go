// queue package

package queue

import (
	"context"
	"sync"
)

const (
	// DefaultBufferSize is the capacity used when a non-positive size is requested.
	DefaultBufferSize = 1024
)

// ErrQueueFull is returned when an item is enqueued on a full queue.
type ErrQueueFull struct {
	Capacity int
}

func (e *ErrQueueFull) Error() string {
	return "queue is full"
}

func IsQueueFull(err error) bool {
	_, ok := err.(*ErrQueueFull)
	return ok
}

// InMemoryQueue implements an in-memory bounded queue.
type InMemoryQueue[T any] struct {
	ch   chan T
	lock sync.RWMutex
}

// NewInMemoryQueue creates a new queue holding at most size items.
func NewInMemoryQueue[T any](size int) *InMemoryQueue[T] {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &InMemoryQueue[T]{
		ch: make(chan T, size),
	}
}

// Enqueue adds an item to the end of the queue without blocking.
func (q *InMemoryQueue[T]) Enqueue(item T) error {
	q.lock.Lock()
	defer q.lock.Unlock()
	select {
	case q.ch <- item:
		return nil
	default:
		return &ErrQueueFull{Capacity: cap(q.ch)}
	}
}

// EnqueueWait adds an item to the end of the queue, blocking while it is full.
// The send happens outside the lock so a concurrent ReadAll can make room.
func (q *InMemoryQueue[T]) EnqueueWait(ctx context.Context, item T) error {
	select {
	case q.ch <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReadAll drains every pending item in arrival order.
func (q *InMemoryQueue[T]) ReadAll() []T {
	q.lock.Lock()
	defer q.lock.Unlock()

	var items []T
	for len(q.ch) > 0 {
		items = append(items, <-q.ch)
	}

	return items
}

// Clear discards all pending items.
func (q *InMemoryQueue[T]) Clear() {
	q.lock.Lock()
	defer q.lock.Unlock()

	for len(q.ch) > 0 {
		<-q.ch
	}
}
