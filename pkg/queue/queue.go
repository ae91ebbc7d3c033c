package queue

import "context"

// Queue represents a basic FIFO queue shared between producers and a single consumer.
type Queue[T any] interface {
	// Enqueue adds item without blocking and fails when the queue is full.
	Enqueue(item T) error
	// EnqueueWait blocks until there is room for item or ctx is done.
	EnqueueWait(ctx context.Context, item T) error
	ReadAll() []T
	Clear()
}
