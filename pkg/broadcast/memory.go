package broadcast

import (
	"context"
	"io"
	"sync"
)

// MemoryBroadcaster is an in-process Broadcaster.
//
// Broadcast takes a snapshot of the matching subscribers under a read lock and
// calls Send after releasing it, so a subscriber may unsubscribe from inside
// Send. All methods are safe for concurrent use.
type MemoryBroadcaster[T any] struct {
	mu          sync.RWMutex
	subscribers map[uint64]Subscriber[T]
	nextID      uint64
	closed      bool
}

// NewMemoryBroadcaster creates an empty broadcaster.
func NewMemoryBroadcaster[T any]() *MemoryBroadcaster[T] {
	return &MemoryBroadcaster[T]{
		subscribers: make(map[uint64]Subscriber[T]),
	}
}

// Subscribe registers sub. Calling the returned function more than once is a no-op.
func (b *MemoryBroadcaster[T]) Subscribe(sub Subscriber[T]) (func(), error) {
	if sub == nil {
		return nil, ErrNilSubscriber
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	b.nextID++
	id := b.nextID
	b.subscribers[id] = sub

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers, id)
			b.mu.Unlock()
		})
	}, nil
}

// Broadcast delivers msg to every subscriber whose Match returns true.
func (b *MemoryBroadcaster[T]) Broadcast(ctx context.Context, msg T) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return 0, ErrClosed
	}
	targets := make([]Subscriber[T], 0, len(b.subscribers))
	for _, sub := range b.subscribers {
		if sub.Match(msg) {
			targets = append(targets, sub)
		}
	}
	b.mu.RUnlock()

	delivered := 0
	for _, sub := range targets {
		if sub.Send(msg) {
			delivered++
		}
	}
	return delivered, nil
}

// Len reports the number of registered subscribers.
func (b *MemoryBroadcaster[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close removes every subscriber and rejects further use. It is idempotent.
func (b *MemoryBroadcaster[T]) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	subs := make([]Subscriber[T], 0, len(b.subscribers))
	for _, sub := range b.subscribers {
		subs = append(subs, sub)
	}
	clear(b.subscribers)
	b.mu.Unlock()

	for _, sub := range subs {
		if c, ok := sub.(io.Closer); ok {
			_ = c.Close()
		}
	}
	return nil
}
