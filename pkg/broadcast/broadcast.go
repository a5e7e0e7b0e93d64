package broadcast

import "context"

// Subscriber is a live consumer registered with a Broadcaster.
//
// Match decides whether a message is meant for this subscriber; Send hands it
// over and must not block. Send returns false when the message was dropped,
// e.g. because the subscriber's outbound queue is full or already closed.
type Subscriber[T any] interface {
	Match(msg T) bool
	Send(msg T) bool
}

// Broadcaster fans messages out to the subscribers that match them.
type Broadcaster[T any] interface {
	// Subscribe registers sub and returns a function that removes it again.
	// The returned function is idempotent.
	Subscribe(sub Subscriber[T]) (unsubscribe func(), err error)

	// Broadcast offers msg to every matching subscriber and reports how many
	// accepted it. A subscriber that drops the message stays registered.
	Broadcast(ctx context.Context, msg T) (int, error)

	// Close removes all subscribers. Subscribers implementing io.Closer are closed.
	Close() error
}
