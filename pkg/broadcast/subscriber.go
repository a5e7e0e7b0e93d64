package broadcast

import "sync"

// ChanSubscriber is a Subscriber backed by a bounded channel. Messages that
// arrive while the buffer is full are dropped.
type ChanSubscriber[T any] struct {
	match  func(T) bool
	ch     chan T
	mu     sync.RWMutex
	closed bool
}

// NewChanSubscriber creates a subscriber with a buffer of at least one
// message. A nil match accepts everything.
func NewChanSubscriber[T any](bufferSize int, match func(T) bool) *ChanSubscriber[T] {
	return &ChanSubscriber[T]{
		match: match,
		ch:    make(chan T, max(bufferSize, 1)),
	}
}

func (s *ChanSubscriber[T]) Match(msg T) bool {
	if s.match == nil {
		return true
	}
	return s.match(msg)
}

func (s *ChanSubscriber[T]) Send(msg T) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}

// Receive returns the channel messages are delivered on. It is closed by Close.
func (s *ChanSubscriber[T]) Receive() <-chan T {
	return s.ch
}

// Close closes the receive channel. It is idempotent.
func (s *ChanSubscriber[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}
