package broadcast_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/broadcast"
)

type funcSubscriber struct {
	match func(int) bool
	send  func(int) bool
}

func (f funcSubscriber) Match(msg int) bool { return f.match(msg) }
func (f funcSubscriber) Send(msg int) bool  { return f.send(msg) }

func even(n int) bool { return n%2 == 0 }

func TestMemoryBroadcaster_Subscribe(t *testing.T) {
	t.Run("registers and removes", func(t *testing.T) {
		b := broadcast.NewMemoryBroadcaster[int]()
		defer b.Close()

		unsub, err := b.Subscribe(broadcast.NewChanSubscriber[int](1, nil))
		require.NoError(t, err)
		assert.Equal(t, 1, b.Len())

		unsub()
		assert.Equal(t, 0, b.Len())
	})

	t.Run("unsubscribe is idempotent", func(t *testing.T) {
		b := broadcast.NewMemoryBroadcaster[int]()
		defer b.Close()

		unsubA, err := b.Subscribe(broadcast.NewChanSubscriber[int](1, nil))
		require.NoError(t, err)
		_, err = b.Subscribe(broadcast.NewChanSubscriber[int](1, nil))
		require.NoError(t, err)

		unsubA()
		unsubA()
		assert.Equal(t, 1, b.Len(), "second call must not remove another subscriber")
	})

	t.Run("nil subscriber", func(t *testing.T) {
		b := broadcast.NewMemoryBroadcaster[int]()
		_, err := b.Subscribe(nil)
		assert.ErrorIs(t, err, broadcast.ErrNilSubscriber)
	})

	t.Run("after close", func(t *testing.T) {
		b := broadcast.NewMemoryBroadcaster[int]()
		require.NoError(t, b.Close())

		_, err := b.Subscribe(broadcast.NewChanSubscriber[int](1, nil))
		assert.ErrorIs(t, err, broadcast.ErrClosed)
	})
}

func TestMemoryBroadcaster_Broadcast(t *testing.T) {
	t.Run("only matching subscribers receive", func(t *testing.T) {
		b := broadcast.NewMemoryBroadcaster[int]()
		defer b.Close()

		evens := broadcast.NewChanSubscriber(4, even)
		all := broadcast.NewChanSubscriber[int](4, nil)
		_, err := b.Subscribe(evens)
		require.NoError(t, err)
		_, err = b.Subscribe(all)
		require.NoError(t, err)

		n, err := b.Broadcast(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		n, err = b.Broadcast(context.Background(), 4)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		assert.Equal(t, 4, <-evens.Receive())
		assert.Equal(t, 3, <-all.Receive())
		assert.Equal(t, 4, <-all.Receive())
		assert.Empty(t, evens.Receive())
	})

	t.Run("full queue drops but keeps subscriber", func(t *testing.T) {
		b := broadcast.NewMemoryBroadcaster[int]()
		defer b.Close()

		slow := broadcast.NewChanSubscriber[int](1, nil)
		_, err := b.Subscribe(slow)
		require.NoError(t, err)

		n, _ := b.Broadcast(context.Background(), 1)
		assert.Equal(t, 1, n)
		n, _ = b.Broadcast(context.Background(), 2)
		assert.Equal(t, 0, n)

		assert.Equal(t, 1, b.Len())
		assert.Equal(t, 1, <-slow.Receive())
	})

	t.Run("send never runs under the registry lock", func(t *testing.T) {
		b := broadcast.NewMemoryBroadcaster[int]()
		defer b.Close()

		var unsub func()
		var calls atomic.Int32
		sub := funcSubscriber{
			match: func(int) bool { return true },
			send: func(int) bool {
				calls.Add(1)
				unsub()
				return true
			},
		}
		var err error
		unsub, err = b.Subscribe(sub)
		require.NoError(t, err)

		done := make(chan struct{})
		go func() {
			_, _ = b.Broadcast(context.Background(), 1)
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			require.Fail(t, "broadcast deadlocked on unsubscribe from Send")
		}
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, 0, b.Len())
	})

	t.Run("cancelled context", func(t *testing.T) {
		b := broadcast.NewMemoryBroadcaster[int]()
		defer b.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := b.Broadcast(ctx, 1)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("after close", func(t *testing.T) {
		b := broadcast.NewMemoryBroadcaster[int]()
		require.NoError(t, b.Close())
		_, err := b.Broadcast(context.Background(), 1)
		assert.ErrorIs(t, err, broadcast.ErrClosed)
	})
}

func TestMemoryBroadcaster_Close(t *testing.T) {
	b := broadcast.NewMemoryBroadcaster[int]()

	sub := broadcast.NewChanSubscriber[int](1, nil)
	_, err := b.Subscribe(sub)
	require.NoError(t, err)

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
	assert.Equal(t, 0, b.Len())

	_, ok := <-sub.Receive()
	assert.False(t, ok, "closer subscribers are closed")
}

func TestMemoryBroadcaster_ConcurrentChurn(t *testing.T) {
	b := broadcast.NewMemoryBroadcaster[int]()
	defer b.Close()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 50 {
				sub := broadcast.NewChanSubscriber(2, even)
				unsub, err := b.Subscribe(sub)
				if err != nil {
					return
				}
				unsub()
				_ = sub.Close()
			}
		}()
		go func() {
			defer wg.Done()
			for i := range 50 {
				_, _ = b.Broadcast(context.Background(), i)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, b.Len(), "every subscription was released")
}

func TestChanSubscriber(t *testing.T) {
	sub := broadcast.NewChanSubscriber[int](0, nil)
	assert.True(t, sub.Match(7), "nil match accepts everything")
	assert.True(t, sub.Send(1), "buffer is at least one")
	assert.False(t, sub.Send(2))

	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())
	assert.False(t, sub.Send(3), "send after close is dropped")
}
