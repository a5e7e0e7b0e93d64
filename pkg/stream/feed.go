package stream

import (
	"context"

	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/broadcast"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/notifications"
)

// Feed is where a session registers to receive notifications. In every relay
// mode the production feed is the process-local bus; the Redis relay forwards
// into that bus.
type Feed interface {
	Subscribe(ctx context.Context, userID string, sub broadcast.Subscriber[notifications.Notification]) (func(), error)
}

// BusFeed adapts the in-process bus to Feed.
type BusFeed struct {
	bus broadcast.Broadcaster[notifications.Notification]
}

// NewBusFeed wraps bus.
func NewBusFeed(bus broadcast.Broadcaster[notifications.Notification]) *BusFeed {
	return &BusFeed{bus: bus}
}

// Subscribe registers sub on the bus. userID is unused; sub filters for itself.
func (f *BusFeed) Subscribe(_ context.Context, _ string, sub broadcast.Subscriber[notifications.Notification]) (func(), error) {
	return f.bus.Subscribe(sub)
}
