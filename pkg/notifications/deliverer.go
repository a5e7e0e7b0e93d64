package notifications

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/broadcast"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/logger"
)

// Deliverer pushes a persisted notification to live recipients.
// Errors are reported to the Publisher, which logs and absorbs them.
type Deliverer interface {
	Deliver(ctx context.Context, n Notification) error
}

// BusDeliverer delivers through the in-process bus.
type BusDeliverer struct {
	bus    broadcast.Broadcaster[Notification]
	logger *slog.Logger
}

// BusDelivererOption configures a BusDeliverer.
type BusDelivererOption func(*BusDeliverer)

// WithBusLogger sets the logger for the BusDeliverer.
func WithBusLogger(l *slog.Logger) BusDelivererOption {
	return func(d *BusDeliverer) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewBusDeliverer creates a deliverer over bus.
func NewBusDeliverer(bus broadcast.Broadcaster[Notification], opts ...BusDelivererOption) *BusDeliverer {
	d := &BusDeliverer{bus: bus, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Deliver broadcasts n on the bus. Subscribers that do not match, or whose
// queue is full, are skipped; only a closed bus or a done ctx is an error.
func (d *BusDeliverer) Deliver(ctx context.Context, n Notification) error {
	delivered, err := d.bus.Broadcast(ctx, n)
	if err != nil {
		return fmt.Errorf("bus broadcast: %w", err)
	}
	d.logger.LogAttrs(ctx, slog.LevelDebug, "notification broadcast",
		logger.NotificationID(n.ID),
		logger.EventType(n.EventType),
		logger.Count(delivered),
	)
	return nil
}

// NoOpDeliverer drops every notification. Useful in tests and for batch jobs
// that only need persistence.
type NoOpDeliverer struct{}

// Deliver does nothing.
func (NoOpDeliverer) Deliver(context.Context, Notification) error { return nil }

// SelectDeliverer returns a RelayDeliverer when relay is non-nil and a
// BusDeliverer otherwise. The two paths are exclusive.
func SelectDeliverer(relay Relay, bus broadcast.Broadcaster[Notification], dir Directory, prefs *PreferenceResolver, log *slog.Logger) Deliverer {
	if relay != nil {
		return NewRelayDeliverer(relay, dir, WithRelayPreferences(prefs), WithRelayLogger(log))
	}
	return NewBusDeliverer(bus, WithBusLogger(log))
}
