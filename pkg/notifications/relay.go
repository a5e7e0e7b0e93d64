package notifications

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/logger"
)

// RelayEventName is the event name notifications are triggered under on a relay.
const RelayEventName = "notification"

// Relay forwards events to an external push service that fans them out
// across processes. One private channel exists per user.
type Relay interface {
	ChannelFor(userID string) string
	Trigger(ctx context.Context, channels []string, eventName string, payload any) error
}

// RelayDeliverer resolves the exact recipient users of a notification and
// triggers their channels. The relay cannot apply role or customer rules
// itself, so the audience is computed here on every publish.
type RelayDeliverer struct {
	relay  Relay
	dir    Directory
	prefs  *PreferenceResolver
	logger *slog.Logger
}

// RelayDelivererOption configures a RelayDeliverer.
type RelayDelivererOption func(*RelayDeliverer)

// WithRelayLogger sets the logger for the RelayDeliverer.
func WithRelayLogger(l *slog.Logger) RelayDelivererOption {
	return func(d *RelayDeliverer) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithRelayPreferences drops recipients who disabled the event type.
func WithRelayPreferences(prefs *PreferenceResolver) RelayDelivererOption {
	return func(d *RelayDeliverer) { d.prefs = prefs }
}

// NewRelayDeliverer creates a deliverer over relay.
func NewRelayDeliverer(relay Relay, dir Directory, opts ...RelayDelivererOption) *RelayDeliverer {
	d := &RelayDeliverer{relay: relay, dir: dir, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *RelayDeliverer) Deliver(ctx context.Context, n Notification) error {
	users, err := d.Audience(ctx, n)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return nil
	}

	channels := make([]string, len(users))
	for i, id := range users {
		channels[i] = d.relay.ChannelFor(id)
	}
	if err := d.relay.Trigger(ctx, channels, RelayEventName, n); err != nil {
		return fmt.Errorf("relay trigger: %w", err)
	}

	d.logger.LogAttrs(ctx, slog.LevelDebug, "notification relayed",
		logger.NotificationID(n.ID),
		logger.EventType(n.EventType),
		logger.Count(len(channels)),
	)
	return nil
}

// Audience returns the user ids that should receive n: every active admin
// except the actor for ADMIN, the customer's owning user for CUSTOMER, and
// nobody for TECH.
func (d *RelayDeliverer) Audience(ctx context.Context, n Notification) ([]string, error) {
	var candidates []string
	switch n.RecipientRole {
	case RoleAdmin:
		admins, err := d.dir.ActiveUserIDs(ctx, RoleAdmin)
		if err != nil {
			return nil, fmt.Errorf("list admins: %w", err)
		}
		for _, id := range admins {
			if n.ActorUserID == "" || id != n.ActorUserID {
				candidates = append(candidates, id)
			}
		}
	case RoleCustomer:
		if n.CustomerID == "" {
			return nil, nil
		}
		owner, err := d.dir.CustomerOwner(ctx, n.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("find customer owner: %w", err)
		}
		if owner != "" {
			candidates = append(candidates, owner)
		}
	default:
		return nil, nil
	}

	if d.prefs == nil {
		return candidates, nil
	}
	out := candidates[:0]
	for _, id := range candidates {
		ok, err := d.prefs.Enabled(ctx, id, n.RecipientRole, n.EventType)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, id)
		}
	}
	return out, nil
}
