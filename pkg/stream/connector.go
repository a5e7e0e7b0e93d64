package stream

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/notifications"
)

// Connector opens sessions: it resolves who the caller is for notification
// purposes and takes the preference snapshot the session filters with.
type Connector struct {
	dir    notifications.Directory
	prefs  *notifications.PreferenceResolver
	feed   Feed
	cfg    Config
	logger *slog.Logger
}

// ConnectorOption configures a Connector.
type ConnectorOption func(*Connector)

// WithConnectorLogger sets the logger handed to every session.
func WithConnectorLogger(l *slog.Logger) ConnectorOption {
	return func(c *Connector) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithConnectorConfig sets the session configuration.
func WithConnectorConfig(cfg Config) ConnectorOption {
	return func(c *Connector) { c.cfg = cfg }
}

// NewConnector creates a Connector that resolves viewers through dir, their
// preference snapshot through prefs, and registers sessions on feed.
func NewConnector(dir notifications.Directory, prefs *notifications.PreferenceResolver, feed Feed, opts ...ConnectorOption) *Connector {
	c := &Connector{
		dir:    dir,
		prefs:  prefs,
		feed:   feed,
		cfg:    DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Viewer resolves the customer a CUSTOMER user belongs to. Other roles are
// returned unchanged.
func (c *Connector) Viewer(ctx context.Context, userID string, role notifications.Role) (notifications.Viewer, error) {
	if !role.Valid() {
		return notifications.Viewer{}, notifications.ErrInvalidRole
	}
	v := notifications.Viewer{UserID: userID, Role: role}
	if role == notifications.RoleCustomer {
		customerID, err := c.dir.CustomerOf(ctx, userID)
		if err != nil {
			return notifications.Viewer{}, fmt.Errorf("resolve customer: %w", err)
		}
		v.CustomerID = customerID
	}
	return v, nil
}

// Open prepares a session for the authenticated user. Nothing is written to
// the client until the session runs.
func (c *Connector) Open(ctx context.Context, userID string, role notifications.Role) (*Session, error) {
	v, err := c.Viewer(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	res, err := c.prefs.Resolve(ctx, userID, role)
	if err != nil {
		return nil, fmt.Errorf("resolve preferences: %w", err)
	}
	return NewSession(v, res.Effective(), c.feed,
		WithSessionConfig(c.cfg),
		WithSessionLogger(c.logger),
	), nil
}
