package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/logger"
)

// PublishInput describes a domain event to record and deliver.
type PublishInput struct {
	CustomerID  string
	Role        Role
	EventType   string
	Severity    Severity       // defaults to INFO
	Status      string         // defaults to SENT
	ActorUserID string         // optional
	Payload     map[string]any // optional
}

// Publisher is the single entry point domain code uses to emit notifications.
// The record is persisted before any delivery is attempted; delivery is best
// effort and never fails Publish. Safe for concurrent use.
type Publisher struct {
	store     NotificationStore
	deliverer Deliverer
	logger    *slog.Logger
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithPublisherLogger sets the logger for the Publisher.
func WithPublisherLogger(l *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPublisher creates a publisher. A nil deliverer disables live delivery.
func NewPublisher(store NotificationStore, deliverer Deliverer, opts ...PublisherOption) *Publisher {
	if deliverer == nil {
		deliverer = NoOpDeliverer{}
	}
	p := &Publisher{
		store:     store,
		deliverer: deliverer,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish records the event and dispatches it. Only validation and storage
// errors are returned.
func (p *Publisher) Publish(ctx context.Context, in PublishInput) (Notification, error) {
	if in.EventType == "" {
		return Notification{}, ErrEventTypeRequired
	}
	if !in.Role.Valid() {
		return Notification{}, fmt.Errorf("%w: %q", ErrInvalidRole, in.Role)
	}
	if in.Severity == "" {
		in.Severity = SeverityInfo
	}
	if in.Status == "" {
		in.Status = StatusSent
	}

	n, err := p.store.Insert(ctx, Notification{
		CustomerID:    in.CustomerID,
		RecipientRole: in.Role,
		EventType:     in.EventType,
		Severity:      in.Severity,
		Status:        in.Status,
		ActorUserID:   in.ActorUserID,
		Payload:       ClonePayload(in.Payload),
	})
	if err != nil {
		return Notification{}, errors.Join(ErrStorage, fmt.Errorf("failed to store notification: %w", err))
	}

	if err := p.deliverer.Deliver(ctx, n); err != nil {
		p.logger.LogAttrs(ctx, slog.LevelWarn, "failed to deliver notification, it remains available on the inbox",
			logger.NotificationID(n.ID),
			logger.EventType(n.EventType),
			logger.Role(n.RecipientRole),
			logger.CustomerID(n.CustomerID),
			logger.Error(err),
		)
	}

	return n, nil
}
