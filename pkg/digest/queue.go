package digest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/logger"
)

// Queue records route changes for technicians. It does not push anything;
// items wait for the digest consumer.
type Queue struct {
	repo   Repository
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithLocation sets the business time zone used to normalize route dates.
func WithLocation(loc *time.Location) QueueOption {
	return func(q *Queue) {
		if loc != nil {
			q.loc = loc
		}
	}
}

// WithLogger sets the queue logger.
func WithLogger(l *slog.Logger) QueueOption {
	return func(q *Queue) {
		if l != nil {
			q.logger = l
		}
	}
}

// WithClock overrides the clock stamping CreatedAt.
func WithClock(now func() time.Time) QueueOption {
	return func(q *Queue) {
		if now != nil {
			q.now = now
		}
	}
}

// NewQueue creates a queue appending to repo. Route dates are normalized in
// UTC unless WithLocation is given.
func NewQueue(repo Repository, opts ...QueueOption) *Queue {
	q := &Queue{
		repo:   repo,
		loc:    time.UTC,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue appends one change. Callers decide the change type; no
// deduplication happens here.
func (q *Queue) Enqueue(ctx context.Context, technicianID, jobID string, routeDate time.Time, changeType ChangeType, payload map[string]any) (Item, error) {
	if technicianID == "" || jobID == "" {
		return Item{}, ErrInvalidItem
	}
	if !changeType.Valid() {
		return Item{}, fmt.Errorf("%w: %q", ErrInvalidChangeType, changeType)
	}

	item, err := q.repo.Append(ctx, Item{
		TechnicianID: technicianID,
		JobID:        jobID,
		RouteDate:    NormalizeRouteDate(routeDate, q.loc),
		ChangeType:   changeType,
		Payload:      payload,
		CreatedAt:    q.now(),
	})
	if err != nil {
		return Item{}, fmt.Errorf("enqueue digest item: %w", err)
	}

	q.logger.LogAttrs(ctx, slog.LevelDebug, "digest item queued",
		logger.UserID(technicianID),
		slog.String("job_id", jobID),
		slog.String("change_type", string(changeType)),
	)
	return item, nil
}
