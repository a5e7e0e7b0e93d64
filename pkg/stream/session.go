package stream

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/broadcast"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/logger"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/notifications"
)

// Session is one live connection. It owns exactly one feed registration and
// one heartbeat ticker, both released when Run returns.
type Session struct {
	id      string
	viewer  notifications.Viewer
	allowed []string
	feed    Feed
	cfg     Config
	logger  *slog.Logger
	state   *lifecycle
	started atomic.Bool
	dropped atomic.Int64
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionLogger sets the session logger.
func WithSessionLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSessionConfig overrides heartbeat and buffer settings. Zero values keep
// the defaults.
func WithSessionConfig(cfg Config) SessionOption {
	return func(s *Session) {
		if cfg.HeartbeatInterval > 0 {
			s.cfg.HeartbeatInterval = cfg.HeartbeatInterval
		}
		if cfg.BufferSize > 0 {
			s.cfg.BufferSize = cfg.BufferSize
		}
	}
}

// NewSession creates a session for viewer receiving the allowed event types.
// allowed is the preference snapshot taken at connect time.
func NewSession(viewer notifications.Viewer, allowed []string, feed Feed, opts ...SessionOption) *Session {
	s := &Session{
		id:      uuid.NewString(),
		viewer:  viewer,
		allowed: allowed,
		feed:    feed,
		cfg:     DefaultConfig(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = newLifecycle(s.logger.With(logger.SessionID(s.id)))
	return s
}

func (s *Session) ID() string                   { return s.id }
func (s *Session) Viewer() notifications.Viewer { return s.viewer }
func (s *Session) State() State                 { return s.state.State() }

// Dropped returns how many notifications were discarded because the outbound
// queue was full.
func (s *Session) Dropped() int64 { return s.dropped.Load() }

type readyEvent struct {
	SessionID  string             `json:"sessionId"`
	Role       notifications.Role `json:"role"`
	EventTypes []string           `json:"eventTypes"`
}

type pingEvent struct {
	Time time.Time `json:"time"`
}

// Run streams to w until ctx is cancelled or a write fails. A cancelled
// context is a normal end of session and yields a nil error. Run may be
// called once.
func (s *Session) Run(ctx context.Context, w Writer) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrSessionUsed
	}
	if s.feed == nil {
		_ = s.state.fire(ctx, eventClose)
		return ErrNoFeed
	}

	log := s.logger.With(
		logger.SessionID(s.id),
		logger.UserID(s.viewer.UserID),
		logger.Role(s.viewer.Role),
	)
	defer func() {
		_ = s.state.fire(context.WithoutCancel(ctx), eventClose)
		log.LogAttrs(context.WithoutCancel(ctx), slog.LevelDebug, "stream session closed",
			logger.Count(int(s.dropped.Load())),
		)
	}()

	allowed := s.allowed
	if allowed == nil {
		allowed = []string{}
	}
	if err := w.WriteEvent(EventReady, readyEvent{SessionID: s.id, Role: s.viewer.Role, EventTypes: allowed}); err != nil {
		return err
	}
	if err := s.state.fire(ctx, eventReady); err != nil {
		return err
	}

	queue := broadcast.NewChanSubscriber[notifications.Notification](s.cfg.BufferSize, nil)
	defer queue.Close()

	live := notifications.NewLiveSubscriber(s.id, s.viewer, allowed, func(n notifications.Notification) bool {
		if queue.Send(n) {
			return true
		}
		s.dropped.Add(1)
		return false
	})
	unsubscribe, err := s.feed.Subscribe(ctx, s.viewer.UserID, live)
	if err != nil {
		return err
	}
	defer unsubscribe()

	if err := s.state.fire(ctx, eventStream); err != nil {
		return err
	}
	log.LogAttrs(ctx, slog.LevelDebug, "stream session started")

	ticker := time.NewTicker(s.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-queue.Receive():
			if !ok {
				return nil
			}
			if err := w.WriteEvent(EventNotification, n); err != nil {
				return err
			}
		case t := <-ticker.C:
			if err := w.WriteEvent(EventPing, pingEvent{Time: t.UTC()}); err != nil {
				return err
			}
		}
	}
}
