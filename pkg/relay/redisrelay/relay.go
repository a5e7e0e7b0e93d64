package redisrelay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/broadcast"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/logger"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/notifications"
)

// Envelope is the message published on a user channel.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Relay publishes notifications on per-user Redis channels. Each server
// process runs one Forward loop that feeds its local bus.
type Relay struct {
	client redis.UniversalClient
	prefix string
	logger *slog.Logger
}

// Option configures a Relay.
type Option func(*Relay)

// WithLogger sets the relay logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Relay) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithChannelPrefix overrides the "user:" channel prefix.
func WithChannelPrefix(prefix string) Option {
	return func(r *Relay) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// New creates a relay over client.
func New(client redis.UniversalClient, opts ...Option) *Relay {
	r := &Relay{client: client, prefix: "user:", logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ChannelFor returns the Redis channel carrying userID's notifications.
func (r *Relay) ChannelFor(userID string) string {
	return r.prefix + userID
}

// Trigger publishes one envelope per channel. Publishing continues past
// individual failures; all of them are returned joined.
func (r *Relay) Trigger(ctx context.Context, channels []string, eventName string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	msg, err := json.Marshal(Envelope{Event: eventName, Data: data})
	if err != nil {
		return errors.Join(ErrPublishFailed, err)
	}

	var errs []error
	for _, ch := range channels {
		if err := r.client.Publish(ctx, ch, msg).Err(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrPublishFailed}, errs...)...)
	}
	return nil
}

// recentWindow bounds how many notification IDs Forward remembers. One
// notification arrives once per recipient channel, and those copies are
// published back to back.
const recentWindow = 1024

// Forward pattern-subscribes to every user channel on a single connection and
// rebroadcasts each notification once on bus, where stream sessions apply
// their own audience filter. It runs until the returned function is called
// or ctx ends; the returned function waits for the forwarding goroutine.
func (r *Relay) Forward(ctx context.Context, bus broadcast.Broadcaster[notifications.Notification]) (func(), error) {
	if bus == nil {
		return nil, ErrNilBus
	}
	ps := r.client.PSubscribe(ctx, r.prefix+"*")
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, errors.Join(ErrSubscribeFailed, err)
	}
	return r.pump(ctx, ps.Channel(), ps.Close, bus), nil
}

// pump drains msgs into bus until msgs is closed. closeFn must close msgs.
func (r *Relay) pump(ctx context.Context, msgs <-chan *redis.Message, closeFn func() error, bus broadcast.Broadcaster[notifications.Notification]) func() {
	done := make(chan struct{})
	go func() {
		defer close(done)
		seen := newRecentIDs(recentWindow)
		bctx := context.WithoutCancel(ctx)
		for msg := range msgs {
			n, ok, err := Decode(msg.Payload)
			if err != nil {
				r.logger.LogAttrs(bctx, slog.LevelWarn, "dropping relay message",
					logger.Channel(msg.Channel),
					logger.Error(err),
				)
				continue
			}
			if !ok || !seen.add(n.ID) {
				continue
			}
			if _, err := bus.Broadcast(bctx, n); err != nil {
				r.logger.LogAttrs(bctx, slog.LevelWarn, "relay forward failed",
					logger.NotificationID(n.ID),
					logger.Error(err),
				)
			}
		}
	}()

	var once sync.Once
	stopOnCancel := context.AfterFunc(ctx, func() { _ = closeFn() })
	return func() {
		once.Do(func() {
			stopOnCancel()
			_ = closeFn()
			<-done
		})
	}
}

// Decode parses a published envelope. ok is false for events other than
// notifications.
func Decode(payload string) (n notifications.Notification, ok bool, err error) {
	var env Envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return n, false, errors.Join(ErrMalformedEnvelope, err)
	}
	if env.Event != notifications.RelayEventName {
		return n, false, nil
	}
	if err := json.Unmarshal(env.Data, &n); err != nil {
		return n, false, errors.Join(ErrMalformedEnvelope, err)
	}
	if n.ID == "" {
		return n, false, fmt.Errorf("%w: notification without id", ErrMalformedEnvelope)
	}
	return n, true, nil
}

// recentIDs is a fixed-size set that forgets the oldest ID first. It is used
// by a single goroutine.
type recentIDs struct {
	ring  []string
	index map[string]struct{}
	next  int
}

func newRecentIDs(size int) *recentIDs {
	return &recentIDs{ring: make([]string, size), index: make(map[string]struct{}, size)}
}

// add reports whether id was not already remembered.
func (s *recentIDs) add(id string) bool {
	if _, dup := s.index[id]; dup {
		return false
	}
	if old := s.ring[s.next]; old != "" {
		delete(s.index, old)
	}
	s.ring[s.next] = id
	s.index[id] = struct{}{}
	s.next = (s.next + 1) % len(s.ring)
	return true
}
