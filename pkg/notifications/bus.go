package notifications

import (
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/broadcast"
)

// Bus is the in-process notification registry shared by publisher and stream sessions.
type Bus = broadcast.MemoryBroadcaster[Notification]

// NewBus creates an empty bus.
func NewBus() *Bus {
	return broadcast.NewMemoryBroadcaster[Notification]()
}

// LiveSubscriber is one connected viewer on the bus. Its filter is the
// viewer's audience with the preference snapshot taken at connect time, so
// preference changes apply from the next connection on.
type LiveSubscriber struct {
	ID     string
	Viewer Viewer
	filter Filter
	send   func(Notification) bool
}

// NewLiveSubscriber creates a subscriber for v receiving only allowed event
// types. send must not block; it returns false when it drops the notification.
func NewLiveSubscriber(id string, v Viewer, allowed []string, send func(Notification) bool) *LiveSubscriber {
	if allowed == nil {
		allowed = []string{}
	}
	return &LiveSubscriber{
		ID:     id,
		Viewer: v,
		filter: AudienceFilter(v, allowed),
		send:   send,
	}
}

// Match applies, in order: role equality, admin self-exclusion, customer
// isolation and the allowed-type snapshot.
func (s *LiveSubscriber) Match(n Notification) bool {
	return s.filter.Matches(n)
}

// Send hands n to the session queue and reports whether it was accepted.
func (s *LiveSubscriber) Send(n Notification) bool {
	if s.send == nil {
		return false
	}
	return s.send(n)
}
