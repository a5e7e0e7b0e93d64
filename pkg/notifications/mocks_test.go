package notifications

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockStore for testing Publisher and Inbox.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Insert(ctx context.Context, n Notification) (Notification, error) {
	args := m.Called(ctx, n)
	return args.Get(0).(Notification), args.Error(1)
}

func (m *MockStore) Get(ctx context.Context, id string) (Notification, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Notification), args.Error(1)
}

func (m *MockStore) CountUnread(ctx context.Context, f Filter) (int, error) {
	args := m.Called(ctx, f)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) ListRecent(ctx context.Context, f Filter, limit int) ([]Notification, error) {
	args := m.Called(ctx, f, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Notification), args.Error(1)
}

func (m *MockStore) MarkRead(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) MarkManyRead(ctx context.Context, f Filter) (int, error) {
	args := m.Called(ctx, f)
	return args.Int(0), args.Error(1)
}

// MockDeliverer for testing Publisher.
type MockDeliverer struct {
	mock.Mock
}

func (m *MockDeliverer) Deliver(ctx context.Context, n Notification) error {
	return m.Called(ctx, n).Error(0)
}

// recordingRelay captures triggers for relay tests.
type recordingRelay struct {
	err   error
	calls []relayCall
}

type relayCall struct {
	channels []string
	event    string
	payload  any
}

func (r *recordingRelay) ChannelFor(userID string) string { return "user:" + userID }

func (r *recordingRelay) Trigger(_ context.Context, channels []string, event string, payload any) error {
	r.calls = append(r.calls, relayCall{channels: append([]string(nil), channels...), event: event, payload: payload})
	return r.err
}
