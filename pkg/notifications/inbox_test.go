package notifications

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func seed(t *testing.T, store *MemoryStorage, clock *fakeClock, ns ...Notification) []Notification {
	t.Helper()
	out := make([]Notification, 0, len(ns))
	for _, n := range ns {
		clock.advance(time.Minute)
		stored, err := store.Insert(context.Background(), n)
		require.NoError(t, err)
		out = append(out, stored)
	}
	return out
}

func TestInbox_MarkReadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)}
	store := NewMemoryStorage(WithMemoryClock(clock.now))
	inbox := NewInbox(store, NewPreferenceResolver(store))
	viewer := Viewer{UserID: "admin-1", Role: RoleAdmin}

	n := seed(t, store, clock, Notification{RecipientRole: RoleAdmin, EventType: EventJobCompleted})[0]

	first, err := inbox.MarkRead(ctx, viewer, n.ID)
	require.NoError(t, err)
	require.NotNil(t, first.ReadAt)
	firstReadAt := *first.ReadAt

	clock.advance(time.Hour)
	second, err := inbox.MarkRead(ctx, viewer, n.ID)
	require.NoError(t, err)
	require.NotNil(t, second.ReadAt)
	assert.True(t, firstReadAt.Equal(*second.ReadAt), "read timestamp must not advance")

	require.NoError(t, store.MarkRead(ctx, n.ID))
	stored, err := store.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, firstReadAt.Equal(*stored.ReadAt), "store level mark read is idempotent too")
}

func TestInbox_MarkReadOutsideAudience(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)}
	store := NewMemoryStorage(WithMemoryClock(clock.now))
	inbox := NewInbox(store, NewPreferenceResolver(store))

	ns := seed(t, store, clock,
		Notification{RecipientRole: RoleCustomer, CustomerID: "cust-2", EventType: EventInvoiceSent},
		Notification{RecipientRole: RoleAdmin, EventType: EventJobCompleted, ActorUserID: "admin-1"},
	)

	customer := Viewer{UserID: "user-1", Role: RoleCustomer, CustomerID: "cust-1"}
	_, err := inbox.MarkRead(ctx, customer, ns[0].ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound, "another customer's notification")

	_, err = inbox.MarkRead(ctx, Viewer{UserID: "admin-1", Role: RoleAdmin}, ns[1].ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound, "the admin's own event")

	_, err = inbox.MarkRead(ctx, customer, "missing")
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	unread, err := store.CountUnread(ctx, Filter{Role: RoleCustomer, CustomerID: "cust-2"})
	require.NoError(t, err)
	assert.Equal(t, 1, unread)
}

func TestInbox_RecentAndMarkAllRead(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)}
	store := NewMemoryStorage(WithMemoryClock(clock.now))
	prefs := NewPreferenceResolver(store)
	inbox := NewInbox(store, prefs)
	viewer := Viewer{UserID: "user-1", Role: RoleCustomer, CustomerID: "cust-1"}

	seed(t, store, clock,
		Notification{RecipientRole: RoleCustomer, CustomerID: "cust-1", EventType: EventServiceScheduled},
		Notification{RecipientRole: RoleCustomer, CustomerID: "cust-1", EventType: EventRouteUpdated},
		Notification{RecipientRole: RoleCustomer, CustomerID: "cust-2", EventType: EventServiceScheduled},
		Notification{RecipientRole: RoleAdmin, EventType: EventJobCompleted},
		Notification{RecipientRole: RoleCustomer, CustomerID: "cust-1", EventType: EventInvoiceSent},
	)
	require.NoError(t, prefs.SetPreference(ctx, viewer.UserID, viewer.Role, EventRouteUpdated, false))

	recent, err := inbox.Recent(ctx, viewer, 0)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, EventInvoiceSent, recent[0].EventType, "newest first")
	assert.Equal(t, EventServiceScheduled, recent[1].EventType)

	updated, err := inbox.MarkAllRead(ctx, viewer)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	count, err := inbox.UnreadCount(ctx, viewer)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, prefs.SetPreference(ctx, viewer.UserID, viewer.Role, EventRouteUpdated, true))
	count, err = inbox.UnreadCount(ctx, viewer)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "the disabled type was left unread")
}

func TestInbox_RecentLimit(t *testing.T) {
	ctx := context.Background()
	viewer := Viewer{UserID: "admin-1", Role: RoleAdmin}

	tests := []struct {
		requested int
		want      int
	}{
		{0, DefaultRecentLimit},
		{-5, DefaultRecentLimit},
		{7, 7},
		{500, MaxRecentLimit},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.requested), func(t *testing.T) {
			store := &MockStore{}
			inbox := NewInbox(store, NewPreferenceResolver(NewMemoryStorage()))
			store.On("ListRecent", ctx, mock.Anything, tt.want).Return([]Notification{}, nil).Once()

			_, err := inbox.Recent(ctx, viewer, tt.requested)
			require.NoError(t, err)
			store.AssertExpectations(t)
		})
	}
}

func TestInbox_EmptyEffectiveSetSkipsStore(t *testing.T) {
	ctx := context.Background()
	prefStore := NewMemoryStorage()
	prefs := NewPreferenceResolver(prefStore)
	store := &MockStore{}
	inbox := NewInbox(store, prefs)

	admin := Viewer{UserID: "admin-1", Role: RoleAdmin}
	for _, eventType := range Vocabulary(RoleAdmin) {
		require.NoError(t, prefs.SetPreference(ctx, admin.UserID, admin.Role, eventType, false))
	}

	viewers := map[string]Viewer{
		"everything disabled":   admin,
		"technician":            {UserID: "tech-1", Role: RoleTech},
		"customer without link": {UserID: "user-9", Role: RoleCustomer},
	}
	for name, v := range viewers {
		t.Run(name, func(t *testing.T) {
			count, err := inbox.UnreadCount(ctx, v)
			require.NoError(t, err)
			assert.Zero(t, count)

			list, err := inbox.Recent(ctx, v, 10)
			require.NoError(t, err)
			assert.Empty(t, list)

			updated, err := inbox.MarkAllRead(ctx, v)
			require.NoError(t, err)
			assert.Zero(t, updated)
		})
	}
	store.AssertNotCalled(t, "CountUnread", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "ListRecent", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "MarkManyRead", mock.Anything, mock.Anything)
}

func TestInbox_StorageErrors(t *testing.T) {
	ctx := context.Background()
	store := &MockStore{}
	inbox := NewInbox(store, NewPreferenceResolver(NewMemoryStorage()))
	viewer := Viewer{UserID: "admin-1", Role: RoleAdmin}
	boom := errors.New("db down")

	store.On("CountUnread", ctx, mock.Anything).Return(0, boom)
	store.On("ListRecent", ctx, mock.Anything, mock.Anything).Return(nil, boom)
	store.On("MarkManyRead", ctx, mock.Anything).Return(0, boom)
	store.On("Get", ctx, "n-1").Return(Notification{}, boom)

	_, err := inbox.UnreadCount(ctx, viewer)
	assert.ErrorIs(t, err, ErrStorage)
	_, err = inbox.Recent(ctx, viewer, 5)
	assert.ErrorIs(t, err, ErrStorage)
	_, err = inbox.MarkAllRead(ctx, viewer)
	assert.ErrorIs(t, err, ErrStorage)
	_, err = inbox.MarkRead(ctx, viewer, "n-1")
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, boom)
}
