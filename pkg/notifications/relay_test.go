package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelayDeliverer_Audience(t *testing.T) {
	ctx := context.Background()
	dir := NewMemoryDirectory()
	dir.PutUser("admin-1", RoleAdmin, true)
	dir.PutUser("admin-2", RoleAdmin, true)
	dir.PutUser("admin-3", RoleAdmin, false)
	dir.PutUser("user-1", RoleCustomer, true)
	dir.LinkCustomer("cust-1", "user-1")

	tests := []struct {
		name string
		n    Notification
		want []string
	}{
		{
			name: "admins except actor",
			n:    Notification{RecipientRole: RoleAdmin, EventType: EventJobCompleted, ActorUserID: "admin-2"},
			want: []string{"admin-1"},
		},
		{
			name: "all active admins without actor",
			n:    Notification{RecipientRole: RoleAdmin, EventType: EventJobCompleted},
			want: []string{"admin-1", "admin-2"},
		},
		{
			name: "customer owner",
			n:    Notification{RecipientRole: RoleCustomer, CustomerID: "cust-1", EventType: EventInvoiceSent},
			want: []string{"user-1"},
		},
		{
			name: "customer without owner",
			n:    Notification{RecipientRole: RoleCustomer, CustomerID: "cust-404", EventType: EventInvoiceSent},
		},
		{
			name: "technician events are not relayed",
			n:    Notification{RecipientRole: RoleTech, EventType: "ROUTE_ASSIGNED"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewRelayDeliverer(&recordingRelay{}, dir)
			got, err := d.Audience(ctx, tt.n)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRelayDeliverer_Deliver(t *testing.T) {
	ctx := context.Background()
	dir := NewMemoryDirectory()
	dir.PutUser("admin-1", RoleAdmin, true)
	dir.PutUser("admin-2", RoleAdmin, true)
	store := NewMemoryStorage()
	prefs := NewPreferenceResolver(store)
	require.NoError(t, prefs.SetPreference(ctx, "admin-2", RoleAdmin, EventJobCompleted, false))

	t.Run("triggers one channel per recipient", func(t *testing.T) {
		relay := &recordingRelay{}
		d := NewRelayDeliverer(relay, dir, WithRelayPreferences(prefs))
		n := Notification{ID: "n-1", RecipientRole: RoleAdmin, EventType: EventJobCompleted}

		require.NoError(t, d.Deliver(ctx, n))
		require.Len(t, relay.calls, 1)
		assert.Equal(t, []string{"user:admin-1"}, relay.calls[0].channels, "admin-2 opted out")
		assert.Equal(t, RelayEventName, relay.calls[0].event)
		assert.Equal(t, n, relay.calls[0].payload)
	})

	t.Run("empty audience skips the relay", func(t *testing.T) {
		relay := &recordingRelay{}
		d := NewRelayDeliverer(relay, dir)
		require.NoError(t, d.Deliver(ctx, Notification{RecipientRole: RoleTech, EventType: "X"}))
		assert.Empty(t, relay.calls)
	})

	t.Run("relay error is returned to the publisher", func(t *testing.T) {
		boom := errors.New("pusher: 500")
		d := NewRelayDeliverer(&recordingRelay{err: boom}, dir)
		err := d.Deliver(ctx, Notification{RecipientRole: RoleAdmin, EventType: EventCustomerRequest})
		assert.ErrorIs(t, err, boom)
	})
}
