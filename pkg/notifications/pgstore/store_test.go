package pgstore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/notifications"
)

func TestWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    notifications.Filter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "admin excludes own events",
			filter:    notifications.Filter{Role: notifications.RoleAdmin, ExcludeActorID: "admin-1"},
			wantWhere: "recipient_role = $1 AND (actor_user_id IS NULL OR actor_user_id <> $2)",
			wantArgs:  []any{"ADMIN", "admin-1"},
		},
		{
			name: "customer with types and unread",
			filter: notifications.Filter{
				Role:       notifications.RoleCustomer,
				CustomerID: "cust-1",
				EventTypes: []string{"INVOICE_SENT"},
				UnreadOnly: true,
			},
			wantWhere: "recipient_role = $1 AND customer_id = $2 AND event_type = ANY($3) AND read_at IS NULL",
			wantArgs:  []any{"CUSTOMER", "cust-1", []string{"INVOICE_SENT"}},
		},
		{
			name:      "customer without link matches nothing",
			filter:    notifications.Filter{Role: notifications.RoleCustomer},
			wantWhere: "recipient_role = $1 AND FALSE",
			wantArgs:  []any{"CUSTOMER"},
		},
		{
			name:      "empty type list is kept",
			filter:    notifications.Filter{Role: notifications.RoleTech, EventTypes: []string{}},
			wantWhere: "recipient_role = $1 AND event_type = ANY($2)",
			wantArgs:  []any{"TECH", []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := whereClause(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	if p := nullable("x"); assert.NotNil(t, p) {
		assert.Equal(t, "x", *p)
	}
}
