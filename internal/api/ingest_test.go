package api_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LuisOrlando98/AcostasPool-sub001/internal/api"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/digest"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/notifications"
)

func TestPublishEvent(t *testing.T) {
	e := newEnv(t)
	admin := e.token(t, "admin-1", notifications.RoleAdmin)

	t.Run("admin publishes as actor", func(t *testing.T) {
		rec, resp := e.do(t, http.MethodPost, "/api/events", admin,
			strings.NewReader(`{"role":"CUSTOMER","customerId":"cust-1","eventType":"INVOICE_SENT","payload":{"invoiceId":"inv-9"}}`))
		require.Equal(t, http.StatusCreated, rec.Code)

		data := resp.Data.(map[string]any)
		assert.Equal(t, "admin-1", data["actorUserId"])
		assert.Equal(t, "INFO", data["severity"])
		assert.Equal(t, "SENT", data["status"])
	})

	t.Run("non admin is forbidden", func(t *testing.T) {
		rec, resp := e.do(t, http.MethodPost, "/api/events", e.token(t, "user-c1", notifications.RoleCustomer),
			strings.NewReader(`{"role":"ADMIN","eventType":"JOB_COMPLETED"}`))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "forbidden", resp.Error.Code)
	})

	tests := []struct {
		name string
		body string
	}{
		{name: "unknown role", body: `{"role":"GUEST","eventType":"JOB_COMPLETED"}`},
		{name: "missing event type", body: `{"role":"ADMIN"}`},
		{name: "malformed", body: `nope`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := e.do(t, http.MethodPost, "/api/events", admin, strings.NewReader(tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestEnqueueDigest(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		e := newEnv(t)
		rec, resp := e.do(t, http.MethodPost, "/api/digest/items", e.token(t, "admin-1", notifications.RoleAdmin),
			strings.NewReader(`{}`))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not_enabled", resp.Error.Code)
	})

	repo := digest.NewMemoryRepository()
	e := newEnv(t, api.WithDigestQueue(digest.NewQueue(repo)))
	admin := e.token(t, "admin-1", notifications.RoleAdmin)

	rec, resp := e.do(t, http.MethodPost, "/api/digest/items", admin, strings.NewReader(
		`{"technicianId":"tech-1","jobId":"job-1","routeDate":"2026-03-14T15:04:05Z","changeType":"JOB_ASSIGNED"}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "2026-03-14T00:00:00Z", resp.Data.(map[string]any)["routeDate"])
	assert.Len(t, repo.Items(), 1)

	tests := []struct {
		name string
		body string
	}{
		{name: "unknown change type", body: `{"technicianId":"tech-1","jobId":"job-1","routeDate":"2026-03-14T15:04:05Z","changeType":"NOPE"}`},
		{name: "missing job", body: `{"technicianId":"tech-1","routeDate":"2026-03-14T15:04:05Z","changeType":"JOB_ASSIGNED"}`},
		{name: "missing date", body: `{"technicianId":"tech-1","jobId":"job-1","changeType":"JOB_ASSIGNED"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := e.do(t, http.MethodPost, "/api/digest/items", admin, strings.NewReader(tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
