package pusherrelay_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/relay/pusherrelay"
)

type triggerRequest struct {
	Name     string   `json:"name"`
	Channels []string `json:"channels"`
	Data     string   `json:"data"`
}

type fakePusher struct {
	mu       sync.Mutex
	requests []triggerRequest
	status   int
}

func (f *fakePusher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var req triggerRequest
	_ = json.Unmarshal(body, &req)

	f.mu.Lock()
	f.requests = append(f.requests, req)
	status := f.status
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte("{}"))
}

func (f *fakePusher) Requests() []triggerRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]triggerRequest(nil), f.requests...)
}

func newRelay(t *testing.T, srv *httptest.Server) *pusherrelay.Relay {
	t.Helper()
	relay, err := pusherrelay.New(pusherrelay.Config{
		AppID:  "1",
		Key:    "app-key",
		Secret: "app-secret",
		Host:   strings.TrimPrefix(srv.URL, "http://"),
		Secure: false,
	})
	require.NoError(t, err)
	return relay
}

func TestConfig(t *testing.T) {
	tests := []struct {
		name       string
		cfg        pusherrelay.Config
		configured bool
		partial    bool
	}{
		{name: "empty", cfg: pusherrelay.Config{}},
		{name: "with cluster", cfg: pusherrelay.Config{AppID: "1", Key: "k", Secret: "s", Cluster: "us2"}, configured: true},
		{name: "with host", cfg: pusherrelay.Config{AppID: "1", Key: "k", Secret: "s", Host: "localhost:6001"}, configured: true},
		{name: "missing secret", cfg: pusherrelay.Config{AppID: "1", Key: "k", Cluster: "us2"}, partial: true},
		{name: "missing location", cfg: pusherrelay.Config{AppID: "1", Key: "k", Secret: "s"}, partial: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.configured, tt.cfg.Configured())
			assert.Equal(t, tt.partial, tt.cfg.Partial())
		})
	}
}

func TestNew_NotConfigured(t *testing.T) {
	_, err := pusherrelay.New(pusherrelay.Config{AppID: "1"})
	assert.ErrorIs(t, err, pusherrelay.ErrNotConfigured)
}

func TestChannelFor(t *testing.T) {
	srv := httptest.NewServer(&fakePusher{})
	defer srv.Close()
	assert.Equal(t, "private-user-u1", newRelay(t, srv).ChannelFor("u1"))
}

func TestTrigger(t *testing.T) {
	t.Run("sends event with json payload", func(t *testing.T) {
		fake := &fakePusher{}
		srv := httptest.NewServer(fake)
		defer srv.Close()

		err := newRelay(t, srv).Trigger(context.Background(),
			[]string{"private-user-a", "private-user-b"}, "notification", map[string]string{"id": "n1"})
		require.NoError(t, err)

		requests := fake.Requests()
		require.Len(t, requests, 1)
		req := requests[0]
		assert.Equal(t, "notification", req.Name)
		assert.Equal(t, []string{"private-user-a", "private-user-b"}, req.Channels)
		assert.JSONEq(t, `{"id":"n1"}`, req.Data)
	})

	t.Run("splits large audiences into batches", func(t *testing.T) {
		fake := &fakePusher{}
		srv := httptest.NewServer(fake)
		defer srv.Close()

		channels := make([]string, 150)
		for i := range channels {
			channels[i] = fmt.Sprintf("private-user-%d", i)
		}
		require.NoError(t, newRelay(t, srv).Trigger(context.Background(), channels, "notification", "x"))

		requests := fake.Requests()
		require.Len(t, requests, 2)
		assert.Len(t, requests[0].Channels, 100)
		assert.Len(t, requests[1].Channels, 50)
	})

	t.Run("reports upstream failure", func(t *testing.T) {
		fake := &fakePusher{status: http.StatusInternalServerError}
		srv := httptest.NewServer(fake)
		defer srv.Close()

		err := newRelay(t, srv).Trigger(context.Background(), []string{"private-user-a"}, "notification", "x")
		assert.ErrorIs(t, err, pusherrelay.ErrTriggerFailed)
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		fake := &fakePusher{}
		srv := httptest.NewServer(fake)
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := newRelay(t, srv).Trigger(ctx, []string{"private-user-a"}, "notification", "x")
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, fake.Requests())
	})
}

func TestAuthorizeChannel(t *testing.T) {
	srv := httptest.NewServer(&fakePusher{})
	defer srv.Close()
	relay := newRelay(t, srv)

	t.Run("signs own channel", func(t *testing.T) {
		resp, err := relay.AuthorizeChannel("u1", []byte("socket_id=123.456&channel_name=private-user-u1"))
		require.NoError(t, err)

		var body struct {
			Auth string `json:"auth"`
		}
		require.NoError(t, json.Unmarshal(resp, &body))

		mac := hmac.New(sha256.New, []byte("app-secret"))
		mac.Write([]byte("123.456:private-user-u1"))
		assert.Equal(t, "app-key:"+hex.EncodeToString(mac.Sum(nil)), body.Auth)
	})

	t.Run("rejects foreign channel", func(t *testing.T) {
		_, err := relay.AuthorizeChannel("u1", []byte("socket_id=123.456&channel_name=private-user-u2"))
		assert.ErrorIs(t, err, pusherrelay.ErrChannelForbidden)
	})

	t.Run("rejects incomplete form", func(t *testing.T) {
		_, err := relay.AuthorizeChannel("u1", []byte("channel_name=private-user-u1"))
		assert.ErrorIs(t, err, pusherrelay.ErrInvalidAuthForm)
	})
}
