package pusherrelay

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	pusherapi "github.com/pusher/pusher-http-go/v5"
)

const (
	// ChannelPrefix prefixes every per-user private channel.
	ChannelPrefix = "private-user-"

	// maxChannelsPerTrigger is the Pusher limit on channels in one trigger call.
	maxChannelsPerTrigger = 100
)

// Relay triggers notification events on per-user private Pusher channels.
type Relay struct {
	client *pusherapi.Client
}

// New creates a relay from cfg. It returns ErrNotConfigured when any
// required credential is missing.
func New(cfg Config) (*Relay, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}
	return &Relay{client: &pusherapi.Client{
		AppID:      cfg.AppID,
		Key:        cfg.Key,
		Secret:     cfg.Secret,
		Cluster:    cfg.Cluster,
		Host:       cfg.Host,
		Secure:     cfg.Secure,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}}, nil
}

// ChannelFor returns the private channel name of a user.
func (r *Relay) ChannelFor(userID string) string {
	return ChannelPrefix + userID
}

// Trigger sends payload to channels, splitting them into batches the Pusher
// API accepts. The pusher client has no context support, so ctx is only
// checked between batches.
func (r *Relay) Trigger(ctx context.Context, channels []string, eventName string, payload any) error {
	for start := 0; start < len(channels); start += maxChannelsPerTrigger {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+maxChannelsPerTrigger, len(channels))
		if err := r.client.TriggerMulti(channels[start:end], eventName, payload); err != nil {
			return errors.Join(ErrTriggerFailed, err)
		}
	}
	return nil
}

// AuthorizeChannel signs a private channel subscription for userID. form is
// the raw urlencoded body the Pusher client posts (socket_id and
// channel_name). Users may only subscribe to their own channel.
func (r *Relay) AuthorizeChannel(userID string, form []byte) ([]byte, error) {
	values, err := url.ParseQuery(string(form))
	if err != nil {
		return nil, errors.Join(ErrInvalidAuthForm, err)
	}
	channel := values.Get("channel_name")
	if channel == "" || values.Get("socket_id") == "" {
		return nil, ErrInvalidAuthForm
	}
	if !strings.HasPrefix(channel, ChannelPrefix) || channel != r.ChannelFor(userID) {
		return nil, ErrChannelForbidden
	}

	resp, err := r.client.AuthorizePrivateChannel(form)
	if err != nil {
		return nil, errors.Join(ErrInvalidAuthForm, err)
	}
	return resp, nil
}
