// Package pusherrelay delivers notifications through Pusher Channels.
//
// Each user owns one private channel, "private-user-<id>". The server
// triggers events on the channels of the resolved recipients and signs
// subscription requests so a user can only listen on their own channel.
//
//	relay, err := pusherrelay.New(cfg)
//	if errors.Is(err, pusherrelay.ErrNotConfigured) {
//	    // fall back to the in-process bus
//	}
package pusherrelay
