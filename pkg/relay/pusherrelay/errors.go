package pusherrelay

import "errors"

var (
	ErrNotConfigured    = errors.New("pusher relay is not configured")
	ErrChannelForbidden = errors.New("channel does not belong to the requesting user")
	ErrInvalidAuthForm  = errors.New("invalid channel authorization request")
	ErrTriggerFailed    = errors.New("pusher trigger failed")
)
