package api

import "errors"

var (
	ErrUnauthenticated  = errors.New("authentication required")
	ErrBadRequest       = errors.New("invalid request")
	ErrForbidden        = errors.New("not allowed for this role")
	ErrNotEnabled       = errors.New("endpoint is not enabled")
	ErrRelayUnavailable = errors.New("no relay with channel authorization is configured")
)
