package httpserver

import "errors"

var (
	ErrAlreadyRunning = errors.New("http server is already running")
	ErrListen         = errors.New("http server could not listen")
	ErrDrain          = errors.New("http server did not drain before the shutdown deadline")
)
