package stream

import "errors"

var (
	ErrSessionUsed  = errors.New("stream session already started")
	ErrNoFeed       = errors.New("stream feed is not configured")
	ErrWriterFailed = errors.New("stream write failed")
)
