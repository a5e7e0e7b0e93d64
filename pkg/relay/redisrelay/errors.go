package redisrelay

import "errors"

var (
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis did not become ready within the given time period")
	ErrHealthcheckFailed            = errors.New("redis healthcheck failed")
	ErrPublishFailed                = errors.New("redis publish failed")
	ErrSubscribeFailed              = errors.New("redis subscribe failed")
	ErrMalformedEnvelope            = errors.New("malformed relay envelope")
	ErrNilBus                       = errors.New("redis forward needs a bus")
)
