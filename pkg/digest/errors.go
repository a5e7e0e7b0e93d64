package digest

import "errors"

var (
	ErrInvalidItem       = errors.New("digest item requires technician and job ids")
	ErrInvalidChangeType = errors.New("unknown digest change type")
	ErrInvalidTimezone   = errors.New("invalid business timezone")
	ErrStorage           = errors.New("digest storage failure")
)
