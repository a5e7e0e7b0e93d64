package broadcast

import "errors"

// ErrClosed is returned by Subscribe and Broadcast after Close.
var ErrClosed = errors.New("broadcast: broadcaster is closed")

// ErrNilSubscriber is returned by Subscribe when given a nil subscriber.
var ErrNilSubscriber = errors.New("broadcast: nil subscriber")
