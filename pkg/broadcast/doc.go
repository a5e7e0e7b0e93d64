// Package broadcast provides a typed, in-process fan-out registry.
//
// Subscribers decide for themselves which messages they want (Match) and
// accept them without blocking (Send). MemoryBroadcaster never holds its lock
// while calling Send, so a slow or departing subscriber cannot stall a
// broadcast or deadlock it. ChanSubscriber is a ready-made subscriber with a
// bounded queue that drops on overflow.
//
//	b := broadcast.NewMemoryBroadcaster[Event]()
//	defer b.Close()
//
//	sub := broadcast.NewChanSubscriber(32, func(e Event) bool { return e.UserID == "42" })
//	unsubscribe, err := b.Subscribe(sub)
//	if err != nil {
//		return err
//	}
//	defer unsubscribe()
//
//	for e := range sub.Receive() {
//		...
//	}
package broadcast
