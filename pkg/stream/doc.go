// Package stream implements live notification sessions.
//
// A Session moves through CONNECTING, READY, STREAMING and CLOSED. On start it
// writes a "ready" event, registers one subscriber on its Feed and then a
// single loop drains the bounded outbound queue as "notification" events,
// interleaved with a "ping" every heartbeat interval. Notifications arriving
// while the queue is full are dropped so broadcasting never waits on a slow
// client. Cancelling the request context ends the session and releases the
// registration, the ticker and the queue.
//
//	session, err := connector.Open(ctx, userID, role)
//	if err != nil {
//	    return err
//	}
//	return session.Run(r.Context(), stream.NewSSEWriter(w, r))
package stream
