// Package statemachine is a small finite state machine driven by named
// events.
//
// Transitions are declared up front (WithTransition, WithTransitions) and may
// carry Guards that veto them and Actions that run before the state changes.
// SimpleStateMachine is safe for concurrent use.
//
//	const (
//	    Open  = statemachine.StringState("open")
//	    Shut  = statemachine.StringState("shut")
//	    Close = statemachine.StringEvent("close")
//	)
//
//	m := statemachine.MustNew(Open, statemachine.WithTransition(Open, Shut, Close))
//	_ = m.Fire(ctx, Close, nil)
//
// Fire reports an undefined transition with ErrNoTransitionAvailable and a
// guard veto with ErrTransitionRejected; use IsNoTransitionAvailableError and
// IsTransitionRejectedError to tell them apart.
//
// Stream sessions drive their lifecycle through this package.
package statemachine
