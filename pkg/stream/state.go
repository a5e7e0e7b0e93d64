package stream

import (
	"context"
	"log/slog"

	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/logger"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/statemachine"
)

// State is a stream session lifecycle state.
type State string

const (
	StateConnecting State = "CONNECTING"
	StateReady      State = "READY"
	StateStreaming  State = "STREAMING"
	StateClosed     State = "CLOSED"
)

func (s State) Name() string { return string(s) }

// Lifecycle events.
const (
	eventReady  = statemachine.StringEvent("ready")
	eventStream = statemachine.StringEvent("stream")
	eventClose  = statemachine.StringEvent("close")
)

// Any non-closed state may fail straight to CLOSED.
var lifecycleTransitions = []statemachine.TransitionDef{
	{From: StateConnecting, To: StateReady, Event: eventReady},
	{From: StateReady, To: StateStreaming, Event: eventStream},
	{From: StateConnecting, To: StateClosed, Event: eventClose},
	{From: StateReady, To: StateClosed, Event: eventClose},
	{From: StateStreaming, To: StateClosed, Event: eventClose},
}

// CanTransition reports whether the lifecycle allows moving from s to to.
func (s State) CanTransition(to State) bool {
	for _, t := range lifecycleTransitions {
		if t.From == s && t.To == to {
			return true
		}
	}
	return false
}

// lifecycle drives a session's State through a state machine.
type lifecycle struct {
	sm statemachine.StateMachine
}

func newLifecycle(log *slog.Logger) *lifecycle {
	logTransition := func(ctx context.Context, from, to statemachine.State, event statemachine.Event, _ any) error {
		log.LogAttrs(ctx, slog.LevelDebug, "stream session state changed",
			logger.Transition(from.Name(), to.Name(), event.Name()),
		)
		return nil
	}

	defs := make([]statemachine.TransitionDef, len(lifecycleTransitions))
	for i, t := range lifecycleTransitions {
		t.Actions = []statemachine.Action{logTransition}
		defs[i] = t
	}
	return &lifecycle{sm: statemachine.MustNew(StateConnecting, statemachine.WithTransitions(defs))}
}

func (l *lifecycle) State() State {
	return l.sm.Current().(State)
}

func (l *lifecycle) fire(ctx context.Context, event statemachine.Event) error {
	return l.sm.Fire(ctx, event, nil)
}
