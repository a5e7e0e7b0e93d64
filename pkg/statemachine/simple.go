package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// SimpleStateMachine is an in-memory StateMachine safe for concurrent use.
// Transitions are indexed as [from][event] for constant-time lookup.
type SimpleStateMachine struct {
	mu          sync.RWMutex
	initial     State
	current     State
	transitions map[string]map[string][]Transition
}

func newSimpleStateMachine(initial State) *SimpleStateMachine {
	return &SimpleStateMachine{
		initial:     initial,
		current:     initial,
		transitions: make(map[string]map[string][]Transition),
	}
}

func (sm *SimpleStateMachine) Current() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.current
}

// AddTransition registers a transition. Several transitions may share a
// from/event pair; the first whose guards pass is taken.
func (sm *SimpleStateMachine) AddTransition(from, to State, event Event, guards []Guard, actions []Action) error {
	if from == nil || to == nil || event == nil {
		return ErrInvalidTransition
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	byEvent, ok := sm.transitions[from.Name()]
	if !ok {
		byEvent = make(map[string][]Transition)
		sm.transitions[from.Name()] = byEvent
	}
	byEvent[event.Name()] = append(byEvent[event.Name()], Transition{
		From:    from,
		To:      to,
		Event:   event,
		Guards:  guards,
		Actions: actions,
	})
	return nil
}

// Fire takes the first eligible transition for event, running its actions
// before the state changes.
func (sm *SimpleStateMachine) Fire(ctx context.Context, event Event, data any) error {
	if event == nil {
		return ErrInvalidEvent
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	t, err := sm.eligible(ctx, event, data)
	if err != nil {
		return err
	}
	for _, action := range t.Actions {
		if action == nil {
			continue
		}
		if err := action(ctx, sm.current, t.To, event, data); err != nil {
			return fmt.Errorf("action failed: %w", err)
		}
	}
	sm.current = t.To
	return nil
}

func (sm *SimpleStateMachine) CanFire(ctx context.Context, event Event, data any) bool {
	if event == nil {
		return false
	}

	sm.mu.RLock()
	defer sm.mu.RUnlock()

	_, err := sm.eligible(ctx, event, data)
	return err == nil
}

func (sm *SimpleStateMachine) Reset() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.current = sm.initial
	return nil
}

// eligible returns the first transition out of the current state whose guards
// all pass. Callers hold mu.
func (sm *SimpleStateMachine) eligible(ctx context.Context, event Event, data any) (*Transition, error) {
	from := sm.current.Name()
	candidates := sm.transitions[from][event.Name()]
	if len(candidates) == 0 {
		return nil, &ErrNoTransitionAvailable{StateName: from, EventName: event.Name()}
	}
	for i := range candidates {
		if sm.guardsPass(ctx, candidates[i].Guards, event, data) {
			return &candidates[i], nil
		}
	}
	return nil, &ErrTransitionRejected{StateName: from, EventName: event.Name()}
}

func (sm *SimpleStateMachine) guardsPass(ctx context.Context, guards []Guard, event Event, data any) bool {
	for _, guard := range guards {
		if guard != nil && !guard(ctx, sm.current, event, data) {
			return false
		}
	}
	return true
}
