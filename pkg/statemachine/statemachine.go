package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// State is a named state.
type State string

// Event is a named trigger for a state transition.
type Event string

// Action executes side effects during a transition. Returning an error
// prevents the transition.
type Action func(ctx context.Context, from, to State, event Event) error

// Transition declares that event moves the machine from From to To,
// running Actions in order before the state changes.
type Transition struct {
	From    State
	To      State
	Event   Event
	Actions []Action
}

// Machine is a small finite state machine over a fixed transition table.
// Transition lookup is O(1) on the (state, event) pair.
type Machine struct {
	initial     State
	mu          sync.RWMutex
	current     State
	transitions map[State]map[Event]Transition
}

// New creates a machine in the initial state with the given transitions.
// Declaring two transitions for the same (state, event) pair is an error.
func New(initial State, transitions ...Transition) (*Machine, error) {
	m := &Machine{
		initial:     initial,
		current:     initial,
		transitions: make(map[State]map[Event]Transition),
	}

	for _, t := range transitions {
		if t.From == "" || t.To == "" || t.Event == "" {
			return nil, ErrInvalidTransition
		}
		if _, ok := m.transitions[t.From]; !ok {
			m.transitions[t.From] = make(map[Event]Transition)
		}
		if _, ok := m.transitions[t.From][t.Event]; ok {
			return nil, fmt.Errorf("%w: duplicate transition from %q on %q", ErrInvalidTransition, t.From, t.Event)
		}
		m.transitions[t.From][t.Event] = t
	}

	return m, nil
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Fire applies event to the current state. Actions run before the state
// changes; any action error aborts the transition and leaves the state
// untouched.
func (m *Machine) Fire(ctx context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	transition, ok := m.transitions[m.current][event]
	if !ok {
		return &NoTransitionError{State: m.current, Event: event}
	}

	for _, action := range transition.Actions {
		if action == nil {
			continue
		}
		if err := action(ctx, m.current, transition.To, event); err != nil {
			return fmt.Errorf("action failed: %w", err)
		}
	}

	m.current = transition.To
	return nil
}

// CanFire reports whether event has a transition from the current state.
func (m *Machine) CanFire(event Event) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.transitions[m.current][event]
	return ok
}

// Reset returns the machine to its initial state.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}
