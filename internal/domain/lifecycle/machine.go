package lifecycle

import (
	"context"
	"fmt"
)

// GuardFunc evaluates whether a transition should be allowed.
type GuardFunc func(ctx context.Context) bool

type transition struct {
	to    State
	guard GuardFunc
}

// Machine tracks a current state and validates trigger-driven transitions.
// Transitions are linear for both lifecycles: no skips, no back-transitions
// except the explicit review reopen, and terminal states accept nothing.
type Machine struct {
	current     State
	transitions map[State]map[Trigger]transition
}

// NewHandoverMachine builds the handover lifecycle machine starting at the
// given state: pending -> in-progress -> review -> completed, with review
// able to reopen back to in-progress. The APPROVE guard is supplied by the
// caller (all tasks completed and acknowledged).
func NewHandoverMachine(initial State, approveGuard GuardFunc) (*Machine, error) {
	if !handoverStates[initial] {
		return nil, fmt.Errorf("unknown handover state %q", initial)
	}
	m := newMachine(initial)
	m.permit(StatePending, TriggerStart, StateInProgress, nil)
	m.permit(StateInProgress, TriggerSubmit, StateReview, nil)
	m.permit(StateReview, TriggerReopen, StateInProgress, nil)
	m.permit(StateReview, TriggerApprove, StateCompleted, approveGuard)
	return m, nil
}

// NewHelpRequestMachine builds the help request lifecycle machine:
// pending -> replied -> resolved, resolved terminal.
func NewHelpRequestMachine(initial State) (*Machine, error) {
	if !helpStates[initial] {
		return nil, fmt.Errorf("unknown help request state %q", initial)
	}
	m := newMachine(initial)
	m.permit(StateHelpPending, TriggerRespond, StateHelpReplied, nil)
	m.permit(StateHelpReplied, TriggerResolve, StateHelpResolved, nil)
	return m, nil
}

func newMachine(initial State) *Machine {
	return &Machine{
		current:     initial,
		transitions: make(map[State]map[Trigger]transition),
	}
}

func (m *Machine) permit(from State, trigger Trigger, to State, guard GuardFunc) {
	if m.transitions[from] == nil {
		m.transitions[from] = make(map[Trigger]transition)
	}
	m.transitions[from][trigger] = transition{to: to, guard: guard}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.current
}

// CanFire returns true if the trigger is permitted in the current state,
// ignoring guards.
func (m *Machine) CanFire(trigger Trigger) bool {
	_, ok := m.transitions[m.current][trigger]
	return ok
}

// Fire attempts the trigger, transitioning to the new state if allowed.
func (m *Machine) Fire(ctx context.Context, trigger Trigger) error {
	t, ok := m.transitions[m.current][trigger]
	if !ok {
		return fmt.Errorf("%w: cannot fire %s from state %s", ErrInvalidTransition, trigger, m.current)
	}
	if t.guard != nil && !t.guard(ctx) {
		return fmt.Errorf("%w: trigger %s from state %s", ErrGuardFailed, trigger, m.current)
	}
	m.current = t.to
	return nil
}

// PermittedTriggers returns all triggers that can be fired in the current
// state.
func (m *Machine) PermittedTriggers() []Trigger {
	perState := m.transitions[m.current]
	triggers := make([]Trigger, 0, len(perState))
	for trigger := range perState {
		triggers = append(triggers, trigger)
	}
	return triggers
}
