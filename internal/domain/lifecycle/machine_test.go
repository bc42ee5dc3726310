package lifecycle

import (
	"context"
	"errors"
	"testing"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StatePending, false},
		{StateInProgress, false},
		{StateReview, false},
		{StateCompleted, true},
		{StateHelpReplied, false},
		{StateHelpResolved, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHelpRequestMachine_LinearFlow(t *testing.T) {
	m, err := NewHelpRequestMachine(StateHelpPending)
	if err != nil {
		t.Fatalf("NewHelpRequestMachine() error = %v", err)
	}

	ctx := context.Background()

	// pending cannot resolve directly
	if err := m.Fire(ctx, TriggerResolve); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fire(RESOLVE) from pending: got %v, want ErrInvalidTransition", err)
	}

	if err := m.Fire(ctx, TriggerRespond); err != nil {
		t.Fatalf("Fire(RESPOND) error = %v", err)
	}
	if m.State() != StateHelpReplied {
		t.Errorf("State() = %v, want replied", m.State())
	}

	// no back-transition
	if err := m.Fire(ctx, TriggerRespond); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fire(RESPOND) from replied: got %v, want ErrInvalidTransition", err)
	}

	if err := m.Fire(ctx, TriggerResolve); err != nil {
		t.Fatalf("Fire(RESOLVE) error = %v", err)
	}
	if m.State() != StateHelpResolved {
		t.Errorf("State() = %v, want resolved", m.State())
	}

	// resolved is terminal
	if got := m.PermittedTriggers(); len(got) != 0 {
		t.Errorf("PermittedTriggers() from resolved = %v, want none", got)
	}
}

func TestHelpRequestMachine_RejectsUnknownInitialState(t *testing.T) {
	if _, err := NewHelpRequestMachine(State("escalated")); err == nil {
		t.Error("NewHelpRequestMachine() should reject unknown state")
	}
}

func TestHandoverMachine_ApproveGuard(t *testing.T) {
	allTasksDone := false
	guard := func(ctx context.Context) bool { return allTasksDone }

	m, err := NewHandoverMachine(StateReview, guard)
	if err != nil {
		t.Fatalf("NewHandoverMachine() error = %v", err)
	}

	ctx := context.Background()

	if err := m.Fire(ctx, TriggerApprove); !errors.Is(err, ErrGuardFailed) {
		t.Errorf("Fire(APPROVE) with failing guard: got %v, want ErrGuardFailed", err)
	}
	if m.State() != StateReview {
		t.Errorf("State() after failed guard = %v, want review", m.State())
	}

	allTasksDone = true
	if err := m.Fire(ctx, TriggerApprove); err != nil {
		t.Fatalf("Fire(APPROVE) error = %v", err)
	}
	if m.State() != StateCompleted {
		t.Errorf("State() = %v, want completed", m.State())
	}
}

func TestHandoverMachine_ReviewCanReopen(t *testing.T) {
	m, err := NewHandoverMachine(StateReview, nil)
	if err != nil {
		t.Fatalf("NewHandoverMachine() error = %v", err)
	}

	if err := m.Fire(context.Background(), TriggerReopen); err != nil {
		t.Fatalf("Fire(REOPEN) error = %v", err)
	}
	if m.State() != StateInProgress {
		t.Errorf("State() = %v, want in-progress", m.State())
	}
	if !m.CanFire(TriggerSubmit) {
		t.Error("CanFire(SUBMIT) = false, want true")
	}
}
