package lifecycle

// State represents a lifecycle state for either a handover or a help request.
type State string

// Handover lifecycle states
const (
	StatePending    State = "pending"
	StateInProgress State = "in-progress"
	StateReview     State = "review"
	StateCompleted  State = "completed"
)

// Help request lifecycle states
const (
	StateHelpPending  State = "pending"
	StateHelpReplied  State = "replied"
	StateHelpResolved State = "resolved"
)

var handoverStates = map[State]bool{
	StatePending:    true,
	StateInProgress: true,
	StateReview:     true,
	StateCompleted:  true,
}

var helpStates = map[State]bool{
	StateHelpPending:  true,
	StateHelpReplied:  true,
	StateHelpResolved: true,
}

var terminalStates = map[State]bool{
	StateCompleted:    true,
	StateHelpResolved: true,
}

// IsTerminal returns true if no further transitions are allowed from s.
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}
