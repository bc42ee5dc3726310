package lifecycle

// Trigger represents an event that can cause a state transition.
type Trigger string

const (
	// Handover triggers
	TriggerStart    Trigger = "START"     // first task activity
	TriggerSubmit   Trigger = "SUBMIT"    // all tasks done, sent for review
	TriggerApprove  Trigger = "APPROVE"   // manager approval closes the handover
	TriggerReopen   Trigger = "REOPEN"    // review sent back to in-progress

	// Help request triggers
	TriggerRespond Trigger = "RESPOND" // target answers, pending -> replied
	TriggerResolve Trigger = "RESOLVE" // requester closes, replied -> resolved
)

// String returns the string representation of the trigger.
func (t Trigger) String() string {
	return string(t)
}
