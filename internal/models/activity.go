package models

import "time"

// Activity is an append-only audit event recorded on every mutating
// operation.
type Activity struct {
	ID         string    `json:"id"`
	HandoverID string    `json:"handover_id,omitempty"`
	ActorID    string    `json:"actor_id"`
	Action     string    `json:"action"`
	Detail     string    `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Activity action constants
const (
	ActionHandoverCreated   = "handover.created"
	ActionSuccessorAssigned = "handover.successor_assigned"
	ActionHandoverApproved  = "handover.approved"
	ActionTemplateApplied   = "handover.template_applied"
	ActionTaskCompleted     = "task.completed"
	ActionTaskReopened      = "task.reopened"
	ActionTaskAcknowledged  = "task.acknowledged"
	ActionInsightAdded      = "task.insight_added"
	ActionHelpRequested     = "help.requested"
	ActionHelpReplied       = "help.replied"
	ActionHelpResolved      = "help.resolved"
	ActionDocumentUploaded  = "document.uploaded"
)
