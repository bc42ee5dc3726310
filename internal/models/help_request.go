package models

import "time"

// HelpRequest is a question routed from the successor to either the exiting
// employee or a manager, tracked through a pending -> replied -> resolved
// lifecycle. resolved is terminal; no transition skips a state.
type HelpRequest struct {
	ID          string     `json:"id"`
	TaskID      string     `json:"task_id"`
	HandoverID  string     `json:"handover_id"`
	RequesterID string     `json:"requester_id"`
	RequestType string     `json:"request_type"` // employee, manager
	Message     string     `json:"message"`
	Status      string     `json:"status"` // pending, replied, resolved
	Response    string     `json:"response,omitempty"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Help request status constants
const (
	HelpRequestStatusPending  = "pending"
	HelpRequestStatusReplied  = "replied"
	HelpRequestStatusResolved = "resolved"
)

// Help request routing targets
const (
	RequestTypeEmployee = "employee"
	RequestTypeManager  = "manager"
)
