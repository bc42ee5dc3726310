package models

import "time"

// Handover represents the end-to-end knowledge transfer record linking one
// exiting employee to (optionally) one successor.
type Handover struct {
	ID                   string     `json:"id"`
	ExitingEmployeeID    string     `json:"exiting_employee_id"`
	ExitingEmployeeEmail string     `json:"exiting_employee_email"`
	ExitingEmployeeName  string     `json:"exiting_employee_name"`
	SuccessorID          string     `json:"successor_id,omitempty"`
	SuccessorEmail       string     `json:"successor_email,omitempty"`
	SuccessorName        string     `json:"successor_name,omitempty"`
	Department           string     `json:"department"`
	Status               string     `json:"status"` // pending, in-progress, review, completed
	Progress             int        `json:"progress"`
	TaskCount            int        `json:"task_count"`
	CompletedTasks       int        `json:"completed_tasks"`
	AIRiskLevel          string     `json:"ai_risk_level"` // low, medium, high, critical
	AIRecommendation     string     `json:"ai_recommendation"`
	ApprovedBy           string     `json:"approved_by,omitempty"`
	ApprovedAt           *time.Time `json:"approved_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// Handover status constants
const (
	HandoverStatusPending    = "pending"
	HandoverStatusInProgress = "in-progress"
	HandoverStatusReview     = "review"
	HandoverStatusCompleted  = "completed"
)

// Risk level constants, attached by the AI insight process and consumed as
// plain data everywhere else.
const (
	RiskLevelLow      = "low"
	RiskLevelMedium   = "medium"
	RiskLevelHigh     = "high"
	RiskLevelCritical = "critical"
)

// HasSuccessor reports whether a successor has been attached.
func (h *Handover) HasSuccessor() bool {
	return h.SuccessorEmail != ""
}
