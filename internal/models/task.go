package models

import "time"

// Task is a single checklist item within a handover, sourced from a
// role/department template.
type Task struct {
	ID                      string     `json:"id"`
	HandoverID              string     `json:"handover_id"`
	TemplateTaskID          string     `json:"template_task_id,omitempty"`
	Title                   string     `json:"title"`
	Description             string     `json:"description"`
	Category                string     `json:"category"`
	Status                  string     `json:"status"`   // pending, completed
	Priority                string     `json:"priority"` // low, medium, high, critical
	Notes                   string     `json:"notes"`
	DueDate                 *time.Time `json:"due_date,omitempty"`
	SuccessorAcknowledged   bool       `json:"successor_acknowledged"`
	SuccessorAcknowledgedAt *time.Time `json:"successor_acknowledged_at,omitempty"`
	Insights                []TaskInsight `json:"insights,omitempty"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

// Task status constants
const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

// Task priority constants
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// TaskNote is a single note record belonging to a task, kept in creation
// order. The projected task view joins all note contents together.
type TaskNote struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskInsight is a free-form knowledge entry attached to a task. The list is
// append-only; entries are edited in place by id.
type TaskInsight struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	Topic       string    `json:"topic"`
	Content     string    `json:"content"`
	Attachments []string  `json:"attachments,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
