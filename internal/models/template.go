package models

import "time"

// ChecklistTemplate is a role/department-specific set of checklist items
// applied once per handover.
type ChecklistTemplate struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
}

// TemplateTask is a single checklist item inside a template. Application
// copies it into a concrete Task on the handover.
type TemplateTask struct {
	ID          string `json:"id"`
	TemplateID  string `json:"template_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Position    int    `json:"position"`
}
