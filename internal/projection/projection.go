// Package projection maps raw task rows into the normalized task view model
// consumed identically by the employee, successor, and manager dashboards.
// Every function is pure; malformed or missing fields resolve through
// deterministic fallbacks, never errors.
package projection

import (
	"strings"

	"handoverhub/internal/models"
)

// Category labels produced by the keyword backfill.
const (
	CategoryClientManagement  = "Client Management"
	CategorySystemsTools      = "Systems & Tools"
	CategoryStrategicPlanning = "Strategic Planning"
	CategoryRelationships     = "Relationships"
	CategoryGeneral           = "General"
)

// NormalizeStatus maps any stored status value to exactly "pending" or
// "completed". The legacy "done" value maps to completed; every other
// unrecognized string maps to pending. Already-normalized values pass
// through unchanged.
func NormalizeStatus(raw string) string {
	switch raw {
	case models.TaskStatusPending, models.TaskStatusCompleted:
		return raw
	case "done":
		return models.TaskStatusCompleted
	default:
		return models.TaskStatusPending
	}
}

// DerivePriority backfills a priority from a raw status string for rows that
// predate the explicit priority column. The mapping is a legacy heuristic
// carried over for behavioral parity, not a true priority signal.
func DerivePriority(rawStatus string) string {
	switch rawStatus {
	case "critical":
		return models.PriorityCritical
	case "done":
		return models.PriorityMedium
	case "pending":
		return models.PriorityHigh
	default:
		return models.PriorityMedium
	}
}

// categoryRule pairs title keywords with the category they imply. Rules are
// evaluated in order; the first keyword hit wins.
type categoryRule struct {
	keywords []string
	category string
}

var categoryRules = []categoryRule{
	{[]string{"client"}, CategoryClientManagement},
	{[]string{"crm", "system"}, CategorySystemsTools},
	{[]string{"risk", "strategy"}, CategoryStrategicPlanning},
	{[]string{"team", "introduction"}, CategoryRelationships},
}

// DeriveCategory backfills a category by case-insensitive keyword matching on
// the task title, for rows with no explicit category.
func DeriveCategory(title string) string {
	lower := strings.ToLower(title)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return CategoryGeneral
}

// JoinNotes concatenates note contents with a double newline, in ascending
// creation order. Notes are assumed already ordered by the repository.
func JoinNotes(notes []models.TaskNote) string {
	parts := make([]string, 0, len(notes))
	for _, n := range notes {
		parts = append(parts, n.Content)
	}
	return strings.Join(parts, "\n\n")
}

// Project converts a raw task row plus its ordered notes into the normalized
// view model. Explicit priority/category fields win; derivation applies only
// when they are empty.
func Project(raw models.Task, notes []models.TaskNote) models.Task {
	task := raw
	rawStatus := raw.Status
	task.Status = NormalizeStatus(rawStatus)
	if task.Priority == "" {
		task.Priority = DerivePriority(rawStatus)
	}
	if task.Category == "" {
		task.Category = DeriveCategory(raw.Title)
	}
	task.Notes = JoinNotes(notes)
	return task
}
