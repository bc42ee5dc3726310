package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"handoverhub/internal/models"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"pending passes through", "pending", "pending"},
		{"completed passes through", "completed", "completed"},
		{"legacy done maps to completed", "done", "completed"},
		{"legacy critical maps to pending", "critical", "pending"},
		{"unknown maps to pending", "blocked", "pending"},
		{"empty maps to pending", "", "pending"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeStatus(tt.raw))
		})
	}
}

func TestNormalizeStatus_Idempotent(t *testing.T) {
	for _, raw := range []string{"pending", "completed", "done", "critical", "anything"} {
		once := NormalizeStatus(raw)
		assert.Equal(t, once, NormalizeStatus(once), "normalizing %q twice", raw)
	}
}

func TestDerivePriority(t *testing.T) {
	tests := []struct {
		rawStatus string
		expected  string
	}{
		{"critical", "critical"},
		{"done", "medium"},
		{"pending", "high"},
		{"completed", "medium"},
		{"", "medium"},
	}

	for _, tt := range tests {
		t.Run(tt.rawStatus, func(t *testing.T) {
			assert.Equal(t, tt.expected, DerivePriority(tt.rawStatus))
		})
	}
}

func TestDeriveCategory(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{"client keyword", "Introduce key client accounts", CategoryClientManagement},
		{"crm keyword", "Export CRM contacts", CategorySystemsTools},
		{"system keyword", "Document system access", CategorySystemsTools},
		{"risk keyword", "Risk register walkthrough", CategoryStrategicPlanning},
		{"strategy keyword", "2026 strategy deck", CategoryStrategicPlanning},
		{"team keyword", "Team structure overview", CategoryRelationships},
		{"introduction keyword", "Stakeholder introductions", CategoryRelationships},
		{"no keyword", "Return laptop", CategoryGeneral},
		{"case insensitive", "CLIENT escalation paths", CategoryClientManagement},
		// "client" is listed before "system", so it wins on a mixed title
		{"first rule wins", "Client system overview", CategoryClientManagement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveCategory(tt.title))
		})
	}
}

func TestJoinNotes(t *testing.T) {
	notes := []models.TaskNote{
		{Content: "first note"},
		{Content: "second note"},
		{Content: "third"},
	}
	assert.Equal(t, "first note\n\nsecond note\n\nthird", JoinNotes(notes))
	assert.Equal(t, "", JoinNotes(nil))
}

func TestProject(t *testing.T) {
	now := time.Now()
	raw := models.Task{
		ID:         "t-1",
		HandoverID: "h-1",
		Title:      "Introduce client portfolio",
		Status:     "done",
		CreatedAt:  now,
	}
	notes := []models.TaskNote{
		{Content: "met with account team"},
		{Content: "slides shared"},
	}

	task := Project(raw, notes)

	assert.Equal(t, "completed", task.Status)
	assert.Equal(t, "medium", task.Priority, "priority derived from raw status")
	assert.Equal(t, CategoryClientManagement, task.Category)
	assert.Equal(t, "met with account team\n\nslides shared", task.Notes)
	assert.Equal(t, "t-1", task.ID)
}

func TestProject_ExplicitFieldsWin(t *testing.T) {
	raw := models.Task{
		Title:    "Introduce client portfolio",
		Status:   "pending",
		Priority: "low",
		Category: "Offboarding",
	}

	task := Project(raw, nil)

	assert.Equal(t, "low", task.Priority, "stored priority is not overwritten")
	assert.Equal(t, "Offboarding", task.Category, "stored category is not overwritten")
}
