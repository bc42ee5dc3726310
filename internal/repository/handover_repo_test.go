package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"handoverhub/internal/models"
	"handoverhub/pkg/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.NewMigrator(db, logger).Run("../../migrations"))
	return db
}

func seedHandover(t *testing.T, repo *HandoverRepository, id, successorEmail string) {
	t.Helper()
	require.NoError(t, repo.Create(nil, &models.Handover{
		ID:                   id,
		ExitingEmployeeID:    "emp-" + id,
		ExitingEmployeeEmail: id + "@example.com",
		ExitingEmployeeName:  "Employee " + id,
		SuccessorEmail:       successorEmail,
		Department:           "Sales",
		Status:               models.HandoverStatusPending,
	}))
}

func TestHandoverCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewHandoverRepository(db.DB, zap.NewNop())

	seedHandover(t, repo, "ho-1", "sam@example.com")

	got, err := repo.GetByID("ho-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Employee ho-1", got.ExitingEmployeeName)
	assert.Equal(t, models.HandoverStatusPending, got.Status)
	assert.True(t, got.HasSuccessor())
	assert.False(t, got.CreatedAt.IsZero())

	missing, err := repo.GetByID("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestHandoverAssignSuccessorAndProgress(t *testing.T) {
	db := newTestDB(t)
	repo := NewHandoverRepository(db.DB, zap.NewNop())

	seedHandover(t, repo, "ho-1", "")

	require.NoError(t, repo.AssignSuccessor(nil, "ho-1", "succ-1", "sam@example.com", "Sam Lee"))
	require.NoError(t, repo.UpdateProgress(nil, "ho-1", 50, 4, 2))

	got, err := repo.GetByID("ho-1")
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", got.SuccessorEmail)
	assert.Equal(t, 50, got.Progress)
	assert.Equal(t, 4, got.TaskCount)
	assert.Equal(t, 2, got.CompletedTasks)
}

func TestHandoverApprovalFields(t *testing.T) {
	db := newTestDB(t)
	repo := NewHandoverRepository(db.DB, zap.NewNop())

	seedHandover(t, repo, "ho-1", "sam@example.com")

	at := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SetApproval(nil, "ho-1", "mgr-1", at))
	require.NoError(t, repo.UpdateAIInsight(nil, "ho-1", models.RiskLevelHigh, "Assign a successor soon"))

	got, err := repo.GetByID("ho-1")
	require.NoError(t, err)
	assert.Equal(t, "mgr-1", got.ApprovedBy)
	require.NotNil(t, got.ApprovedAt)
	assert.Equal(t, models.RiskLevelHigh, got.AIRiskLevel)
	assert.Equal(t, "Assign a successor soon", got.AIRecommendation)
}

func TestTaskCountsAndTemplateCheck(t *testing.T) {
	db := newTestDB(t)
	logger := zap.NewNop()
	handovers := NewHandoverRepository(db.DB, logger)
	templates := NewTemplateRepository(db.DB, logger)
	tasks := NewTaskRepository(db.DB, logger)

	seedHandover(t, handovers, "ho-1", "sam@example.com")
	require.NoError(t, templates.Create(nil, &models.ChecklistTemplate{ID: "tpl-1", Name: "Checklist"}, []models.TemplateTask{
		{ID: "tt-1", TemplateID: "tpl-1", Title: "Task one", Position: 1},
		{ID: "tt-2", TemplateID: "tpl-1", Title: "Task two", Position: 2},
	}))

	applied, err := tasks.HasTemplateTasks("ho-1", "tpl-1")
	require.NoError(t, err)
	assert.False(t, applied)

	require.NoError(t, tasks.Create(nil, &models.Task{ID: "t-1", HandoverID: "ho-1", TemplateTaskID: "tt-1", Title: "Task one", Status: models.TaskStatusPending}))
	require.NoError(t, tasks.Create(nil, &models.Task{ID: "t-2", HandoverID: "ho-1", TemplateTaskID: "tt-2", Title: "Task two", Status: models.TaskStatusPending}))

	applied, err = tasks.HasTemplateTasks("ho-1", "tpl-1")
	require.NoError(t, err)
	assert.True(t, applied)

	// Duplicate application of the same template item violates the unique
	// partial index.
	err = tasks.Create(nil, &models.Task{ID: "t-3", HandoverID: "ho-1", TemplateTaskID: "tt-1", Title: "Task one again"})
	assert.Error(t, err)

	require.NoError(t, tasks.UpdateStatus(nil, "t-1", models.TaskStatusCompleted))
	require.NoError(t, tasks.SetAcknowledged(nil, "t-1", time.Now().UTC()))

	counts, err := tasks.CountByHandover("ho-1")
	require.NoError(t, err)
	assert.Equal(t, TaskCounts{Total: 2, Completed: 1, Acknowledged: 1}, counts)
}

func TestHelpRequestPendingCounts(t *testing.T) {
	db := newTestDB(t)
	logger := zap.NewNop()
	handovers := NewHandoverRepository(db.DB, logger)
	tasks := NewTaskRepository(db.DB, logger)
	requests := NewHelpRequestRepository(db.DB, logger)

	seedHandover(t, handovers, "ho-1", "sam@example.com")
	require.NoError(t, tasks.Create(nil, &models.Task{ID: "t-1", HandoverID: "ho-1", Title: "Task one", Status: models.TaskStatusPending}))

	for _, id := range []string{"hr-1", "hr-2"} {
		require.NoError(t, requests.Create(nil, &models.HelpRequest{
			ID:          id,
			TaskID:      "t-1",
			HandoverID:  "ho-1",
			RequesterID: "succ-1",
			RequestType: models.RequestTypeEmployee,
			Message:     "question " + id,
			Status:      models.HelpRequestStatusPending,
		}))
	}
	require.NoError(t, requests.SetReplied(nil, "hr-1", "answer", time.Now().UTC()))

	counts, err := requests.CountPendingByHandover()
	require.NoError(t, err)
	assert.Equal(t, 1, counts["ho-1"])
}

func TestInsightAttachmentsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	logger := zap.NewNop()
	handovers := NewHandoverRepository(db.DB, logger)
	tasks := NewTaskRepository(db.DB, logger)
	insights := NewInsightRepository(db.DB, logger)

	seedHandover(t, handovers, "ho-1", "")
	require.NoError(t, tasks.Create(nil, &models.Task{ID: "t-1", HandoverID: "ho-1", Title: "Task one"}))

	require.NoError(t, insights.Create(nil, &models.TaskInsight{
		ID:          "ins-1",
		TaskID:      "t-1",
		Topic:       "Key accounts",
		Content:     "Acme renews in Q4",
		Attachments: []string{"acme.pdf"},
	}))

	list, err := insights.ListByTask("t-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"acme.pdf"}, list[0].Attachments)

	require.NoError(t, insights.Update(nil, "ins-1", "Key accounts", "Acme renews in Q3", nil))
	err = insights.Update(nil, "missing", "x", "y", nil)
	assert.Error(t, err)
}
