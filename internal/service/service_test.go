package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"handoverhub/internal/domain/lifecycle"
	"handoverhub/internal/models"
	"handoverhub/internal/notify"
	"handoverhub/internal/report"
	"handoverhub/internal/repository"
	"handoverhub/pkg/database"
)

// testEnv wires the full service stack against a temporary SQLite file.
type testEnv struct {
	db        *database.DB
	handovers *HandoverService
	tasks     *TaskService
	templates *TemplateService
	help      *HelpService
	reports   *ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	migrator := database.NewMigrator(db, logger)
	require.NoError(t, migrator.Run("../../migrations"))

	handoverRepo := repository.NewHandoverRepository(db.DB, logger)
	taskRepo := repository.NewTaskRepository(db.DB, logger)
	noteRepo := repository.NewNoteRepository(db.DB, logger)
	insightRepo := repository.NewInsightRepository(db.DB, logger)
	templateRepo := repository.NewTemplateRepository(db.DB, logger)
	helpRepo := repository.NewHelpRequestRepository(db.DB, logger)
	activityRepo := repository.NewActivityRepository(db.DB, logger)

	handoverSvc := NewHandoverService(db, handoverRepo, taskRepo, activityRepo, logger)
	return &testEnv{
		db:        db,
		handovers: handoverSvc,
		tasks:     NewTaskService(db, taskRepo, noteRepo, insightRepo, handoverSvc, logger),
		templates: NewTemplateService(db, templateRepo, taskRepo, handoverSvc, logger),
		help:      NewHelpService(db, helpRepo, handoverSvc, taskRepo, notify.NoopNotifier{}, logger),
		reports:   NewReportService(handoverRepo, helpRepo, report.NewExcelExporter(logger), logger),
	}
}

func (e *testEnv) createHandover(t *testing.T, successorEmail string) *models.Handover {
	t.Helper()
	h, err := e.handovers.Create(context.Background(), CreateHandoverInput{
		ExitingEmployeeID:    "emp-1",
		ExitingEmployeeEmail: "alex@example.com",
		ExitingEmployeeName:  "Alex Doe",
		SuccessorEmail:       successorEmail,
		Department:           "Sales",
	}, "mgr-1")
	require.NoError(t, err)
	return h
}

func (e *testEnv) createTemplate(t *testing.T, titles ...string) *models.ChecklistTemplate {
	t.Helper()
	tasks := make([]models.TemplateTask, len(titles))
	for i, title := range titles {
		tasks[i] = models.TemplateTask{Title: title, Priority: models.PriorityMedium, Category: "General"}
	}
	tpl, err := e.templates.Create(context.Background(), CreateTemplateInput{
		Name:  "Sales exit checklist",
		Role:  "account-manager",
		Tasks: tasks,
	})
	require.NoError(t, err)
	return tpl
}

func TestCreateHandoverStartsPending(t *testing.T) {
	env := newTestEnv(t)
	h := env.createHandover(t, "")

	assert.Equal(t, models.HandoverStatusPending, h.Status)
	assert.Equal(t, 0, h.Progress)
	assert.False(t, h.HasSuccessor())

	activities, err := env.handovers.ListActivity(context.Background(), h.ID, 10)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, models.ActionHandoverCreated, activities[0].Action)
}

func TestTemplateApplicationIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	h := env.createHandover(t, "sam@example.com")
	tpl := env.createTemplate(t, "Client relationship overview", "CRM walkthrough")

	created, err := env.templates.Apply(ctx, h.ID, tpl.ID, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	// Re-application must not duplicate tasks.
	created, err = env.templates.Apply(ctx, h.ID, tpl.ID, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	tasks, err := env.tasks.ListByHandover(ctx, h.ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	got, err := env.handovers.Get(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TaskCount)
}

func TestCompletingTasksDrivesProgress(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	h := env.createHandover(t, "sam@example.com")
	tpl := env.createTemplate(t, "Task one", "Task two", "Task three")
	_, err := env.templates.Apply(ctx, h.ID, tpl.ID, "emp-1")
	require.NoError(t, err)

	tasks, err := env.tasks.ListByHandover(ctx, h.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	require.NoError(t, env.tasks.SetStatus(ctx, tasks[0].ID, "done", "emp-1"))

	got, err := env.handovers.Get(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 33, got.Progress)
	assert.Equal(t, 1, got.CompletedTasks)
	// First completed task moves a pending handover to in-progress.
	assert.Equal(t, models.HandoverStatusInProgress, got.Status)

	// Reopening drops the progress back.
	require.NoError(t, env.tasks.SetStatus(ctx, tasks[0].ID, "pending", "emp-1"))
	got, err = env.handovers.Get(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Progress)
	assert.Equal(t, models.HandoverStatusInProgress, got.Status)
}

func TestAcknowledgeRequiresCompletedTask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	h := env.createHandover(t, "sam@example.com")
	tpl := env.createTemplate(t, "Task one")
	_, err := env.templates.Apply(ctx, h.ID, tpl.ID, "emp-1")
	require.NoError(t, err)

	tasks, err := env.tasks.ListByHandover(ctx, h.ID)
	require.NoError(t, err)
	taskID := tasks[0].ID

	err = env.tasks.Acknowledge(ctx, taskID, "succ-1")
	assert.ErrorIs(t, err, ErrTaskNotCompleted)

	require.NoError(t, env.tasks.SetStatus(ctx, taskID, "completed", "emp-1"))
	require.NoError(t, env.tasks.Acknowledge(ctx, taskID, "succ-1"))

	// Acknowledging twice is a no-op, not an error.
	require.NoError(t, env.tasks.Acknowledge(ctx, taskID, "succ-1"))

	got, err := env.tasks.Get(ctx, taskID)
	require.NoError(t, err)
	assert.True(t, got.SuccessorAcknowledged)
	require.NotNil(t, got.SuccessorAcknowledgedAt)
}

func TestApprovalGuard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	h := env.createHandover(t, "sam@example.com")
	tpl := env.createTemplate(t, "Task one", "Task two")
	_, err := env.templates.Apply(ctx, h.ID, tpl.ID, "emp-1")
	require.NoError(t, err)

	tasks, err := env.tasks.ListByHandover(ctx, h.ID)
	require.NoError(t, err)

	// Complete both tasks but only acknowledge one, submit for review.
	for _, task := range tasks {
		require.NoError(t, env.tasks.SetStatus(ctx, task.ID, "completed", "emp-1"))
	}
	require.NoError(t, env.tasks.Acknowledge(ctx, tasks[0].ID, "succ-1"))
	require.NoError(t, env.handovers.SubmitForReview(ctx, h.ID, "emp-1"))

	err = env.handovers.Approve(ctx, h.ID, "mgr-1")
	assert.ErrorIs(t, err, ErrTasksOutstanding)

	require.NoError(t, env.tasks.Acknowledge(ctx, tasks[1].ID, "succ-1"))
	require.NoError(t, env.handovers.Approve(ctx, h.ID, "mgr-1"))

	got, err := env.handovers.Get(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, models.HandoverStatusCompleted, got.Status)
	assert.Equal(t, "mgr-1", got.ApprovedBy)
	require.NotNil(t, got.ApprovedAt)

	// Completed handovers reject successor changes.
	err = env.handovers.AssignSuccessor(ctx, h.ID, "succ-2", "new@example.com", "New Successor", "mgr-1")
	assert.ErrorIs(t, err, ErrHandoverClosed)
}

func TestReviewReopen(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	h := env.createHandover(t, "sam@example.com")
	tpl := env.createTemplate(t, "Task one")
	_, err := env.templates.Apply(ctx, h.ID, tpl.ID, "emp-1")
	require.NoError(t, err)

	tasks, err := env.tasks.ListByHandover(ctx, h.ID)
	require.NoError(t, err)
	require.NoError(t, env.tasks.SetStatus(ctx, tasks[0].ID, "completed", "emp-1"))
	require.NoError(t, env.handovers.SubmitForReview(ctx, h.ID, "emp-1"))

	require.NoError(t, env.handovers.Reopen(ctx, h.ID, "mgr-1"))
	got, err := env.handovers.Get(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, models.HandoverStatusInProgress, got.Status)

	// Reopen is only valid from review.
	err = env.handovers.Reopen(ctx, h.ID, "mgr-1")
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
}

func TestHelpRequestLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	h := env.createHandover(t, "sam@example.com")
	tpl := env.createTemplate(t, "Task one")
	_, err := env.templates.Apply(ctx, h.ID, tpl.ID, "emp-1")
	require.NoError(t, err)

	tasks, err := env.tasks.ListByHandover(ctx, h.ID)
	require.NoError(t, err)

	req, err := env.help.Create(ctx, CreateHelpRequestInput{
		TaskID:      tasks[0].ID,
		RequesterID: "succ-1",
		RequestType: models.RequestTypeEmployee,
		Message:     "Where are the renewal contracts stored?",
	})
	require.NoError(t, err)
	assert.Equal(t, models.HelpRequestStatusPending, req.Status)

	counts, err := env.help.PendingCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[h.ID])

	// Resolving before a reply skips a state and is rejected.
	err = env.help.Resolve(ctx, req.ID, "succ-1")
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)

	require.NoError(t, env.help.Respond(ctx, req.ID, "emp-1", "Shared drive, Contracts folder."))
	require.NoError(t, env.help.Resolve(ctx, req.ID, "succ-1"))

	requests, err := env.help.ListByHandover(ctx, h.ID)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, models.HelpRequestStatusResolved, requests[0].Status)
	assert.NotNil(t, requests[0].ResolvedAt)

	// Resolved is terminal.
	err = env.help.Respond(ctx, req.ID, "emp-1", "again")
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
}

func TestHelpRequestRejectsUnknownRouting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	h := env.createHandover(t, "sam@example.com")
	tpl := env.createTemplate(t, "Task one")
	_, err := env.templates.Apply(ctx, h.ID, tpl.ID, "emp-1")
	require.NoError(t, err)

	tasks, err := env.tasks.ListByHandover(ctx, h.ID)
	require.NoError(t, err)

	_, err = env.help.Create(ctx, CreateHelpRequestInput{
		TaskID:      tasks[0].ID,
		RequesterID: "succ-1",
		RequestType: "carrier-pigeon",
		Message:     "hello",
	})
	assert.Error(t, err)
}

func TestDashboardBucketsAndBadges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// One handover without a successor, one with tasks underway.
	noSucc := env.createHandover(t, "")
	withSucc := env.createHandover(t, "sam@example.com")
	tpl := env.createTemplate(t, "Task one", "Task two")
	_, err := env.templates.Apply(ctx, withSucc.ID, tpl.ID, "emp-1")
	require.NoError(t, err)

	tasks, err := env.tasks.ListByHandover(ctx, withSucc.ID)
	require.NoError(t, err)
	require.NoError(t, env.tasks.SetStatus(ctx, tasks[0].ID, "completed", "emp-1"))

	dash, err := env.reports.Dashboard(ctx)
	require.NoError(t, err)

	bucketIDs := func(hs []models.Handover) []string {
		ids := make([]string, len(hs))
		for i, h := range hs {
			ids[i] = h.ID
		}
		return ids
	}
	assert.Contains(t, bucketIDs(dash.Buckets.NoSuccessor), noSucc.ID)
	// 50% progress and in-progress means stalled.
	assert.Contains(t, bucketIDs(dash.Buckets.Stalled), withSucc.ID)
	assert.Equal(t, report.ConcernNoSuccessor, dash.PrimaryConcerns[noSucc.ID])

	require.Len(t, dash.Departments, 1)
	assert.Equal(t, "Sales", dash.Departments[0].Department)
	assert.Equal(t, 2, dash.Departments[0].Total)
}

func TestPivotRejectsUnknownDimension(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.reports.Pivot(context.Background(), []string{"department", "favoriteColor"})
	assert.ErrorIs(t, err, ErrInvalidDimension)
}

func TestTaskNotesAppearInProjectedView(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	h := env.createHandover(t, "sam@example.com")
	tpl := env.createTemplate(t, "Client meetings")
	_, err := env.templates.Apply(ctx, h.ID, tpl.ID, "emp-1")
	require.NoError(t, err)

	tasks, err := env.tasks.ListByHandover(ctx, h.ID)
	require.NoError(t, err)
	taskID := tasks[0].ID

	_, err = env.tasks.AddNote(ctx, taskID, "emp-1", "First note")
	require.NoError(t, err)
	_, err = env.tasks.AddNote(ctx, taskID, "emp-1", "Second note")
	require.NoError(t, err)

	got, err := env.tasks.Get(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, "First note\n\nSecond note", got.Notes)
}
