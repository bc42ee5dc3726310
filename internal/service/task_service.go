package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"handoverhub/internal/models"
	"handoverhub/internal/projection"
	"handoverhub/internal/repository"
	"handoverhub/pkg/database"
)

// TaskService manages checklist task mutations: status toggles, notes,
// insights, and the successor acknowledgment.
type TaskService struct {
	db        *database.DB
	tasks     *repository.TaskRepository
	notes     *repository.NoteRepository
	insights  *repository.InsightRepository
	handovers *HandoverService
	logger    *zap.Logger
}

// NewTaskService creates a new task service
func NewTaskService(
	db *database.DB,
	tasks *repository.TaskRepository,
	notes *repository.NoteRepository,
	insights *repository.InsightRepository,
	handovers *HandoverService,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		db:        db,
		tasks:     tasks,
		notes:     notes,
		insights:  insights,
		handovers: handovers,
		logger:    logger,
	}
}

// Get retrieves the projected view of a task: normalized status, backfilled
// priority/category, joined notes, and its insight list.
func (s *TaskService) Get(ctx context.Context, id string) (*models.Task, error) {
	raw, err := s.tasks.GetByID(id)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: task %s", ErrNotFound, id)
	}

	notes, err := s.notes.ListByTask(id)
	if err != nil {
		return nil, err
	}
	task := projection.Project(*raw, notes)

	insights, err := s.insights.ListByTask(id)
	if err != nil {
		return nil, err
	}
	task.Insights = insights
	return &task, nil
}

// ListByHandover retrieves all projected tasks for a handover.
func (s *TaskService) ListByHandover(ctx context.Context, handoverID string) ([]models.Task, error) {
	raw, err := s.tasks.ListByHandover(handoverID)
	if err != nil {
		return nil, err
	}

	tasks := make([]models.Task, 0, len(raw))
	for _, t := range raw {
		notes, err := s.notes.ListByTask(t.ID)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, projection.Project(t, notes))
	}
	return tasks, nil
}

// SetStatus toggles a task between pending and completed, then refreshes the
// handover's derived progress.
func (s *TaskService) SetStatus(ctx context.Context, taskID, status, actorID string) error {
	task, err := s.tasks.GetByID(taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("%w: task %s", ErrNotFound, taskID)
	}

	normalized := projection.NormalizeStatus(status)
	action := models.ActionTaskReopened
	if normalized == models.TaskStatusCompleted {
		action = models.ActionTaskCompleted
	}

	err = s.db.WithTransaction(func(tx *sql.Tx) error {
		if err := s.tasks.UpdateStatus(tx, taskID, normalized); err != nil {
			return err
		}
		return s.recordActivity(tx, task.HandoverID, actorID, action, task.Title)
	})
	if err != nil {
		return err
	}
	return s.handovers.RefreshProgress(ctx, task.HandoverID)
}

// Acknowledge records the successor's confirmation that a completed task's
// knowledge has been reviewed. Acknowledging a non-completed task is
// rejected.
func (s *TaskService) Acknowledge(ctx context.Context, taskID, successorID string) error {
	task, err := s.tasks.GetByID(taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("%w: task %s", ErrNotFound, taskID)
	}
	if projection.NormalizeStatus(task.Status) != models.TaskStatusCompleted {
		return fmt.Errorf("%w: task %s is %s", ErrTaskNotCompleted, taskID, task.Status)
	}
	if task.SuccessorAcknowledged {
		return nil
	}

	now := time.Now().UTC()
	return s.db.WithTransaction(func(tx *sql.Tx) error {
		if err := s.tasks.SetAcknowledged(tx, taskID, now); err != nil {
			return err
		}
		return s.recordActivity(tx, task.HandoverID, successorID, models.ActionTaskAcknowledged, task.Title)
	})
}

// AddNote appends a note to a task.
func (s *TaskService) AddNote(ctx context.Context, taskID, authorID, content string) (*models.TaskNote, error) {
	task, err := s.tasks.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("%w: task %s", ErrNotFound, taskID)
	}

	note := &models.TaskNote{
		ID:       uuid.NewString(),
		TaskID:   taskID,
		AuthorID: authorID,
		Content:  content,
	}
	if err := s.notes.Create(nil, note); err != nil {
		return nil, err
	}
	return note, nil
}

// AddInsight appends a knowledge entry to a task.
func (s *TaskService) AddInsight(ctx context.Context, taskID, actorID, topic, content string, attachments []string) (*models.TaskInsight, error) {
	task, err := s.tasks.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("%w: task %s", ErrNotFound, taskID)
	}

	ins := &models.TaskInsight{
		ID:          uuid.NewString(),
		TaskID:      taskID,
		Topic:       topic,
		Content:     content,
		Attachments: attachments,
	}
	err = s.db.WithTransaction(func(tx *sql.Tx) error {
		if err := s.insights.Create(tx, ins); err != nil {
			return err
		}
		return s.recordActivity(tx, task.HandoverID, actorID, models.ActionInsightAdded, topic)
	})
	if err != nil {
		return nil, err
	}
	return ins, nil
}

// UpdateDetailsInput carries the editable task fields.
type UpdateDetailsInput struct {
	Description string
	Category    string
	Priority    string
	DueDate     *time.Time
}

// UpdateDetails edits the descriptive task fields. Explicitly set category
// and priority stick; the projection only derives them when empty.
func (s *TaskService) UpdateDetails(ctx context.Context, taskID string, in UpdateDetailsInput) error {
	task, err := s.tasks.GetByID(taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("%w: task %s", ErrNotFound, taskID)
	}
	return s.tasks.UpdateDetails(nil, taskID, in.Description, in.Category, in.Priority, in.DueDate)
}

// UpdateInsight edits an existing insight in place by id.
func (s *TaskService) UpdateInsight(ctx context.Context, insightID, topic, content string, attachments []string) error {
	return s.insights.Update(nil, insightID, topic, content, attachments)
}

func (s *TaskService) recordActivity(tx *sql.Tx, handoverID, actorID, action, detail string) error {
	return s.handovers.recordActivity(tx, handoverID, actorID, action, detail)
}
