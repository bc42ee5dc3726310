package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"handoverhub/internal/models"
	"handoverhub/internal/repository"
	"handoverhub/pkg/database"
)

// TemplateService manages role/department checklist templates and their
// application to handovers.
type TemplateService struct {
	db        *database.DB
	templates *repository.TemplateRepository
	tasks     *repository.TaskRepository
	handovers *HandoverService
	logger    *zap.Logger
}

// NewTemplateService creates a new template service
func NewTemplateService(
	db *database.DB,
	templates *repository.TemplateRepository,
	tasks *repository.TaskRepository,
	handovers *HandoverService,
	logger *zap.Logger,
) *TemplateService {
	return &TemplateService{
		db:        db,
		templates: templates,
		tasks:     tasks,
		handovers: handovers,
		logger:    logger,
	}
}

// List retrieves all checklist templates.
func (s *TemplateService) List(ctx context.Context) ([]models.ChecklistTemplate, error) {
	return s.templates.List()
}

// CreateTemplateInput holds a template definition with its checklist items.
type CreateTemplateInput struct {
	Name       string
	Role       string
	Department string
	Tasks      []models.TemplateTask
}

// Create stores a new checklist template.
func (s *TemplateService) Create(ctx context.Context, in CreateTemplateInput) (*models.ChecklistTemplate, error) {
	tpl := &models.ChecklistTemplate{
		ID:         uuid.NewString(),
		Name:       in.Name,
		Role:       in.Role,
		Department: in.Department,
	}
	tasks := make([]models.TemplateTask, len(in.Tasks))
	for i, t := range in.Tasks {
		t.ID = uuid.NewString()
		t.TemplateID = tpl.ID
		if t.Position == 0 {
			t.Position = i + 1
		}
		tasks[i] = t
	}

	err := s.db.WithTransaction(func(tx *sql.Tx) error {
		return s.templates.Create(tx, tpl, tasks)
	})
	if err != nil {
		return nil, err
	}
	return s.templates.GetByID(tpl.ID)
}

// Apply copies a template's checklist items onto a handover. Application is
// idempotent: re-applying a template that already seeded the handover is a
// no-op and never duplicates tasks.
func (s *TemplateService) Apply(ctx context.Context, handoverID, templateID, actorID string) (int, error) {
	if _, err := s.handovers.Get(ctx, handoverID); err != nil {
		return 0, err
	}

	tpl, err := s.templates.GetByID(templateID)
	if err != nil {
		return 0, err
	}
	if tpl == nil {
		return 0, fmt.Errorf("%w: template %s", ErrNotFound, templateID)
	}

	applied, err := s.tasks.HasTemplateTasks(handoverID, templateID)
	if err != nil {
		return 0, err
	}
	if applied {
		s.logger.Debug("Template already applied",
			zap.String("handover_id", handoverID),
			zap.String("template_id", templateID))
		return 0, nil
	}

	items, err := s.templates.ListTasks(templateID)
	if err != nil {
		return 0, err
	}

	created := 0
	err = s.db.WithTransaction(func(tx *sql.Tx) error {
		for _, item := range items {
			task := &models.Task{
				ID:             uuid.NewString(),
				HandoverID:     handoverID,
				TemplateTaskID: item.ID,
				Title:          item.Title,
				Description:    item.Description,
				Category:       item.Category,
				Status:         models.TaskStatusPending,
				Priority:       item.Priority,
			}
			if err := s.tasks.Create(tx, task); err != nil {
				return err
			}
			created++
		}
		return s.handovers.recordActivity(tx, handoverID, actorID, models.ActionTemplateApplied, tpl.Name)
	})
	if err != nil {
		return 0, err
	}
	if err := s.handovers.RefreshProgress(ctx, handoverID); err != nil {
		return 0, err
	}

	s.logger.Info("Template applied",
		zap.String("handover_id", handoverID),
		zap.String("template_id", templateID),
		zap.Int("task_count", created))
	return created, nil
}
