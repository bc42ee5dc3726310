package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"handoverhub/internal/models"
)

// TemplateRepository handles checklist template database operations
type TemplateRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *sql.DB, logger *zap.Logger) *TemplateRepository {
	return &TemplateRepository{db: db, logger: logger}
}

// Create inserts a template together with its tasks
func (r *TemplateRepository) Create(tx *sql.Tx, tpl *models.ChecklistTemplate, tasks []models.TemplateTask) error {
	query := `INSERT INTO checklist_templates (id, name, role, department) VALUES (?, ?, ?, ?)`
	if _, err := exec(tx, r.db, query, tpl.ID, tpl.Name, tpl.Role, tpl.Department); err != nil {
		r.logger.Error("Failed to create template", zap.String("id", tpl.ID), zap.Error(err))
		return fmt.Errorf("failed to create template: %w", err)
	}
	for _, task := range tasks {
		taskQuery := `
			INSERT INTO template_tasks (id, template_id, title, description, category, priority, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`
		if _, err := exec(tx, r.db, taskQuery,
			task.ID, tpl.ID, task.Title, task.Description, task.Category, task.Priority, task.Position); err != nil {
			return fmt.Errorf("failed to create template task: %w", err)
		}
	}
	return nil
}

// GetByID retrieves a template by ID; returns nil when not found
func (r *TemplateRepository) GetByID(id string) (*models.ChecklistTemplate, error) {
	var tpl models.ChecklistTemplate
	err := r.db.QueryRow(`
		SELECT id, name, role, department, created_at FROM checklist_templates WHERE id = ?
	`, id).Scan(&tpl.ID, &tpl.Name, &tpl.Role, &tpl.Department, &tpl.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get template", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return &tpl, nil
}

// List retrieves all templates
func (r *TemplateRepository) List() ([]models.ChecklistTemplate, error) {
	rows, err := r.db.Query(`SELECT id, name, role, department, created_at FROM checklist_templates ORDER BY name`)
	if err != nil {
		r.logger.Error("Failed to list templates", zap.Error(err))
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []models.ChecklistTemplate
	for rows.Next() {
		var tpl models.ChecklistTemplate
		if err := rows.Scan(&tpl.ID, &tpl.Name, &tpl.Role, &tpl.Department, &tpl.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}

// ListTasks retrieves a template's tasks in position order
func (r *TemplateRepository) ListTasks(templateID string) ([]models.TemplateTask, error) {
	rows, err := r.db.Query(`
		SELECT id, template_id, title, description, category, priority, position
		FROM template_tasks WHERE template_id = ? ORDER BY position, id
	`, templateID)
	if err != nil {
		r.logger.Error("Failed to list template tasks", zap.String("template_id", templateID), zap.Error(err))
		return nil, fmt.Errorf("failed to list template tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.TemplateTask
	for rows.Next() {
		var task models.TemplateTask
		if err := rows.Scan(&task.ID, &task.TemplateID, &task.Title, &task.Description,
			&task.Category, &task.Priority, &task.Position); err != nil {
			return nil, fmt.Errorf("failed to scan template task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
