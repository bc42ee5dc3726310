package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"handoverhub/internal/domain/lifecycle"
	"handoverhub/internal/models"
	"handoverhub/internal/notify"
	"handoverhub/internal/repository"
	"handoverhub/pkg/database"
)

// HelpService routes successor questions to the exiting employee or a
// manager and walks each request through its pending -> replied -> resolved
// lifecycle.
type HelpService struct {
	db        *database.DB
	requests  *repository.HelpRequestRepository
	handovers *HandoverService
	tasks     *repository.TaskRepository
	notifier  notify.Notifier
	logger    *zap.Logger
}

func NewHelpService(
	db *database.DB,
	requests *repository.HelpRequestRepository,
	handovers *HandoverService,
	tasks *repository.TaskRepository,
	notifier notify.Notifier,
	logger *zap.Logger,
) *HelpService {
	return &HelpService{
		db:        db,
		requests:  requests,
		handovers: handovers,
		tasks:     tasks,
		notifier:  notifier,
		logger:    logger,
	}
}

// CreateHelpRequestInput carries the fields for opening a help request.
type CreateHelpRequestInput struct {
	TaskID      string
	RequesterID string
	RequestType string // employee or manager
	Message     string
}

// Create opens a help request against a task. The request starts pending and
// a notification is posted so the target sees it without polling.
func (s *HelpService) Create(ctx context.Context, in CreateHelpRequestInput) (*models.HelpRequest, error) {
	if in.RequestType != models.RequestTypeEmployee && in.RequestType != models.RequestTypeManager {
		return nil, fmt.Errorf("unknown request type %q", in.RequestType)
	}

	task, err := s.tasks.GetByID(in.TaskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("%w: task %s", ErrNotFound, in.TaskID)
	}

	handover, err := s.handovers.Get(ctx, task.HandoverID)
	if err != nil {
		return nil, err
	}

	req := &models.HelpRequest{
		ID:          uuid.NewString(),
		TaskID:      in.TaskID,
		HandoverID:  task.HandoverID,
		RequesterID: in.RequesterID,
		RequestType: in.RequestType,
		Message:     in.Message,
		Status:      models.HelpRequestStatusPending,
	}
	err = s.db.WithTransaction(func(tx *sql.Tx) error {
		if err := s.requests.Create(tx, req); err != nil {
			return err
		}
		return s.handovers.recordActivity(tx, task.HandoverID, in.RequesterID, models.ActionHelpRequested, task.Title)
	})
	if err != nil {
		return nil, err
	}

	// Notification failures never fail the request itself.
	if err := s.notifier.HelpRequestOpened(ctx, handover.ExitingEmployeeName, in.RequestType, in.Message); err != nil {
		s.logger.Warn("Help request notification failed",
			zap.String("request_id", req.ID),
			zap.Error(err))
	}

	s.logger.Info("Help request opened",
		zap.String("request_id", req.ID),
		zap.String("handover_id", task.HandoverID),
		zap.String("type", in.RequestType))
	return req, nil
}

// ListByHandover returns all help requests for a handover, newest first.
func (s *HelpService) ListByHandover(ctx context.Context, handoverID string) ([]models.HelpRequest, error) {
	return s.requests.ListByHandover(handoverID)
}

// Respond records the target's answer, moving the request to replied.
func (s *HelpService) Respond(ctx context.Context, requestID, responderID, response string) error {
	req, err := s.requests.GetByID(requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return fmt.Errorf("%w: help request %s", ErrNotFound, requestID)
	}

	machine, err := lifecycle.NewHelpRequestMachine(lifecycle.State(req.Status))
	if err != nil {
		return err
	}
	if err := machine.Fire(ctx, lifecycle.TriggerRespond); err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.db.WithTransaction(func(tx *sql.Tx) error {
		if err := s.requests.SetReplied(tx, requestID, response, now); err != nil {
			return err
		}
		return s.handovers.recordActivity(tx, req.HandoverID, responderID, models.ActionHelpReplied, req.Message)
	})
}

// Resolve closes a replied request. Resolved is terminal.
func (s *HelpService) Resolve(ctx context.Context, requestID, actorID string) error {
	req, err := s.requests.GetByID(requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return fmt.Errorf("%w: help request %s", ErrNotFound, requestID)
	}

	machine, err := lifecycle.NewHelpRequestMachine(lifecycle.State(req.Status))
	if err != nil {
		return err
	}
	if err := machine.Fire(ctx, lifecycle.TriggerResolve); err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.db.WithTransaction(func(tx *sql.Tx) error {
		if err := s.requests.SetResolved(tx, requestID, now); err != nil {
			return err
		}
		return s.handovers.recordActivity(tx, req.HandoverID, actorID, models.ActionHelpResolved, req.Message)
	})
}

// PendingCounts returns the number of open help requests per handover, used
// for dashboard badges.
func (s *HelpService) PendingCounts(ctx context.Context) (map[string]int, error) {
	return s.requests.CountPendingByHandover()
}
