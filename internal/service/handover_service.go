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
	"handoverhub/internal/repository"
	"handoverhub/internal/report"
	"handoverhub/pkg/database"
)

// HandoverService manages the handover lifecycle: creation, successor
// assignment, derived progress, and the review/approval flow.
type HandoverService struct {
	db         *database.DB
	handovers  *repository.HandoverRepository
	tasks      *repository.TaskRepository
	activities *repository.ActivityRepository
	logger     *zap.Logger
}

// NewHandoverService creates a new handover service
func NewHandoverService(
	db *database.DB,
	handovers *repository.HandoverRepository,
	tasks *repository.TaskRepository,
	activities *repository.ActivityRepository,
	logger *zap.Logger,
) *HandoverService {
	return &HandoverService{
		db:         db,
		handovers:  handovers,
		tasks:      tasks,
		activities: activities,
		logger:     logger,
	}
}

// CreateHandoverInput holds the fields required to register a handover.
type CreateHandoverInput struct {
	ExitingEmployeeID    string
	ExitingEmployeeEmail string
	ExitingEmployeeName  string
	SuccessorID          string
	SuccessorEmail       string
	SuccessorName        string
	Department           string
}

// Create registers a handover for an exiting employee. The successor may be
// attached now or later.
func (s *HandoverService) Create(ctx context.Context, in CreateHandoverInput, actorID string) (*models.Handover, error) {
	h := &models.Handover{
		ID:                   uuid.NewString(),
		ExitingEmployeeID:    in.ExitingEmployeeID,
		ExitingEmployeeEmail: in.ExitingEmployeeEmail,
		ExitingEmployeeName:  in.ExitingEmployeeName,
		SuccessorID:          in.SuccessorID,
		SuccessorEmail:       in.SuccessorEmail,
		SuccessorName:        in.SuccessorName,
		Department:           in.Department,
		Status:               models.HandoverStatusPending,
	}

	err := s.db.WithTransaction(func(tx *sql.Tx) error {
		if err := s.handovers.Create(tx, h); err != nil {
			return err
		}
		return s.recordActivity(tx, h.ID, actorID, models.ActionHandoverCreated, in.ExitingEmployeeEmail)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Handover created",
		zap.String("id", h.ID),
		zap.String("department", h.Department),
		zap.Bool("has_successor", h.HasSuccessor()))
	return s.handovers.GetByID(h.ID)
}

// Get retrieves a handover by ID.
func (s *HandoverService) Get(ctx context.Context, id string) (*models.Handover, error) {
	h, err := s.handovers.GetByID(id)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, fmt.Errorf("%w: handover %s", ErrNotFound, id)
	}
	return h, nil
}

// List retrieves the full handover list.
func (s *HandoverService) List(ctx context.Context) ([]models.Handover, error) {
	return s.handovers.List()
}

// AssignSuccessor attaches a successor to an open handover.
func (s *HandoverService) AssignSuccessor(ctx context.Context, handoverID, successorID, email, name, actorID string) error {
	h, err := s.Get(ctx, handoverID)
	if err != nil {
		return err
	}
	if h.Status == models.HandoverStatusCompleted {
		return ErrHandoverClosed
	}

	return s.db.WithTransaction(func(tx *sql.Tx) error {
		if err := s.handovers.AssignSuccessor(tx, handoverID, successorID, email, name); err != nil {
			return err
		}
		return s.recordActivity(tx, handoverID, actorID, models.ActionSuccessorAssigned, email)
	})
}

// SubmitForReview moves an in-progress handover into manager review.
func (s *HandoverService) SubmitForReview(ctx context.Context, handoverID, actorID string) error {
	h, err := s.Get(ctx, handoverID)
	if err != nil {
		return err
	}

	machine, err := lifecycle.NewHandoverMachine(lifecycle.State(h.Status), nil)
	if err != nil {
		return err
	}
	if err := machine.Fire(ctx, lifecycle.TriggerSubmit); err != nil {
		return err
	}

	return s.handovers.UpdateStatus(nil, handoverID, machine.State().String())
}

// Reopen sends a handover in review back to in-progress.
func (s *HandoverService) Reopen(ctx context.Context, handoverID, actorID string) error {
	h, err := s.Get(ctx, handoverID)
	if err != nil {
		return err
	}

	machine, err := lifecycle.NewHandoverMachine(lifecycle.State(h.Status), nil)
	if err != nil {
		return err
	}
	if err := machine.Fire(ctx, lifecycle.TriggerReopen); err != nil {
		return err
	}

	return s.handovers.UpdateStatus(nil, handoverID, machine.State().String())
}

// Approve closes a handover. The guard requires every task completed and
// acknowledged by the successor; the manager approval is the final condition.
func (s *HandoverService) Approve(ctx context.Context, handoverID, managerID string) error {
	h, err := s.Get(ctx, handoverID)
	if err != nil {
		return err
	}

	counts, err := s.tasks.CountByHandover(handoverID)
	if err != nil {
		return err
	}
	allDone := counts.Total > 0 && counts.Completed == counts.Total && counts.Acknowledged == counts.Total

	machine, err := lifecycle.NewHandoverMachine(lifecycle.State(h.Status), func(ctx context.Context) bool {
		return allDone
	})
	if err != nil {
		return err
	}
	if err := machine.Fire(ctx, lifecycle.TriggerApprove); err != nil {
		if !allDone {
			return fmt.Errorf("%w: %d/%d completed, %d acknowledged",
				ErrTasksOutstanding, counts.Completed, counts.Total, counts.Acknowledged)
		}
		return err
	}

	now := time.Now().UTC()
	err = s.db.WithTransaction(func(tx *sql.Tx) error {
		if err := s.handovers.UpdateStatus(tx, handoverID, machine.State().String()); err != nil {
			return err
		}
		if err := s.handovers.SetApproval(tx, handoverID, managerID, now); err != nil {
			return err
		}
		return s.recordActivity(tx, handoverID, managerID, models.ActionHandoverApproved, "")
	})
	if err != nil {
		return err
	}

	s.logger.Info("Handover approved",
		zap.String("id", handoverID),
		zap.String("manager", managerID))
	return nil
}

// RefreshProgress recomputes the derived task counters after a task
// mutation has committed. With no tasks the stored progress value is kept as
// a fallback. The first completed task also moves a pending handover to
// in-progress. Runs outside any transaction so the counts always reflect
// committed state.
func (s *HandoverService) RefreshProgress(ctx context.Context, handoverID string) error {
	counts, err := s.tasks.CountByHandover(handoverID)
	if err != nil {
		return err
	}
	if counts.Total == 0 {
		return nil
	}

	progress := report.Pct(counts.Completed, counts.Total)
	if err := s.handovers.UpdateProgress(nil, handoverID, progress, counts.Total, counts.Completed); err != nil {
		return err
	}

	h, err := s.handovers.GetByID(handoverID)
	if err != nil || h == nil {
		return err
	}
	if h.Status == models.HandoverStatusPending && counts.Completed > 0 {
		machine, err := lifecycle.NewHandoverMachine(lifecycle.StatePending, nil)
		if err != nil {
			return err
		}
		if err := machine.Fire(ctx, lifecycle.TriggerStart); err != nil {
			return err
		}
		return s.handovers.UpdateStatus(nil, handoverID, machine.State().String())
	}
	return nil
}

// SetAIInsight stores the advisory risk assessment on the handover.
func (s *HandoverService) SetAIInsight(ctx context.Context, handoverID, riskLevel, recommendation string) error {
	if _, err := s.Get(ctx, handoverID); err != nil {
		return err
	}
	return s.handovers.UpdateAIInsight(nil, handoverID, riskLevel, recommendation)
}

// ListActivity returns the newest activity events for a handover.
func (s *HandoverService) ListActivity(ctx context.Context, handoverID string, limit int) ([]models.Activity, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.activities.ListByHandover(handoverID, limit)
}

func (s *HandoverService) recordActivity(tx *sql.Tx, handoverID, actorID, action, detail string) error {
	return s.activities.Create(tx, &models.Activity{
		ID:         uuid.NewString(),
		HandoverID: handoverID,
		ActorID:    actorID,
		Action:     action,
		Detail:     detail,
	})
}
