package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"handoverhub/internal/ai"
	"handoverhub/internal/repository"
)

// InsightService runs the AI risk assessment for a handover and stores the
// result on the record.
type InsightService struct {
	advisor   *ai.Advisor
	handovers *repository.HandoverRepository
	tasks     *repository.TaskRepository
	documents *repository.DocumentRepository
	logger    *zap.Logger
}

func NewInsightService(
	advisor *ai.Advisor,
	handovers *repository.HandoverRepository,
	tasks *repository.TaskRepository,
	documents *repository.DocumentRepository,
	logger *zap.Logger,
) *InsightService {
	return &InsightService{
		advisor:   advisor,
		handovers: handovers,
		tasks:     tasks,
		documents: documents,
		logger:    logger,
	}
}

// Assess gathers the handover's tasks and document excerpts, asks the
// advisor for a risk assessment and writes it back to the handover.
func (s *InsightService) Assess(ctx context.Context, handoverID string) (*ai.RiskAssessment, error) {
	h, err := s.handovers.GetByID(handoverID)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, fmt.Errorf("%w: handover %s", ErrNotFound, handoverID)
	}

	tasks, err := s.tasks.ListByHandover(handoverID)
	if err != nil {
		return nil, err
	}

	docs, err := s.documents.ListByHandover(handoverID)
	if err != nil {
		return nil, err
	}
	var excerpts []string
	for _, d := range docs {
		if d.ExtractedText != "" {
			excerpts = append(excerpts, d.ExtractedText)
		}
	}

	assessment, err := s.advisor.Assess(ctx, ai.HandoverContext{
		Handover:  *h,
		Tasks:     tasks,
		Documents: excerpts,
	})
	if err != nil {
		return nil, err
	}

	if err := s.handovers.UpdateAIInsight(nil, handoverID, assessment.RiskLevel, assessment.Recommendation); err != nil {
		return nil, err
	}

	s.logger.Info("Risk assessment stored",
		zap.String("handover_id", handoverID),
		zap.String("risk_level", assessment.RiskLevel))
	return assessment, nil
}
