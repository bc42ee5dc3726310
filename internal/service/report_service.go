package service

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"handoverhub/internal/models"
	"handoverhub/internal/report"
	"handoverhub/internal/repository"
)

// Dashboard is the manager overview: attention buckets, department rollup
// and an open help-request badge per handover in a bucket.
type Dashboard struct {
	Buckets         report.AttentionBuckets   `json:"buckets"`
	Departments     []report.DepartmentHealth `json:"departments"`
	PendingHelp     map[string]int            `json:"pending_help"`
	PrimaryConcerns map[string]string         `json:"primary_concerns"`
}

// ReportService builds manager-facing aggregates over the handover list.
type ReportService struct {
	handovers *repository.HandoverRepository
	requests  *repository.HelpRequestRepository
	exporter  *report.ExcelExporter
	logger    *zap.Logger
}

func NewReportService(
	handovers *repository.HandoverRepository,
	requests *repository.HelpRequestRepository,
	exporter *report.ExcelExporter,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		handovers: handovers,
		requests:  requests,
		exporter:  exporter,
		logger:    logger,
	}
}

// Dashboard assembles the attention buckets, department health rollup and
// pending help-request counts in one pass over the handover list.
func (s *ReportService) Dashboard(ctx context.Context) (*Dashboard, error) {
	handovers, err := s.handovers.List()
	if err != nil {
		return nil, err
	}
	pending, err := s.requests.CountPendingByHandover()
	if err != nil {
		return nil, err
	}

	buckets := report.BuildAttentionBuckets(handovers)
	concerns := make(map[string]string)
	for _, bucket := range [][]models.Handover{buckets.NoSuccessor, buckets.LowProgress, buckets.Stalled} {
		for _, h := range bucket {
			if _, ok := concerns[h.ID]; !ok {
				concerns[h.ID] = report.PrimaryConcern(h)
			}
		}
	}

	return &Dashboard{
		Buckets:         buckets,
		Departments:     report.BuildDepartmentRollup(handovers),
		PendingHelp:     pending,
		PrimaryConcerns: concerns,
	}, nil
}

// Pivot groups all handovers by the requested dimensions. Unknown dimension
// keys are rejected before any rows are read.
func (s *ReportService) Pivot(ctx context.Context, dimensions []string) (report.PivotReport, error) {
	for _, dim := range dimensions {
		if !report.ValidDimension(dim) {
			return report.PivotReport{}, fmt.Errorf("%w: %s", ErrInvalidDimension, dim)
		}
	}

	handovers, err := s.handovers.List()
	if err != nil {
		return report.PivotReport{}, err
	}
	return report.BuildPivot(handovers, dimensions), nil
}

// ExportPivot writes the pivot report for the given dimensions as an xlsx
// workbook.
func (s *ReportService) ExportPivot(ctx context.Context, dimensions []string, w io.Writer) error {
	rep, err := s.Pivot(ctx, dimensions)
	if err != nil {
		return err
	}
	if err := s.exporter.Write(rep, w); err != nil {
		return err
	}
	s.logger.Info("Pivot report exported",
		zap.Strings("dimensions", dimensions),
		zap.Int("rows", len(rep.Rows)))
	return nil
}
