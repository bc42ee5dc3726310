package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExcelExporter renders a pivot report into a downloadable workbook.
type ExcelExporter struct {
	logger *zap.Logger
}

// NewExcelExporter creates a new Excel exporter.
func NewExcelExporter(logger *zap.Logger) *ExcelExporter {
	return &ExcelExporter{logger: logger}
}

// Write renders the report as an xlsx workbook to w. The sheet mirrors the
// dashboard table: one row per group plus the totals row.
func (e *ExcelExporter) Write(rep PivotReport, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Pivot Report"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []interface{}{"Group", "Count", "Avg Progress", "Total Tasks", "Completed Tasks"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(sheet, "A1", "E1", bold)
	}

	rowNum := 2
	for _, row := range rep.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		values := []interface{}{row.Key, row.Count, row.AvgProgress, row.TotalTasks, row.CompletedTasks}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", rowNum, err)
		}
		rowNum++
	}

	if rep.Totals != nil {
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		values := []interface{}{rep.Totals.Key, rep.Totals.Count, rep.Totals.AvgProgress, rep.Totals.TotalTasks, rep.Totals.CompletedTasks}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write totals row: %w", err)
		}
		endCell, _ := excelize.CoordinatesToCellName(5, rowNum)
		_ = f.SetCellStyle(sheet, cell, endCell, bold)
	}

	_ = f.SetColWidth(sheet, "A", "A", 40)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Debug("Pivot report exported",
		zap.Int("row_count", len(rep.Rows)),
		zap.Strings("dimensions", rep.Dimensions))
	return nil
}
