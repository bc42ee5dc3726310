package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"handoverhub/internal/models"
)

func TestBuildPivot_EmptyDimensions(t *testing.T) {
	handovers := []models.Handover{{Department: "Sales", Progress: 50}}

	rep := BuildPivot(handovers, nil)

	assert.Empty(t, rep.Rows)
	assert.Nil(t, rep.Totals, "no report configured means no totals row")
}

func TestBuildPivot_SingleDimension(t *testing.T) {
	handovers := []models.Handover{
		{Department: "Sales", Progress: 20, TaskCount: 10, CompletedTasks: 2},
		{Department: "Sales", Progress: 80, TaskCount: 10, CompletedTasks: 8},
		{Department: "Eng", Progress: 50, TaskCount: 4, CompletedTasks: 2},
	}

	rep := BuildPivot(handovers, []string{DimDepartment})

	require.Len(t, rep.Rows, 2)
	assert.Equal(t, "Sales", rep.Rows[0].Key)
	assert.Equal(t, 2, rep.Rows[0].Count)
	assert.Equal(t, 50, rep.Rows[0].AvgProgress)
	assert.Equal(t, 20, rep.Rows[0].TotalTasks)
	assert.Equal(t, 10, rep.Rows[0].CompletedTasks)

	assert.Equal(t, "Eng", rep.Rows[1].Key)
	assert.Equal(t, 1, rep.Rows[1].Count)

	require.NotNil(t, rep.Totals)
	assert.Equal(t, 3, rep.Totals.Count)
	assert.Equal(t, 24, rep.Totals.TotalTasks)
	assert.Equal(t, 12, rep.Totals.CompletedTasks)
	// weighted average: round((50*2 + 50*1) / 3)
	assert.Equal(t, 50, rep.Totals.AvgProgress)
}

func TestBuildPivot_CompositeKey(t *testing.T) {
	handovers := []models.Handover{
		{Department: "Sales", Status: "in-progress", Progress: 40},
		{Department: "Sales", Status: "review", Progress: 90},
	}

	rep := BuildPivot(handovers, []string{DimDepartment, DimStatus})

	require.Len(t, rep.Rows, 2)
	keys := []string{rep.Rows[0].Key, rep.Rows[1].Key}
	assert.Contains(t, keys, "Sales | in-progress")
	assert.Contains(t, keys, "Sales | review")
}

func TestBuildPivot_SuccessorAssignedDimension(t *testing.T) {
	handovers := []models.Handover{
		{SuccessorEmail: "x@co", Progress: 60},
		{Progress: 10},
		{SuccessorEmail: "y@co", Progress: 40},
	}

	rep := BuildPivot(handovers, []string{DimSuccessorAssigned})

	require.Len(t, rep.Rows, 2)
	assert.Equal(t, SuccessorAssigned, rep.Rows[0].Key)
	assert.Equal(t, 2, rep.Rows[0].Count)
	assert.Equal(t, SuccessorUnassigned, rep.Rows[1].Key)
}

func TestBuildPivot_MissingValuesMapToUnknown(t *testing.T) {
	handovers := []models.Handover{{Progress: 30}}

	rep := BuildPivot(handovers, []string{DimRiskLevel})

	require.Len(t, rep.Rows, 1)
	assert.Equal(t, UnknownValue, rep.Rows[0].Key)
}

func TestBuildPivot_SortedByCountDescStable(t *testing.T) {
	handovers := []models.Handover{
		{Department: "Ops", Progress: 10},
		{Department: "Legal", Progress: 10},
		{Department: "Sales", Progress: 10},
		{Department: "Sales", Progress: 30},
	}

	rep := BuildPivot(handovers, []string{DimDepartment})

	require.Len(t, rep.Rows, 3)
	assert.Equal(t, "Sales", rep.Rows[0].Key)
	// Ops and Legal tie on count; first-seen order is kept
	assert.Equal(t, "Ops", rep.Rows[1].Key)
	assert.Equal(t, "Legal", rep.Rows[2].Key)
}

func TestBuildPivot_TotalsConsistency(t *testing.T) {
	handovers := []models.Handover{
		{Department: "Sales", Status: "pending", AIRiskLevel: "high", Progress: 15, TaskCount: 8, CompletedTasks: 1},
		{Department: "Sales", Status: "in-progress", AIRiskLevel: "low", Progress: 55, TaskCount: 12, CompletedTasks: 7},
		{Department: "Eng", Status: "in-progress", AIRiskLevel: "medium", Progress: 70, TaskCount: 6, CompletedTasks: 4},
		{Department: "Eng", Status: "review", AIRiskLevel: "low", Progress: 95, TaskCount: 9, CompletedTasks: 9},
		{Department: "", Status: "pending", AIRiskLevel: "", Progress: 0, TaskCount: 0, CompletedTasks: 0},
	}

	configs := [][]string{
		{DimDepartment},
		{DimStatus},
		{DimRiskLevel},
		{DimSuccessorAssigned},
		{DimDepartment, DimStatus},
		{DimDepartment, DimStatus, DimRiskLevel, DimSuccessorAssigned},
	}

	for _, dims := range configs {
		rep := BuildPivot(handovers, dims)
		require.NotNil(t, rep.Totals)

		countSum, weighted := 0, 0
		for _, row := range rep.Rows {
			countSum += row.Count
			weighted += row.AvgProgress * row.Count
		}
		assert.Equal(t, countSum, rep.Totals.Count, "dims %v", dims)
		// count-weighted average of group averages, within rounding
		expected := float64(weighted) / float64(countSum)
		assert.InDelta(t, expected, rep.Totals.AvgProgress, 0.5, "dims %v", dims)
	}
}

func TestBuildPivot_EmptyListWithDimensions(t *testing.T) {
	rep := BuildPivot(nil, []string{DimDepartment})

	assert.Empty(t, rep.Rows)
	require.NotNil(t, rep.Totals)
	assert.Equal(t, 0, rep.Totals.Count)
	// denominator floor of 1 keeps the empty list from dividing by zero
	assert.Equal(t, 0, rep.Totals.AvgProgress)
}

func TestValidDimension(t *testing.T) {
	assert.True(t, ValidDimension(DimDepartment))
	assert.True(t, ValidDimension(DimSuccessorAssigned))
	assert.False(t, ValidDimension("successor"))
	assert.False(t, ValidDimension(""))
}
