package report

import (
	"math"
	"sort"
	"strings"

	"handoverhub/internal/models"
)

// Pivot dimension keys.
const (
	DimDepartment        = "department"
	DimStatus            = "status"
	DimRiskLevel         = "aiRiskLevel"
	DimSuccessorAssigned = "successorAssigned"
)

// Pivot aggregate keys.
const (
	AggCount          = "count"
	AggAvgProgress    = "avgProgress"
	AggTotalTasks     = "totalTasks"
	AggCompletedTasks = "completedTasks"
)

// KeySeparator joins per-dimension values into the group key. Dimension
// values must not themselves contain it; a value that does would collide
// groups. Known limitation, kept for parity.
const KeySeparator = " | "

// UnknownValue is the group value for a missing dimension field.
const UnknownValue = "Unknown"

// Successor-assigned dimension values.
const (
	SuccessorAssigned   = "Assigned"
	SuccessorUnassigned = "Unassigned"
)

// PivotRow is one group of the pivot report, or the totals row.
type PivotRow struct {
	Key            string `json:"key"`
	Count          int    `json:"count"`
	AvgProgress    int    `json:"avg_progress"`
	TotalTasks     int    `json:"total_tasks"`
	CompletedTasks int    `json:"completed_tasks"`
}

// PivotReport holds the grouped rows plus an appended totals row. An empty
// dimension list yields the zero report: no rows, no totals. That is a valid
// "no report configured" state, not an error.
type PivotReport struct {
	Dimensions []string   `json:"dimensions"`
	Rows       []PivotRow `json:"rows"`
	Totals     *PivotRow  `json:"totals,omitempty"`
}

// dimensionValue maps one handover field to its string group value.
func dimensionValue(h models.Handover, dim string) string {
	switch dim {
	case DimDepartment:
		if h.Department == "" {
			return UnknownValue
		}
		return h.Department
	case DimStatus:
		if h.Status == "" {
			return UnknownValue
		}
		return h.Status
	case DimRiskLevel:
		if h.AIRiskLevel == "" {
			return UnknownValue
		}
		return h.AIRiskLevel
	case DimSuccessorAssigned:
		if h.HasSuccessor() {
			return SuccessorAssigned
		}
		return SuccessorUnassigned
	default:
		return UnknownValue
	}
}

// BuildPivot groups the handover list by the ordered dimension keys and
// accumulates count, average progress, total tasks, and completed tasks per
// group. Rows are sorted descending by count with ties keeping first-seen
// order; the totals row uses a count-weighted average of the group averages
// with a denominator floor of 1.
func BuildPivot(handovers []models.Handover, dimensions []string) PivotReport {
	if len(dimensions) == 0 {
		return PivotReport{}
	}

	type acc struct {
		row         PivotRow
		progressSum int
	}

	groups := make(map[string]*acc)
	var keys []string
	for _, h := range handovers {
		values := make([]string, len(dimensions))
		for i, dim := range dimensions {
			values[i] = dimensionValue(h, dim)
		}
		key := strings.Join(values, KeySeparator)

		g, ok := groups[key]
		if !ok {
			g = &acc{row: PivotRow{Key: key}}
			groups[key] = g
			keys = append(keys, key)
		}
		g.row.Count++
		g.progressSum += h.Progress
		g.row.TotalTasks += h.TaskCount
		g.row.CompletedTasks += h.CompletedTasks
	}

	rows := make([]PivotRow, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		g.row.AvgProgress = int(math.Round(float64(g.progressSum) / float64(g.row.Count)))
		rows = append(rows, g.row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})

	totals := PivotRow{Key: "Total"}
	weightedSum := 0
	for _, row := range rows {
		totals.Count += row.Count
		totals.TotalTasks += row.TotalTasks
		totals.CompletedTasks += row.CompletedTasks
		weightedSum += row.AvgProgress * row.Count
	}
	denom := totals.Count
	if denom < 1 {
		denom = 1
	}
	totals.AvgProgress = int(math.Round(float64(weightedSum) / float64(denom)))

	return PivotReport{
		Dimensions: dimensions,
		Rows:       rows,
		Totals:     &totals,
	}
}

// ValidDimension reports whether dim is one of the supported group-by keys.
func ValidDimension(dim string) bool {
	switch dim {
	case DimDepartment, DimStatus, DimRiskLevel, DimSuccessorAssigned:
		return true
	}
	return false
}
