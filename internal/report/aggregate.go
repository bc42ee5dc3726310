// Package report computes dashboard rollups and the ad-hoc pivot report from
// the in-memory handover list. All functions are pure and recomputed on every
// call; there is no incremental update or caching.
package report

import (
	"math"
	"sort"

	"handoverhub/internal/models"
)

// UnassignedDepartment is the fallback group key for handovers without a
// department.
const UnassignedDepartment = "Unassigned"

// Pct returns the rounded progress percentage. Rounding, not floor/ceil, so
// displayed percentages match across the employee, successor, and manager
// views.
func Pct(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// AttentionBuckets partitions handovers needing manager attention. The sets
// are independent: a handover may appear in more than one.
type AttentionBuckets struct {
	NoSuccessor []models.Handover `json:"no_successor"`
	LowProgress []models.Handover `json:"low_progress"`
	Stalled     []models.Handover `json:"stalled"`
}

// Concern labels used for the dashboard's primary-concern pick.
const (
	ConcernNoSuccessor = "no_successor"
	ConcernLowProgress = "low_progress"
	ConcernStalled     = "stalled"
)

// BuildAttentionBuckets scans the handover list once per bucket:
//   - NoSuccessor: no successor email attached.
//   - LowProgress: progress below 30 AND a successor is present. A handover
//     with no successor is never double-counted as low progress.
//   - Stalled: progress strictly between 0 and 60 while still in-progress.
func BuildAttentionBuckets(handovers []models.Handover) AttentionBuckets {
	var buckets AttentionBuckets
	for _, h := range handovers {
		if !h.HasSuccessor() {
			buckets.NoSuccessor = append(buckets.NoSuccessor, h)
		}
	}
	for _, h := range handovers {
		if h.Progress < 30 && h.HasSuccessor() {
			buckets.LowProgress = append(buckets.LowProgress, h)
		}
	}
	for _, h := range handovers {
		if h.Progress > 0 && h.Progress < 60 && h.Status == models.HandoverStatusInProgress {
			buckets.Stalled = append(buckets.Stalled, h)
		}
	}
	return buckets
}

// PrimaryConcern returns the single display label for a handover that
// qualifies for several buckets: no successor outranks low progress, which
// outranks stalled. Empty when the handover needs no attention.
func PrimaryConcern(h models.Handover) string {
	switch {
	case !h.HasSuccessor():
		return ConcernNoSuccessor
	case h.Progress < 30:
		return ConcernLowProgress
	case h.Progress > 0 && h.Progress < 60 && h.Status == models.HandoverStatusInProgress:
		return ConcernStalled
	default:
		return ""
	}
}

// DepartmentHealth is the per-department rollup row.
type DepartmentHealth struct {
	Department  string `json:"department"`
	Total       int    `json:"total"`
	AvgProgress int    `json:"avg_progress"`
	AtRisk      int    `json:"at_risk"`
	Completed   int    `json:"completed"`
}

// BuildDepartmentRollup groups handovers by department, falling back to
// "Unassigned" when absent. Result is sorted descending by total; ties keep
// encounter order.
func BuildDepartmentRollup(handovers []models.Handover) []DepartmentHealth {
	type acc struct {
		health      DepartmentHealth
		progressSum int
		order       int
	}

	groups := make(map[string]*acc)
	var keys []string
	for _, h := range handovers {
		dept := h.Department
		if dept == "" {
			dept = UnassignedDepartment
		}
		g, ok := groups[dept]
		if !ok {
			g = &acc{health: DepartmentHealth{Department: dept}, order: len(keys)}
			groups[dept] = g
			keys = append(keys, dept)
		}
		g.health.Total++
		g.progressSum += h.Progress
		if h.AIRiskLevel == models.RiskLevelCritical || h.AIRiskLevel == models.RiskLevelHigh {
			g.health.AtRisk++
		}
		if h.Progress >= 90 {
			g.health.Completed++
		}
	}

	rollup := make([]DepartmentHealth, 0, len(keys))
	for _, dept := range keys {
		g := groups[dept]
		g.health.AvgProgress = int(math.Round(float64(g.progressSum) / float64(g.health.Total)))
		rollup = append(rollup, g.health)
	}

	sort.SliceStable(rollup, func(i, j int) bool {
		return rollup[i].Total > rollup[j].Total
	})
	return rollup
}
