// Package progress implements the weekly progress and milestone accumulation
// engine: how a project's completion percentage is derived from its ordered
// weekly reports, how milestone completion is inherited monotonically across
// weeks, and how full completion gates the project lifecycle transition.
package progress

import (
	"math"

	"solartrack/internal/milestoneset"
	"solartrack/internal/model"
)

// InheritedMilestones returns the union of milestone sets from every report
// with week strictly less than beforeWeek. This is the completion floor a
// report at beforeWeek inherits and cannot uncheck.
func InheritedMilestones(reports []model.WeeklyReport, beforeWeek int) milestoneset.Set {
	inherited := milestoneset.New()
	for _, r := range reports {
		if r.Week >= beforeWeek {
			continue
		}
		for _, id := range r.Milestones {
			inherited.Add(id)
		}
	}
	return inherited
}

// CompletionCeiling returns the intersection of milestone sets from every
// report with week strictly greater than afterWeek, or nil when no later
// report exists. An edit to a non-latest week may not check a milestone past
// this ceiling, or a later report would show it incomplete again.
func CompletionCeiling(reports []model.WeeklyReport, afterWeek int) milestoneset.Set {
	var ceiling milestoneset.Set
	for _, r := range reports {
		if r.Week <= afterWeek {
			continue
		}
		current := milestoneset.FromSlice(r.Milestones)
		if ceiling == nil {
			ceiling = current
		} else {
			ceiling = ceiling.Intersect(current)
		}
	}
	return ceiling
}

// LatestProgress returns the stored progress of the report with the highest
// week, or 0 when there are no reports. Historical values are whatever was
// computed at write time; they are never recomputed from milestone ratios.
func LatestProgress(reports []model.WeeklyReport) int {
	latestWeek := 0
	latest := 0
	for _, r := range reports {
		if r.Week > latestWeek {
			latestWeek = r.Week
			latest = r.Progress
		}
	}
	return latest
}

// ComputeProgress converts a checked-milestone count into a percentage of the
// current catalog subset, rounding half up. An empty catalog yields 0.
func ComputeProgress(checked, catalogSize int) int {
	if catalogSize == 0 {
		return 0
	}
	return int(math.Floor(100*float64(checked)/float64(catalogSize) + 0.5))
}
