package analysis

import (
	"fmt"
	"time"

	"clarity/internal/domain"
	models "clarity/internal/domain/models/hierarchy"
	"clarity/internal/domain/models/insight"
)

// Aggregate reduces the ordered per-level batch results into one
// AggregatedInsights value. Failed batches are skipped; a level whose
// batches all failed is omitted entirely (nil section). Result order
// within a level must equal batch creation order - the sequential runner
// guarantees that, and a future parallel runner must preserve it.
func Aggregate(results *insight.LevelResults, forest *models.Forest, scope, rootName string, now time.Time) (*insight.AggregatedInsights, error) {
	if err := checkResultInvariants(results, forest); err != nil {
		return nil, err
	}

	agg := &insight.AggregatedInsights{
		Scope:         scope,
		RootName:      rootName,
		GeneratedAt:   now,
		TotalFolders:  forest.Totals.FolderCount,
		TotalProjects: forest.Totals.ProjectCount,
		TotalTasks:    forest.Totals.TaskCount,
		Failures:      results.Failures(),
	}

	agg.OrganizationalHealth = mergeFolderLevel(results.Folder)
	agg.FlowAndBottlenecks = mergeProjectLevel(results.Project)
	agg.WorkloadDistribution = mergeTaskLevel(results.Task)
	agg.GTDAlignmentScore = compositeScore(agg)

	return agg, nil
}

// checkResultInvariants verifies what the batcher guarantees: results
// arrive in creation order and reference only indexed nodes. A violation
// is a programming defect, surfaced as an AggregationError.
func checkResultInvariants(results *insight.LevelResults, forest *models.Forest) error {
	for _, level := range insight.Levels {
		for i, r := range results.ForLevel(level) {
			if r.Level != level {
				return &domain.AggregationError{
					Message: fmt.Sprintf("%s result %d carries level %q", level, i, r.Level),
				}
			}
			if r.Seq != i {
				return &domain.AggregationError{
					Message: fmt.Sprintf("%s results out of order: seq %d at position %d", level, r.Seq, i),
				}
			}
			for _, id := range r.NodeIDs {
				if !indexed(forest.Index, level, id) {
					return &domain.AggregationError{
						Message: fmt.Sprintf("%s batch %d covers unknown node %s", level, i, id),
					}
				}
			}
		}
	}
	return nil
}

func indexed(index *models.Index, level insight.Level, id string) bool {
	switch level {
	case insight.LevelFolder:
		_, ok := index.Folders[id]
		return ok
	case insight.LevelProject:
		_, ok := index.Projects[id]
		return ok
	case insight.LevelTask:
		_, ok := index.Tasks[id]
		return ok
	default:
		return false
	}
}

// mergeFolderLevel unions the narrative lists (de-duplicated, first-seen
// order) and averages health scores arithmetically. Batches are roughly
// equal-sized by construction, so the unweighted mean is the right
// semantics.
func mergeFolderLevel(results []insight.BatchResult) *insight.OrganizationalHealth {
	succeeded := 0
	var scoreSum float64
	var strengths, weaknesses, recommendations []string
	var notes []insight.PerFolderNote

	for _, r := range results {
		if r.Failed() || r.Folder == nil {
			continue
		}
		succeeded++
		scoreSum += clampScore(r.Folder.HealthScore)
		strengths = appendUnique(strengths, r.Folder.Strengths)
		weaknesses = appendUnique(weaknesses, r.Folder.Weaknesses)
		recommendations = appendUnique(recommendations, r.Folder.Recommendations)
		notes = append(notes, r.Folder.FolderNotes...)
	}

	if succeeded == 0 {
		return nil
	}

	return &insight.OrganizationalHealth{
		HealthScore:     scoreSum / float64(succeeded),
		Strengths:       strengths,
		Weaknesses:      weaknesses,
		Recommendations: recommendations,
		FolderNotes:     notes,
		Coverage:        insight.Coverage{Succeeded: succeeded, Total: len(results)},
	}
}

// mergeProjectLevel sums counts and concatenates lists. No
// de-duplication: batches are disjoint by construction, so a project
// appears at most once across them.
func mergeProjectLevel(results []insight.BatchResult) *insight.FlowAndBottlenecks {
	succeeded := 0
	merged := &insight.FlowAndBottlenecks{}

	for _, r := range results {
		if r.Failed() || r.Project == nil {
			continue
		}
		succeeded++
		merged.HealthyProjects += r.Project.HealthyProjects
		merged.StalledProjects += r.Project.StalledProjects
		merged.Bottlenecks = append(merged.Bottlenecks, r.Project.Bottlenecks...)
		merged.PriorityProjects = append(merged.PriorityProjects, r.Project.PriorityProjects...)
	}

	if succeeded == 0 {
		return nil
	}

	merged.Coverage = insight.Coverage{Succeeded: succeeded, Total: len(results)}
	return merged
}

func mergeTaskLevel(results []insight.BatchResult) *insight.WorkloadDistribution {
	succeeded := 0
	merged := &insight.WorkloadDistribution{}

	for _, r := range results {
		if r.Failed() || r.Task == nil {
			continue
		}
		succeeded++
		merged.OverloadedProjects += r.Task.OverloadedProjects
		merged.ManageableProjects += r.Task.ManageableProjects
		merged.QualityIssues = append(merged.QualityIssues, r.Task.QualityIssues...)
		merged.NextActions = append(merged.NextActions, r.Task.NextActions...)
	}

	if succeeded == 0 {
		return nil
	}

	merged.Coverage = insight.Coverage{Succeeded: succeeded, Total: len(results)}
	return merged
}

// compositeScore is the arithmetic mean of whichever per-level signals
// exist: folder health score, project flow ratio ×10, task workload
// ratio ×10. No signals means 0. Always within [0,10].
func compositeScore(agg *insight.AggregatedInsights) float64 {
	var parts []float64

	if oh := agg.OrganizationalHealth; oh != nil {
		parts = append(parts, clampScore(oh.HealthScore))
	}
	if fb := agg.FlowAndBottlenecks; fb != nil {
		if total := fb.HealthyProjects + fb.StalledProjects; total > 0 {
			parts = append(parts, 10*float64(fb.HealthyProjects)/float64(total))
		}
	}
	if wd := agg.WorkloadDistribution; wd != nil {
		if total := wd.OverloadedProjects + wd.ManageableProjects; total > 0 {
			parts = append(parts, 10*float64(wd.ManageableProjects)/float64(total))
		}
	}

	if len(parts) == 0 {
		return 0
	}

	sum := 0.0
	for _, p := range parts {
		sum += p
	}
	return clampScore(sum / float64(len(parts)))
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 10 {
		return 10
	}
	return s
}

// appendUnique appends items not already present, preserving first-seen
// order.
func appendUnique(dst []string, items []string) []string {
	for _, item := range items {
		found := false
		for _, existing := range dst {
			if existing == item {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, item)
		}
	}
	return dst
}
