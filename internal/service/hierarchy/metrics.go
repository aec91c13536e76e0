package hierarchy

import (
	models "clarity/internal/domain/models/hierarchy"
)

// CalculateMetrics computes subtree metrics for one folder node from the
// parsed tree: the folder's own projects plus everything under its
// subfolders. Pure function of the tree; rates are recomputed, and
// FolderCount counts descendant folders (the node itself is not its own
// descendant, so an empty folder has all-zero metrics).
func CalculateMetrics(node *models.FolderNode) models.Metrics {
	m := projectMetrics(node.Projects)
	for _, child := range node.Folders {
		cm := CalculateMetrics(child)
		m.Add(cm)
		m.FolderCount++
	}
	m.RecomputeRates()
	return m
}

// AggregateMetrics walks a forest and sums the per-root subtree metrics
// into one value. The sum over an empty forest is the zero value.
func AggregateMetrics(nodes []*models.FolderNode) models.Metrics {
	var m models.Metrics
	for _, node := range nodes {
		m.Add(node.Metrics)
	}
	m.RecomputeRates()
	return m
}

// projectMetrics folds a folder's direct projects into counters.
func projectMetrics(projects []models.ProjectNode) models.Metrics {
	var m models.Metrics
	for i := range projects {
		p := &projects[i]
		m.ProjectCount++
		switch p.Status {
		case models.StatusActive:
			m.ActiveProjects++
		case models.StatusOnHold:
			m.OnHoldProjects++
		case models.StatusDone:
			m.CompletedProjects++
		case models.StatusDropped:
			m.DroppedProjects++
		}
		m.TaskCount += p.Stats.Total
		m.RemainingTasks += p.Stats.Remaining
		m.CompletedTasks += p.Stats.Completed
		m.FlaggedTasks += p.Stats.Flagged
		m.OverdueTasks += p.Stats.Overdue
		if p.Stalled() {
			m.ProjectsWithoutNextAction++
		}
	}
	return m
}

// statsFromTasks derives a project's task counters from its loaded
// tasks. Used at the deepest parse level; shallower parses get the same
// numbers from the store's aggregate query.
func statsFromTasks(tasks []models.TaskNode, now nowFunc) models.TaskStats {
	var stats models.TaskStats
	t := now()
	for i := range tasks {
		task := &tasks[i]
		stats.Total++
		switch {
		case task.Completed:
			stats.Completed++
		case task.Dropped:
			stats.Dropped++
		default:
			stats.Remaining++
			if task.Flagged {
				stats.Flagged++
			}
			if task.DueDate != nil && task.DueDate.Before(t) {
				stats.Overdue++
			}
		}
	}
	return stats
}
