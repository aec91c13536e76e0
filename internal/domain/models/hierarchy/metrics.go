package hierarchy

// Metrics are aggregate counters over a folder's entire subtree.
// They are derived values: recomputed whenever nodes are aggregated,
// never patched in place.
type Metrics struct {
	FolderCount int `json:"folder_count"`

	ProjectCount      int `json:"project_count"`
	ActiveProjects    int `json:"active_projects"`
	OnHoldProjects    int `json:"on_hold_projects"`
	CompletedProjects int `json:"completed_projects"`
	DroppedProjects   int `json:"dropped_projects"`

	TaskCount      int `json:"task_count"`
	RemainingTasks int `json:"remaining_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	FlaggedTasks   int `json:"flagged_tasks"`
	OverdueTasks   int `json:"overdue_tasks"`

	// ProjectsWithoutNextAction counts active projects with zero
	// remaining tasks (stalled projects).
	ProjectsWithoutNextAction int `json:"projects_without_next_action"`

	// CompletionRate is the share of projects that are finished
	// (done or dropped), in [0,1]. Zero when there are no projects.
	CompletionRate float64 `json:"completion_rate"`

	// TaskCompletionRate is the share of tasks that are completed,
	// in [0,1]. Zero when there are no tasks.
	TaskCompletionRate float64 `json:"task_completion_rate"`
}

// Add sums another metrics value into this one. Rates are recomputed by
// the caller after all additions (they do not sum).
func (m *Metrics) Add(other Metrics) {
	m.FolderCount += other.FolderCount
	m.ProjectCount += other.ProjectCount
	m.ActiveProjects += other.ActiveProjects
	m.OnHoldProjects += other.OnHoldProjects
	m.CompletedProjects += other.CompletedProjects
	m.DroppedProjects += other.DroppedProjects
	m.TaskCount += other.TaskCount
	m.RemainingTasks += other.RemainingTasks
	m.CompletedTasks += other.CompletedTasks
	m.FlaggedTasks += other.FlaggedTasks
	m.OverdueTasks += other.OverdueTasks
	m.ProjectsWithoutNextAction += other.ProjectsWithoutNextAction
}

// RecomputeRates refreshes the derived rate fields from the counters.
func (m *Metrics) RecomputeRates() {
	if m.ProjectCount > 0 {
		m.CompletionRate = float64(m.CompletedProjects+m.DroppedProjects) / float64(m.ProjectCount)
	} else {
		m.CompletionRate = 0
	}
	if m.TaskCount > 0 {
		m.TaskCompletionRate = float64(m.CompletedTasks) / float64(m.TaskCount)
	} else {
		m.TaskCompletionRate = 0
	}
}

// Health is a qualitative classification derived from Metrics.
type Health string

const (
	HealthEmpty          Health = "empty"
	HealthExcellent      Health = "excellent"
	HealthGood           Health = "good"
	HealthFair           Health = "fair"
	HealthNeedsAttention Health = "needs_attention"
)

// ClassifyHealth maps metrics to a health label. Pure function of the
// metrics value.
func ClassifyHealth(m Metrics) Health {
	if m.ProjectCount == 0 {
		return HealthEmpty
	}
	active := m.ActiveProjects
	switch {
	case m.CompletionRate >= 0.5 && active > 0 && active <= 10:
		return HealthExcellent
	case m.CompletionRate >= 0.3 && active > 0 && active <= 15:
		return HealthGood
	case m.CompletionRate >= 0.15 || (active > 0 && active <= 20):
		return HealthFair
	default:
		return HealthNeedsAttention
	}
}
