package insight

import "time"

// Coverage states how much of a level's batches contributed to a
// section: n of m succeeded. The report renders this so callers never
// mistake a partial section for full coverage.
type Coverage struct {
	Succeeded int `json:"succeeded"`
	Total     int `json:"total"`
}

// Complete reports whether every batch at the level succeeded.
func (c Coverage) Complete() bool { return c.Succeeded == c.Total }

// OrganizationalHealth is the merged folder-level insight.
type OrganizationalHealth struct {
	HealthScore     float64         `json:"health_score"` // 0-10, mean across batches
	Strengths       []string        `json:"strengths"`
	Weaknesses      []string        `json:"weaknesses"`
	Recommendations []string        `json:"recommendations"`
	FolderNotes     []PerFolderNote `json:"folder_notes,omitempty"`
	Coverage        Coverage        `json:"coverage"`
}

// FlowAndBottlenecks is the merged project-level insight.
type FlowAndBottlenecks struct {
	HealthyProjects  int      `json:"healthy_projects"`
	StalledProjects  int      `json:"stalled_projects"`
	Bottlenecks      []string `json:"bottlenecks"`
	PriorityProjects []string `json:"priority_projects"`
	Coverage         Coverage `json:"coverage"`
}

// WorkloadDistribution is the merged task-level insight.
type WorkloadDistribution struct {
	OverloadedProjects int      `json:"overloaded_projects"`
	ManageableProjects int      `json:"manageable_projects"`
	QualityIssues      []string `json:"quality_issues"`
	NextActions        []string `json:"next_actions"`
	Coverage           Coverage `json:"coverage"`
}

// AggregatedInsights is the single composite result of an analysis run.
// A per-level section is present only if that level was analyzed and at
// least one of its batches succeeded; callers must treat each section as
// optional.
type AggregatedInsights struct {
	Scope       string    `json:"scope"`
	RootName    string    `json:"root_name"`
	GeneratedAt time.Time `json:"generated_at"`

	TotalFolders  int `json:"total_folders"`
	TotalProjects int `json:"total_projects"`
	TotalTasks    int `json:"total_tasks"`

	OrganizationalHealth *OrganizationalHealth `json:"organizational_health,omitempty"`
	FlowAndBottlenecks   *FlowAndBottlenecks   `json:"flow_and_bottlenecks,omitempty"`
	WorkloadDistribution *WorkloadDistribution `json:"workload_distribution,omitempty"`

	// GTDAlignmentScore is the composite 0-10 score: the mean of
	// whichever per-level signals are available, 0 when none are.
	GTDAlignmentScore float64 `json:"gtd_alignment_score"`

	// Failures lists every batch that did not contribute, so a
	// populated-looking report never hides partial coverage.
	Failures []BatchFailure `json:"failures,omitempty"`
}

// Empty reports whether no level produced any insight.
func (a *AggregatedInsights) Empty() bool {
	return a.OrganizationalHealth == nil &&
		a.FlowAndBottlenecks == nil &&
		a.WorkloadDistribution == nil
}
