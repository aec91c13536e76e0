package insight

// FolderAnalysis is the structured result of one folder-level batch:
// an organizational-health narrative with per-folder notes.
type FolderAnalysis struct {
	HealthScore     float64         `json:"health_score"` // 0-10
	Summary         string          `json:"summary"`
	Strengths       []string        `json:"strengths"`
	Weaknesses      []string        `json:"weaknesses"`
	Recommendations []string        `json:"recommendations"`
	FolderNotes     []PerFolderNote `json:"folder_notes,omitempty"`
}

// PerFolderNote is one folder's individual observation inside a
// folder-level result.
type PerFolderNote struct {
	FolderID string `json:"folder_id"`
	Name     string `json:"name"`
	Note     string `json:"note"`
}

// ProjectAnalysis is the structured result of one project-level batch:
// flow, bottleneck and priority analysis over the batch's projects.
type ProjectAnalysis struct {
	HealthyProjects  int      `json:"healthy_projects"`
	StalledProjects  int      `json:"stalled_projects"`
	Bottlenecks      []string `json:"bottlenecks"`
	PriorityProjects []string `json:"priority_projects"`
	Summary          string   `json:"summary"`
}

// TaskAnalysis is the structured result of one task-level batch:
// workload, quality and next-action analysis.
type TaskAnalysis struct {
	OverloadedProjects int      `json:"overloaded_projects"`
	ManageableProjects int      `json:"manageable_projects"`
	QualityIssues      []string `json:"quality_issues"`
	NextActions        []string `json:"next_actions"`
	Summary            string   `json:"summary"`
}

// BatchFailure records one batch whose inference call failed or returned
// data not matching its schema. Failures never abort sibling batches.
type BatchFailure struct {
	Level   Level  `json:"level"`
	Seq     int    `json:"seq"`
	Message string `json:"message"`
}

// BatchResult is the outcome of one batch: exactly one of the level
// payloads, or a failure record. Level and Seq echo the source batch so
// the aggregator can verify coverage without reaching back to the
// batcher.
type BatchResult struct {
	Level   Level    `json:"level"`
	Seq     int      `json:"seq"`
	NodeIDs []string `json:"node_ids"`

	Folder  *FolderAnalysis  `json:"folder,omitempty"`
	Project *ProjectAnalysis `json:"project,omitempty"`
	Task    *TaskAnalysis    `json:"task,omitempty"`
	Failure *BatchFailure    `json:"failure,omitempty"`
}

// Failed reports whether this result is an error record.
func (r *BatchResult) Failed() bool { return r.Failure != nil }

// LevelResults groups batch results per level, each list in batch
// creation order.
type LevelResults struct {
	Folder  []BatchResult `json:"folder,omitempty"`
	Project []BatchResult `json:"project,omitempty"`
	Task    []BatchResult `json:"task,omitempty"`
}

// ForLevel returns the result list for the given level.
func (lr *LevelResults) ForLevel(level Level) []BatchResult {
	switch level {
	case LevelFolder:
		return lr.Folder
	case LevelProject:
		return lr.Project
	case LevelTask:
		return lr.Task
	default:
		return nil
	}
}

// Append adds a result to its level's list.
func (lr *LevelResults) Append(r BatchResult) {
	switch r.Level {
	case LevelFolder:
		lr.Folder = append(lr.Folder, r)
	case LevelProject:
		lr.Project = append(lr.Project, r)
	case LevelTask:
		lr.Task = append(lr.Task, r)
	}
}

// Failures collects every failure record across levels, in level order
// then batch order.
func (lr *LevelResults) Failures() []BatchFailure {
	var out []BatchFailure
	for _, level := range Levels {
		for _, r := range lr.ForLevel(level) {
			if r.Failure != nil {
				out = append(out, *r.Failure)
			}
		}
	}
	return out
}
