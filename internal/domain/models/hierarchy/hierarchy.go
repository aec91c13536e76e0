package hierarchy

import "time"

// ProjectStatus mirrors the status values of the source task system.
type ProjectStatus string

const (
	StatusActive  ProjectStatus = "active"
	StatusOnHold  ProjectStatus = "on_hold"
	StatusDone    ProjectStatus = "done"
	StatusDropped ProjectStatus = "dropped"
)

// SequenceMode describes how a project's tasks unlock.
type SequenceMode string

const (
	Sequential SequenceMode = "sequential"
	Parallel   SequenceMode = "parallel"
)

// TaskNode is a single task. ProjectID is a non-owning back-reference
// used for lookup only; traversal ownership runs folder → project → task.
type TaskNode struct {
	ID               string     `json:"id"`
	ProjectID        string     `json:"project_id"`
	Name             string     `json:"name"`
	Completed        bool       `json:"completed"`
	Dropped          bool       `json:"dropped"`
	Flagged          bool       `json:"flagged"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	DeferDate        *time.Time `json:"defer_date,omitempty"`
	EstimatedMinutes *int       `json:"estimated_minutes,omitempty"`
	Tags             []string   `json:"tags,omitempty"`
}

// Remaining reports whether the task still needs doing.
func (t *TaskNode) Remaining() bool {
	return !t.Completed && !t.Dropped
}

// TaskStats are per-project task counters, computed from the project's
// tasks (or by the store when tasks are not loaded).
type TaskStats struct {
	Total     int `json:"total"`
	Remaining int `json:"remaining"`
	Completed int `json:"completed"`
	Dropped   int `json:"dropped"`
	Flagged   int `json:"flagged"`
	Overdue   int `json:"overdue"`
}

// ProjectNode is a project inside a folder. Tasks is populated only when
// parsing at the deepest analysis level.
type ProjectNode struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Depth      int           `json:"depth"`
	Status     ProjectStatus `json:"status"`
	Sequencing SequenceMode  `json:"sequencing"`
	HasNote    bool          `json:"has_note"`
	Tags       []string      `json:"tags,omitempty"`
	Stats      TaskStats     `json:"stats"`
	Tasks      []TaskNode    `json:"tasks,omitempty"`
}

// Stalled reports whether this project is active but has nothing left
// to do in it - the classic "project without a next action".
func (p *ProjectNode) Stalled() bool {
	return p.Status == StatusActive && p.Stats.Remaining == 0
}

// FolderNode is one folder in the parsed tree. Children are owned
// exclusively; the tree has no cycles and no shared nodes (the parser
// rejects both).
type FolderNode struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Depth    int           `json:"depth"`
	Folders  []*FolderNode `json:"folders,omitempty"`
	Projects []ProjectNode `json:"projects,omitempty"`
	Metrics  Metrics       `json:"metrics"`
	Health   Health        `json:"health"`
}

// Walk visits the folder and every descendant folder in pre-order.
func (f *FolderNode) Walk(visit func(*FolderNode)) {
	visit(f)
	for _, child := range f.Folders {
		child.Walk(visit)
	}
}
