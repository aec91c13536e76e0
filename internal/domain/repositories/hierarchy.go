package repositories

import (
	"context"
	"time"

	"clarity/internal/domain/models/hierarchy"
)

// FolderRecord is a folder row as stored, before parsing. ParentID nil
// means root level.
type FolderRecord struct {
	ID       string
	ParentID *string
	Name     string
}

// ProjectRecord is a project row as stored. FolderID nil means the
// project sits outside any folder (top level).
type ProjectRecord struct {
	ID         string
	FolderID   *string
	Name       string
	Status     hierarchy.ProjectStatus
	Sequencing hierarchy.SequenceMode
	HasNote    bool
	Tags       []string
}

// TaskRecord is a task row as stored.
type TaskRecord struct {
	ID               string
	ProjectID        string
	Name             string
	Completed        bool
	Dropped          bool
	Flagged          bool
	DueDate          *time.Time
	DeferDate        *time.Time
	EstimatedMinutes *int
	Tags             []string
}

// HierarchyRepository is read-only access to the source folder /
// project / task store. List methods return rows in stable source order.
// Beyond direct-children queries it supports flattened-descendant
// aggregates, which the parser uses when it does not materialize the
// deeper levels.
type HierarchyRepository interface {
	// ListRootFolders returns every top-level folder.
	ListRootFolders(ctx context.Context) ([]FolderRecord, error)

	// GetFolder returns one folder, or domain.ErrNotFound.
	GetFolder(ctx context.Context, id string) (*FolderRecord, error)

	// ListChildFolders returns the direct subfolders of a folder.
	ListChildFolders(ctx context.Context, parentID string) ([]FolderRecord, error)

	// ListProjects returns the projects directly inside a folder.
	ListProjects(ctx context.Context, folderID string) ([]ProjectRecord, error)

	// ListTasks returns the tasks of a project.
	ListTasks(ctx context.Context, projectID string) ([]TaskRecord, error)

	// GetTaskStats returns aggregate task counters for one project
	// without loading its tasks. now anchors the overdue comparison.
	GetTaskStats(ctx context.Context, projectID string, now time.Time) (hierarchy.TaskStats, error)

	// GetSubtreeMetrics returns flattened aggregate metrics over a
	// folder's whole subtree (all nested projects and tasks), used when
	// parsing stops above the project level. Rates are left for the
	// caller to recompute.
	GetSubtreeMetrics(ctx context.Context, folderID string, now time.Time) (hierarchy.Metrics, error)
}

// TagWriter is the optional write-back capability: attach a label to a
// project by identifier. Implementations must treat a missing project as
// domain.ErrNotFound; callers collect failures and never abort an
// analysis over them.
type TagWriter interface {
	AddProjectTag(ctx context.Context, projectID, tag string) error
}
