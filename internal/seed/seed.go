// Package seed loads YAML hierarchy fixtures into the database. It is
// used by cmd/seed to produce a realistic GTD tree for local runs.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/yaml.v3"

	"clarity/internal/repository/postgres"
)

// Fixture is the root of a YAML fixture file.
type Fixture struct {
	Folders []FolderFixture `yaml:"folders"`
}

// FolderFixture is one folder with nested subfolders and projects.
type FolderFixture struct {
	Name     string           `yaml:"name"`
	Folders  []FolderFixture  `yaml:"folders,omitempty"`
	Projects []ProjectFixture `yaml:"projects,omitempty"`
}

// ProjectFixture is one project with inline tasks.
type ProjectFixture struct {
	Name       string        `yaml:"name"`
	Status     string        `yaml:"status,omitempty"`     // defaults to active
	Sequencing string        `yaml:"sequencing,omitempty"` // defaults to parallel
	HasNote    bool          `yaml:"has_note,omitempty"`
	Tags       []string      `yaml:"tags,omitempty"`
	Tasks      []TaskFixture `yaml:"tasks,omitempty"`
}

// TaskFixture is one task. DueInDays and DeferInDays are relative to
// load time so fixtures stay fresh; negative values produce overdue or
// already-available tasks.
type TaskFixture struct {
	Name             string   `yaml:"name"`
	Completed        bool     `yaml:"completed,omitempty"`
	Dropped          bool     `yaml:"dropped,omitempty"`
	Flagged          bool     `yaml:"flagged,omitempty"`
	DueInDays        *int     `yaml:"due_in_days,omitempty"`
	DeferInDays      *int     `yaml:"defer_in_days,omitempty"`
	EstimatedMinutes *int     `yaml:"estimated_minutes,omitempty"`
	Tags             []string `yaml:"tags,omitempty"`
}

// Parse decodes a YAML fixture document.
func Parse(data []byte) (*Fixture, error) {
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &fixture, nil
}

// Loader inserts fixture trees into the hierarchy tables.
type Loader struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	now    time.Time
}

// NewLoader creates a loader. Relative fixture dates resolve against
// the loader's creation time.
func NewLoader(pool *pgxpool.Pool, tables *postgres.TableNames) *Loader {
	return &Loader{pool: pool, tables: tables, now: time.Now()}
}

// Load inserts every root folder in the fixture. Returns the number of
// folders, projects, and tasks created.
func (l *Loader) Load(ctx context.Context, fixture *Fixture) (folders, projects, tasks int, err error) {
	for i, folder := range fixture.Folders {
		f, p, t, err := l.insertFolder(ctx, folder, nil, i)
		if err != nil {
			return folders, projects, tasks, err
		}
		folders += f
		projects += p
		tasks += t
	}
	return folders, projects, tasks, nil
}

// Clear deletes every row from the hierarchy tables, children first.
func (l *Loader) Clear(ctx context.Context) error {
	for _, table := range []string{l.tables.Tasks, l.tables.Projects, l.tables.Folders} {
		if _, err := l.pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear table %s: %w", table, err)
		}
	}
	return nil
}

func (l *Loader) insertFolder(ctx context.Context, fixture FolderFixture, parentID *string, sortOrder int) (folders, projects, tasks int, err error) {
	id := uuid.NewString()

	query := `INSERT INTO ` + l.tables.Folders + ` (id, parent_id, name, sort_order) VALUES ($1, $2, $3, $4)`
	if _, err := l.pool.Exec(ctx, query, id, parentID, fixture.Name, sortOrder); err != nil {
		return 0, 0, 0, fmt.Errorf("insert folder %q: %w", fixture.Name, postgres.TranslateError(err))
	}
	folders = 1

	for i, project := range fixture.Projects {
		t, err := l.insertProject(ctx, project, id, i)
		if err != nil {
			return folders, projects, tasks, err
		}
		projects++
		tasks += t
	}

	for i, child := range fixture.Folders {
		f, p, t, err := l.insertFolder(ctx, child, &id, i)
		if err != nil {
			return folders, projects, tasks, err
		}
		folders += f
		projects += p
		tasks += t
	}

	return folders, projects, tasks, nil
}

func (l *Loader) insertProject(ctx context.Context, fixture ProjectFixture, folderID string, sortOrder int) (tasks int, err error) {
	id := uuid.NewString()

	status := fixture.Status
	if status == "" {
		status = "active"
	}
	sequencing := fixture.Sequencing
	if sequencing == "" {
		sequencing = "parallel"
	}
	tags := fixture.Tags
	if tags == nil {
		tags = []string{}
	}

	query := `INSERT INTO ` + l.tables.Projects + `
		(id, folder_id, name, status, sequencing, has_note, tags, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := l.pool.Exec(ctx, query, id, folderID, fixture.Name, status, sequencing, fixture.HasNote, tags, sortOrder); err != nil {
		return 0, fmt.Errorf("insert project %q: %w", fixture.Name, postgres.TranslateError(err))
	}

	for i, task := range fixture.Tasks {
		if err := l.insertTask(ctx, task, id, i); err != nil {
			return tasks, err
		}
		tasks++
	}

	return tasks, nil
}

func (l *Loader) insertTask(ctx context.Context, fixture TaskFixture, projectID string, sortOrder int) error {
	id := uuid.NewString()

	tags := fixture.Tags
	if tags == nil {
		tags = []string{}
	}

	query := `INSERT INTO ` + l.tables.Tasks + `
		(id, project_id, name, completed, dropped, flagged, due_date, defer_date, estimated_minutes, tags, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := l.pool.Exec(ctx, query,
		id, projectID, fixture.Name,
		fixture.Completed, fixture.Dropped, fixture.Flagged,
		l.relativeDate(fixture.DueInDays), l.relativeDate(fixture.DeferInDays),
		fixture.EstimatedMinutes, tags, sortOrder)
	if err != nil {
		return fmt.Errorf("insert task %q: %w", fixture.Name, postgres.TranslateError(err))
	}
	return nil
}

func (l *Loader) relativeDate(days *int) *time.Time {
	if days == nil {
		return nil
	}
	t := l.now.AddDate(0, 0, *days)
	return &t
}
