package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"clarity/internal/domain"
	"clarity/internal/domain/models/hierarchy"
	"clarity/internal/domain/repositories"
)

// PostgresHierarchyRepository implements the HierarchyRepository
// interface over the folders / projects / tasks tables.
type PostgresHierarchyRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewHierarchyRepository creates a new hierarchy repository
func NewHierarchyRepository(config *RepositoryConfig) repositories.HierarchyRepository {
	return &PostgresHierarchyRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// ListRootFolders returns every top-level folder in source order.
func (r *PostgresHierarchyRepository) ListRootFolders(ctx context.Context) ([]repositories.FolderRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, parent_id, name
		FROM %s
		WHERE parent_id IS NULL
		ORDER BY sort_order, name
	`, r.tables.Folders)

	return r.queryFolders(ctx, query)
}

// GetFolder retrieves a folder by ID
func (r *PostgresHierarchyRepository) GetFolder(ctx context.Context, id string) (*repositories.FolderRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, parent_id, name
		FROM %s
		WHERE id = $1
	`, r.tables.Folders)

	var rec repositories.FolderRecord
	err := r.pool.QueryRow(ctx, query, id).Scan(&rec.ID, &rec.ParentID, &rec.Name)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("folder %s not found", id)}
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &rec, nil
}

// ListChildFolders returns the direct subfolders of a folder.
func (r *PostgresHierarchyRepository) ListChildFolders(ctx context.Context, parentID string) ([]repositories.FolderRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, parent_id, name
		FROM %s
		WHERE parent_id = $1
		ORDER BY sort_order, name
	`, r.tables.Folders)

	return r.queryFolders(ctx, query, parentID)
}

func (r *PostgresHierarchyRepository) queryFolders(ctx context.Context, query string, args ...any) ([]repositories.FolderRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var records []repositories.FolderRecord
	for rows.Next() {
		var rec repositories.FolderRecord
		if err := rows.Scan(&rec.ID, &rec.ParentID, &rec.Name); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	return records, nil
}

// ListProjects returns the projects directly inside a folder.
func (r *PostgresHierarchyRepository) ListProjects(ctx context.Context, folderID string) ([]repositories.ProjectRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, folder_id, name, status, sequencing, has_note, tags
		FROM %s
		WHERE folder_id = $1
		ORDER BY sort_order, name
	`, r.tables.Projects)

	rows, err := r.pool.Query(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var records []repositories.ProjectRecord
	for rows.Next() {
		var rec repositories.ProjectRecord
		if err := rows.Scan(&rec.ID, &rec.FolderID, &rec.Name, &rec.Status, &rec.Sequencing, &rec.HasNote, &rec.Tags); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	return records, nil
}

// ListTasks returns the tasks of a project in source order.
func (r *PostgresHierarchyRepository) ListTasks(ctx context.Context, projectID string) ([]repositories.TaskRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, project_id, name, completed, dropped, flagged,
		       due_date, defer_date, estimated_minutes, tags
		FROM %s
		WHERE project_id = $1
		ORDER BY sort_order, name
	`, r.tables.Tasks)

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var records []repositories.TaskRecord
	for rows.Next() {
		var rec repositories.TaskRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.ProjectID,
			&rec.Name,
			&rec.Completed,
			&rec.Dropped,
			&rec.Flagged,
			&rec.DueDate,
			&rec.DeferDate,
			&rec.EstimatedMinutes,
			&rec.Tags,
		); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return records, nil
}

// GetTaskStats returns aggregate task counters for one project without
// loading its rows.
func (r *PostgresHierarchyRepository) GetTaskStats(ctx context.Context, projectID string, now time.Time) (hierarchy.TaskStats, error) {
	query := fmt.Sprintf(`
		SELECT
			count(*),
			count(*) FILTER (WHERE NOT completed AND NOT dropped),
			count(*) FILTER (WHERE completed),
			count(*) FILTER (WHERE dropped),
			count(*) FILTER (WHERE flagged AND NOT completed AND NOT dropped),
			count(*) FILTER (WHERE due_date < $2 AND NOT completed AND NOT dropped)
		FROM %s
		WHERE project_id = $1
	`, r.tables.Tasks)

	var stats hierarchy.TaskStats
	err := r.pool.QueryRow(ctx, query, projectID, now).Scan(
		&stats.Total,
		&stats.Remaining,
		&stats.Completed,
		&stats.Dropped,
		&stats.Flagged,
		&stats.Overdue,
	)
	if err != nil {
		return hierarchy.TaskStats{}, fmt.Errorf("get task stats: %w", err)
	}

	return stats, nil
}

// GetSubtreeMetrics returns flattened project and task counters over a
// folder's whole subtree. FolderCount is left zero - the parser counts
// folders from the tree it builds. The recursive CTE uses UNION (not
// UNION ALL) so a cyclic parent chain terminates instead of looping; the
// parser still rejects such data explicitly.
func (r *PostgresHierarchyRepository) GetSubtreeMetrics(ctx context.Context, folderID string, now time.Time) (hierarchy.Metrics, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE subtree AS (
			SELECT id FROM %[1]s WHERE id = $1
			UNION
			SELECT f.id FROM %[1]s f JOIN subtree s ON f.parent_id = s.id
		),
		proj AS (
			SELECT p.id, p.status
			FROM %[2]s p
			JOIN subtree s ON p.folder_id = s.id
		),
		task AS (
			SELECT t.project_id, t.completed, t.dropped, t.flagged, t.due_date
			FROM %[3]s t
			JOIN proj ON t.project_id = proj.id
		)
		SELECT
			(SELECT count(*) FROM proj),
			(SELECT count(*) FROM proj WHERE status = 'active'),
			(SELECT count(*) FROM proj WHERE status = 'on_hold'),
			(SELECT count(*) FROM proj WHERE status = 'done'),
			(SELECT count(*) FROM proj WHERE status = 'dropped'),
			(SELECT count(*) FROM task),
			(SELECT count(*) FROM task WHERE NOT completed AND NOT dropped),
			(SELECT count(*) FROM task WHERE completed),
			(SELECT count(*) FROM task WHERE flagged AND NOT completed AND NOT dropped),
			(SELECT count(*) FROM task WHERE due_date < $2 AND NOT completed AND NOT dropped),
			(SELECT count(*) FROM proj p
			 WHERE p.status = 'active'
			   AND NOT EXISTS (
				SELECT 1 FROM task t
				WHERE t.project_id = p.id AND NOT t.completed AND NOT t.dropped
			   ))
	`, r.tables.Folders, r.tables.Projects, r.tables.Tasks)

	var m hierarchy.Metrics
	err := r.pool.QueryRow(ctx, query, folderID, now).Scan(
		&m.ProjectCount,
		&m.ActiveProjects,
		&m.OnHoldProjects,
		&m.CompletedProjects,
		&m.DroppedProjects,
		&m.TaskCount,
		&m.RemainingTasks,
		&m.CompletedTasks,
		&m.FlaggedTasks,
		&m.OverdueTasks,
		&m.ProjectsWithoutNextAction,
	)
	if err != nil {
		return hierarchy.Metrics{}, fmt.Errorf("get subtree metrics: %w", err)
	}

	return m, nil
}
