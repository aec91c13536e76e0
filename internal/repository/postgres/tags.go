package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"clarity/internal/domain"
	"clarity/internal/domain/repositories"
)

// PostgresTagWriter implements the optional write-back capability:
// attaching a label to a project by identifier.
type PostgresTagWriter struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewTagWriter creates a new tag writer
func NewTagWriter(config *RepositoryConfig) repositories.TagWriter {
	return &PostgresTagWriter{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// AddProjectTag appends a tag to a project's tag set. Adding a tag the
// project already carries is a no-op, not an error.
func (w *PostgresTagWriter) AddProjectTag(ctx context.Context, projectID, tag string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET tags = array_append(tags, $2), updated_at = now()
		WHERE id = $1 AND NOT (tags @> ARRAY[$2])
	`, w.tables.Projects)

	result, err := w.pool.Exec(ctx, query, projectID, tag)
	if err != nil {
		return fmt.Errorf("tag project: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Either already tagged or missing - only the latter is an error
		exists, err := w.projectExists(ctx, projectID)
		if err != nil {
			return err
		}
		if !exists {
			return &domain.NotFoundError{Message: fmt.Sprintf("project %s not found", projectID)}
		}
	}

	return nil
}

func (w *PostgresTagWriter) projectExists(ctx context.Context, projectID string) (bool, error) {
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE id = $1`, w.tables.Projects)

	var one int
	err := w.pool.QueryRow(ctx, query, projectID).Scan(&one)
	if err != nil {
		if isPgNoRowsError(err) {
			return false, nil
		}
		return false, fmt.Errorf("check project: %w", err)
	}

	return true, nil
}
