package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the hierarchy tables if they do not exist.
// Idempotent; run by cmd/seed before loading fixtures.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				parent_id UUID REFERENCES %[1]s(id) ON DELETE CASCADE,
				name VARCHAR(255) NOT NULL,
				sort_order INT NOT NULL DEFAULT 0,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, tables.Folders),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS idx_%[1]s_parent_id ON %[1]s(parent_id)`,
			tables.Folders),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				folder_id UUID REFERENCES %[2]s(id) ON DELETE CASCADE,
				name VARCHAR(255) NOT NULL,
				status TEXT NOT NULL DEFAULT 'active'
					CHECK (status IN ('active', 'on_hold', 'done', 'dropped')),
				sequencing TEXT NOT NULL DEFAULT 'parallel'
					CHECK (sequencing IN ('sequential', 'parallel')),
				has_note BOOLEAN NOT NULL DEFAULT false,
				tags TEXT[] NOT NULL DEFAULT '{}',
				sort_order INT NOT NULL DEFAULT 0,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, tables.Projects, tables.Folders),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS idx_%[1]s_folder_id ON %[1]s(folder_id)`,
			tables.Projects),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				project_id UUID NOT NULL REFERENCES %[2]s(id) ON DELETE CASCADE,
				name VARCHAR(255) NOT NULL,
				completed BOOLEAN NOT NULL DEFAULT false,
				dropped BOOLEAN NOT NULL DEFAULT false,
				flagged BOOLEAN NOT NULL DEFAULT false,
				due_date TIMESTAMPTZ,
				defer_date TIMESTAMPTZ,
				estimated_minutes INT,
				tags TEXT[] NOT NULL DEFAULT '{}',
				sort_order INT NOT NULL DEFAULT 0,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, tables.Tasks, tables.Projects),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS idx_%[1]s_project_id ON %[1]s(project_id)`,
			tables.Tasks),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}

// DropTables removes the hierarchy tables. Used by cmd/seed for a fresh
// start; blocked in production by the caller.
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	// Children first to respect foreign keys
	for _, table := range []string{tables.Tasks, tables.Projects, tables.Folders} {
		if _, err := pool.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s CASCADE`, table)); err != nil {
			return fmt.Errorf("drop table %s: %w", table, err)
		}
	}
	return nil
}
