package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"clarity/internal/domain"
)

// TranslateError maps driver-level failures onto domain sentinels so
// callers branch with errors.Is instead of inspecting pg codes.
func TranslateError(err error) error {
	switch {
	case err == nil:
		return nil
	case isPgDuplicateError(err):
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	case isPgForeignKeyError(err):
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	case isPgNoRowsError(err):
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	default:
		return err
	}
}

// isPgDuplicateError checks if error is a unique constraint violation
func isPgDuplicateError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = unique_violation
		return pgErr.Code == "23505"
	}
	return false
}

// isPgNoRowsError checks if error is a "no rows" error
func isPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// isPgForeignKeyError checks if error is a foreign key violation
func isPgForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23503 = foreign_key_violation
		return pgErr.Code == "23503"
	}
	return false
}
