package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/scry-notes/internal/store"
)

// PostgreSQL error codes
const (
	// checkViolationCode is the PostgreSQL error code for check constraint violations
	checkViolationCode = "23514"

	// notNullViolationCode is the PostgreSQL error code for not null violations
	notNullViolationCode = "23502"

	// stringTooLongCode is the PostgreSQL error code for values exceeding a column limit
	stringTooLongCode = "22001"
)

// noteEntity names the entity in StoreError values produced by this package.
const noteEntity = "note"

// MapError maps a database error to the store error taxonomy.
// sql.ErrNoRows becomes store.ErrNoteNotFound, constraint violations become
// store.ErrInvalidEntity, and everything else is a store.StoreError that
// matches store.ErrStorage.
func MapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNoteNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case IsCheckConstraintViolation(err):
			return fmt.Errorf(
				"%w: check constraint violation (%s)",
				store.ErrInvalidEntity,
				pgErr.ConstraintName,
			)
		case pgErr.Code == notNullViolationCode:
			return fmt.Errorf(
				"%w: not null violation (%s)",
				store.ErrInvalidEntity,
				pgErr.ColumnName,
			)
		case pgErr.Code == stringTooLongCode:
			return fmt.Errorf("%w: value too long", store.ErrInvalidEntity)
		}
	}

	return store.NewStoreError(noteEntity, operation, "database operation failed", err)
}

// IsCheckConstraintViolation checks if the given error is a PostgreSQL check constraint violation.
func IsCheckConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == checkViolationCode
}

// CheckRowsAffected examines the number of rows affected by a database operation.
// If no rows were affected, it returns store.ErrNoteNotFound.
// This is useful for UPDATE and DELETE operations where the absence of affected rows
// typically indicates that the target record doesn't exist.
func CheckRowsAffected(result sql.Result, operation string) error {
	if result == nil {
		return store.NewStoreError(noteEntity, operation, "nil result", nil)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError(noteEntity, operation, "failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return store.ErrNoteNotFound
	}

	return nil
}
