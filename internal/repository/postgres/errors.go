package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/places-server/internal/model"
)

const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
)

// classify maps postgres errors onto model sentinels, keeping the original
// error in the chain.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeSerializationFailure, codeDeadlockDetected:
		return fmt.Errorf("%w: %w", model.ErrConflict, err)
	case codeUniqueViolation:
		return fmt.Errorf("%w: %w", model.ErrAlreadyExists, err)
	default:
		return err
	}
}
