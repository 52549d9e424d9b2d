package repository

import (
	"errors"

	"product-engine/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE for unique constraint violations.
const uniqueViolationCode = "23505"

// translateConstraint maps a unique-constraint violation to
// domain.ErrConflict so callers never see a raw driver error for it.
func translateConstraint(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return domain.ErrConflict
	}

	return err
}
