package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories translate.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

func sqlState(err error) string {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	return ""
}

// IsDuplicate reports a unique constraint violation, e.g. a taken email.
func IsDuplicate(err error) bool { return sqlState(err) == uniqueViolation }

// IsMissingReference reports a foreign key violation, e.g. a delivery for a deleted customer.
func IsMissingReference(err error) bool { return sqlState(err) == foreignKeyViolation }

// IsCheckFailure reports a CHECK constraint violation such as a non-positive weight.
func IsCheckFailure(err error) bool { return sqlState(err) == checkViolation }

// IsNotFound reports an empty single-row result.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
