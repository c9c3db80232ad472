package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/agriops/farmledger/internal/domain"
)

// PostgreSQL error codes surfaced as concurrency conflicts.
const (
	pgErrSerializationFailure = "40001"
	pgErrDeadlock             = "40P01"
)

// mapConflict translates serialization failures and deadlocks into
// domain.ErrConcurrencyConflict. Other errors pass through untouched.
func mapConflict(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrSerializationFailure, pgErrDeadlock:
			return fmt.Errorf("%w: %s", domain.ErrConcurrencyConflict, pgErr.Message)
		}
	}

	return err
}
