package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/readrace/internal/domain"
)

// sqlStates maps SQLSTATE codes to the domain error they surface as.
var sqlStates = map[string]error{
	"23505": domain.ErrConflict,   // unique_violation
	"40001": domain.ErrConflict,   // serialization_failure
	"23503": domain.ErrNotFound,   // foreign_key_violation
	"23514": domain.ErrValidation, // check_violation
	"22001": domain.ErrValidation, // string_data_right_truncation
}

// MapError wraps a pgx error for the state entry entity/key, translating it
// into a domain error where one applies. Context errors and connection
// failures keep their identity; the latter also wrap domain.ErrUnavailable.
func MapError(err error, entity, key string) error {
	if err == nil {
		return nil
	}
	prefix := entity + " " + key

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w", prefix, err)
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%s: %w", prefix, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if mapped, ok := sqlStates[pgErr.Code]; ok {
			return fmt.Errorf("%s: %w", prefix, mapped)
		}
		// Class 08: connection exception.
		if len(pgErr.Code) == 5 && pgErr.Code[:2] == "08" {
			return fmt.Errorf("%s: %w: %w", prefix, domain.ErrUnavailable, err)
		}
	}

	return fmt.Errorf("%s: %w", prefix, err)
}
