package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsSerializationFailure reports whether an error is a Postgres
// serialization failure or deadlock, i.e. a transient conflict that is
// safe to retry rather than surface to the caller.
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
