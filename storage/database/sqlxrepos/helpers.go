// Package sqlxrepos implements the domain repositories on top of sqlx
// and PostgreSQL.
package sqlxrepos

import (
	"database/sql"
	"strconv"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
)

const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	pqErr, ok := errors.Cause(err).(*pq.Error)
	return ok && pqErr.Code == pqUniqueViolation
}

// trapNoRowsErr maps psql "no rows" to the shared not-found sentinel.
func trapNoRowsErr(err error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return core.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func dollar(n int) string {
	return "$" + strconv.Itoa(n)
}

func intArray(ids []int) interface{} {
	return pq.Array(ids)
}
