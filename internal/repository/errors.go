// Package repository holds the MySQL data access layer and the store
// contracts the services depend on.  Failures callers must react to are
// returned as apperr kinds: sql.ErrNoRows becomes NotFound, duplicate
// keys (1062) and deadlocks (1213) become Conflict, over-long values
// (1406) become Validation.  Everything else is wrapped and returned
// unchanged so the handler reports a 500.
package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/hostel-seat-allocation/internal/apperr"
)

const (
	mysqlDuplicateEntry = 1062
	mysqlDataTooLong    = 1406
	mysqlDeadlock       = 1213
)

// translate maps driver errors onto the apperr taxonomy.  notFound and
// conflict are the user-facing messages for the respective kinds.
func translate(err error, op, notFound, conflict string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) && notFound != "" {
		return apperr.NotFound(notFound)
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDuplicateEntry:
			if conflict != "" {
				return apperr.Conflict(conflict)
			}
		case mysqlDataTooLong:
			return apperr.Validation("value too long")
		case mysqlDeadlock:
			return apperr.Conflict("concurrent update in progress, please retry")
		}
	}
	if apperr.KindOf(err) != 0 {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
