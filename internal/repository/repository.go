// Package repository provides MySQL-backed implementations of the
// store contracts defined in internal/booking.  Repositories return the
// booking package's sentinel errors for domain conditions (missing
// rows) so handlers and the engine can branch with errors.Is; raw
// driver errors are passed through for everything else.
package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/go-sql-driver/mysql"
)

// dbtx abstracts *sql.DB and *sql.Tx for helpers that run either
// standalone or inside an enclosing transaction.
type dbtx interface {
    ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
    QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
    QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// isDuplicateKey reports whether the error is a MySQL duplicate-key
// violation (error 1062).  Used as the backstop for the reservation
// identifier race: when two requests insert the same candidate id, the
// loser regenerates and retries.
func isDuplicateKey(err error) bool {
    var me *mysql.MySQLError
    return errors.As(err, &me) && me.Number == 1062
}
