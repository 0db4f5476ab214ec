package repositories

import (
	"database/sql"
	"errors"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError is returned for unexpected database errors.
	// It can be used to wrap more specific driver errors.
	ErrDatabaseError = errors.New("database error")

	// ErrDuplicateKey is returned when an insert/update violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")
)

// SQLExecutor defines an interface that can be satisfied by *sql.DB or *sql.Tx.
// Repository methods that must see uncommitted writes inside a bulk batch
// take the executor explicitly, so the same query runs either against the
// pool or against the batch's transaction.
type SQLExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Query(query string, args ...interface{}) (*sql.Rows, error)
}

// Tx is a live transaction: an executor that must be committed or rolled
// back exactly once.
type Tx interface {
	SQLExecutor
	Commit() error
	Rollback() error
}

// DB is the executor handed to services: it runs statements directly and
// opens transactions for multi-statement batches. Services depend on this
// interface rather than *sql.DB so the bulk coordinator is testable.
type DB interface {
	SQLExecutor
	Begin() (Tx, error)
}

type sqlDB struct {
	*sql.DB
}

// NewDB wraps a *sql.DB so its transactions satisfy the Tx interface.
func NewDB(db *sql.DB) DB {
	return &sqlDB{DB: db}
}

func (d *sqlDB) Begin() (Tx, error) {
	return d.DB.Begin()
}

// scanner is an interface satisfied by *sql.Row and *sql.Rows.
// This allows for generic scanning helpers.
type scanner interface {
	Scan(dest ...interface{}) error
}
