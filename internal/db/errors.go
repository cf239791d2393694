package db

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolExhausted is returned when no connection becomes available
	// within the pool's acquire timeout.
	ErrPoolExhausted = errors.New("connection pool exhausted")

	// ErrPoolClosed is returned when acquiring from a closed pool.
	ErrPoolClosed = errors.New("connection pool is closed")

	// ErrScopeClosed is returned when a transaction scope is used after
	// commit or rollback.
	ErrScopeClosed = errors.New("transaction scope already closed")

	// ErrNestedTransaction is returned when a transaction scope is opened
	// inside an already-open scope.
	ErrNestedTransaction = errors.New("nested transaction scopes are not supported")
)

// ConnError reports a failure to open or prepare a database connection.
type ConnError struct {
	Path string
	Err  error
}

func (e *ConnError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Path, e.Err)
}

func (e *ConnError) Unwrap() error { return e.Err }

// QueryError reports a statement-execution failure, carrying the statement
// text for diagnostics.
type QueryError struct {
	Stmt string
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %s: %v", e.Stmt, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
