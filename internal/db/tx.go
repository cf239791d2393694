package db

import (
	"context"
	"database/sql"
)

// txMarker marks a context as already carrying an open transaction scope.
type txMarker struct{}

// Tx is a transaction scope bound to exactly one pooled connection for its
// lifetime. Commit or Rollback closes the scope and returns the connection
// to the pool; a closed scope rejects further use.
type Tx struct {
	client *Client
	conn   *sql.Conn
	tx     *sql.Tx
	done   bool
}

// Begin acquires a connection from the pool and starts a transaction on it.
func (c *Client) Begin(ctx context.Context) (*Tx, error) {
	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		c.pool.Release(conn)
		return nil, &QueryError{Stmt: "BEGIN", Err: err}
	}

	return &Tx{client: c, conn: conn, tx: tx}, nil
}

// Exec runs a statement on the scope's bound connection.
func (t *Tx) Exec(ctx context.Context, stmt string, args ...any) (Result, error) {
	if t.done {
		return Result{}, ErrScopeClosed
	}

	res, err := t.tx.ExecContext(ctx, stmt, args...)
	if err != nil {
		t.client.log.Error("transactional statement failed", "stmt", stmt, "error", err)
		return Result{}, &QueryError{Stmt: stmt, Err: err}
	}
	return newResult(res), nil
}

// FetchAll runs a SELECT on the scope's bound connection, observing
// uncommitted writes made earlier in the scope.
func (t *Tx) FetchAll(ctx context.Context, stmt string, args ...any) ([]Row, error) {
	if t.done {
		return nil, ErrScopeClosed
	}

	rows, err := t.tx.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, &QueryError{Stmt: stmt, Err: err}
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, &QueryError{Stmt: stmt, Err: err}
	}
	return out, nil
}

// Commit commits the transaction, closes the scope, and releases the
// connection.
func (t *Tx) Commit() error {
	if t.done {
		return ErrScopeClosed
	}
	t.done = true
	defer t.client.pool.Release(t.conn)

	if err := t.tx.Commit(); err != nil {
		return &QueryError{Stmt: "COMMIT", Err: err}
	}
	return nil
}

// Rollback aborts the transaction, closes the scope, and releases the
// connection. Rolling back an already-closed scope is a no-op so callers
// can defer it unconditionally.
func (t *Tx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	defer t.client.pool.Release(t.conn)

	if err := t.tx.Rollback(); err != nil {
		return &QueryError{Stmt: "ROLLBACK", Err: err}
	}
	return nil
}

// WithTx runs fn inside a transaction scope: commit when fn returns nil,
// rollback when it returns an error or panics. The context passed to fn is
// marked; opening another scope with it fails with ErrNestedTransaction.
func (c *Client) WithTx(ctx context.Context, fn func(ctx context.Context, tx *Tx) error) error {
	if ctx.Value(txMarker{}) != nil {
		return ErrNestedTransaction
	}

	tx, err := c.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(context.WithValue(ctx, txMarker{}, tx), tx); err != nil {
		return err
	}
	return tx.Commit()
}
