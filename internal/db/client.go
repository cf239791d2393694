package db

import (
	"context"
	"database/sql"
	"log/slog"
)

// Row is one result row in name-keyed form.
type Row map[string]any

// Result reports the outcome of a write statement.
type Result struct {
	LastInsertID int64
	RowsAffected int64
}

// Client executes parameterized statements against pooled connections.
// Reads and single writes run auto-committed; ExecMany and Begin provide
// transactional execution.
type Client struct {
	pool *Pool
	log  *slog.Logger
}

// NewClient wraps a pool. A nil logger falls back to slog.Default().
func NewClient(pool *Pool, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{pool: pool, log: logger}
}

// Open is a convenience constructor: it opens a pool for the database file
// and wraps it in a client.
func Open(path string, cfg PoolConfig, logger *slog.Logger) (*Client, error) {
	pool, err := OpenPool(path, cfg)
	if err != nil {
		return nil, err
	}
	return NewClient(pool, logger), nil
}

// Pool exposes the underlying connection pool.
func (c *Client) Pool() *Pool { return c.pool }

// Close closes the underlying pool.
func (c *Client) Close() error { return c.pool.Close() }

// Exec runs a single non-SELECT statement with bound parameters and
// auto-commit semantics.
func (c *Client) Exec(ctx context.Context, stmt string, args ...any) (Result, error) {
	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return Result{}, err
	}
	defer c.pool.Release(conn)

	res, err := conn.ExecContext(ctx, stmt, args...)
	if err != nil {
		c.log.Error("statement failed", "stmt", stmt, "error", err)
		return Result{}, &QueryError{Stmt: stmt, Err: err}
	}
	return newResult(res), nil
}

// ExecMany runs one statement once per argument set, all inside a single
// transaction: either every set commits or none does.
func (c *Client) ExecMany(ctx context.Context, stmt string, argSets [][]any) error {
	return c.WithTx(ctx, func(ctx context.Context, tx *Tx) error {
		for _, args := range argSets {
			if _, err := tx.Exec(ctx, stmt, args...); err != nil {
				return err
			}
		}
		return nil
	})
}

// FetchAll runs a SELECT statement and returns every row in name-keyed
// form, preserving result order.
func (c *Client) FetchAll(ctx context.Context, stmt string, args ...any) ([]Row, error) {
	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer c.pool.Release(conn)

	rows, err := conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		c.log.Error("fetch failed", "stmt", stmt, "error", err)
		return nil, &QueryError{Stmt: stmt, Err: err}
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, &QueryError{Stmt: stmt, Err: err}
	}
	return out, nil
}

// scanRows converts a result set into name-keyed rows using the result's
// column order.
func scanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(Row, len(cols))
		for i, col := range cols {
			v := values[i]
			// The driver may reuse byte buffers between rows.
			if b, ok := v.([]byte); ok {
				v = append([]byte(nil), b...)
			}
			row[col] = v
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func newResult(res sql.Result) Result {
	var r Result
	if id, err := res.LastInsertId(); err == nil {
		r.LastInsertID = id
	}
	if n, err := res.RowsAffected(); err == nil {
		r.RowsAffected = n
	}
	return r
}
