// Package db provides a fixed-capacity SQLite connection pool, a client for
// parameterized statement execution, and scoped transactions.
package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	// sqlite driver (pure Go).
	_ "modernc.org/sqlite"
)

const (
	// DefaultPoolSize is the number of connections opened when none is
	// configured.
	DefaultPoolSize = 5

	// DefaultAcquireTimeout bounds how long Acquire waits for a free
	// connection.
	DefaultAcquireTimeout = 5 * time.Second
)

// PoolConfig holds connection pool construction options.
type PoolConfig struct {
	// Size is the fixed number of connections. Zero means DefaultPoolSize.
	Size int

	// AcquireTimeout bounds the wait for a free connection. Zero means
	// DefaultAcquireTimeout.
	AcquireTimeout time.Duration
}

// Pool is a fixed set of live connections to one SQLite database file.
// Connections are created at Open and recycled until Close; a connection is
// exclusively owned by one caller between Acquire and Release.
type Pool struct {
	db      *sql.DB
	conns   chan *sql.Conn
	size    int
	timeout time.Duration

	mu     sync.Mutex
	closed bool
}

// dsn builds the driver DSN. WAL mode and a busy timeout let pooled writers
// interleave on one file; in-memory databases need a shared cache so all
// pooled connections see the same data.
func dsn(path string) string {
	if path == ":memory:" {
		return "file::memory:?cache=shared"
	}
	return "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}

// OpenPool opens the database file and eagerly creates all pooled
// connections. The parent directory is created if missing.
func OpenPool(path string, cfg PoolConfig) (*Pool, error) {
	if dir := filepath.Dir(path); path != ":memory:" && dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &ConnError{Path: path, Err: err}
		}
	}

	sqlDB, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, &ConnError{Path: path, Err: err}
	}

	p, err := NewPoolFromDB(sqlDB, cfg)
	if err != nil {
		return nil, &ConnError{Path: path, Err: err}
	}
	return p, nil
}

// NewPoolFromDB builds a pool over an already-opened database handle. All
// pooled connections are created eagerly.
func NewPoolFromDB(sqlDB *sql.DB, cfg PoolConfig) (*Pool, error) {
	if cfg.Size <= 0 {
		cfg.Size = DefaultPoolSize
	}
	if cfg.AcquireTimeout <= 0 {
		cfg.AcquireTimeout = DefaultAcquireTimeout
	}

	sqlDB.SetMaxOpenConns(cfg.Size)
	sqlDB.SetMaxIdleConns(cfg.Size)
	sqlDB.SetConnMaxLifetime(0)

	p := &Pool{
		db:      sqlDB,
		conns:   make(chan *sql.Conn, cfg.Size),
		size:    cfg.Size,
		timeout: cfg.AcquireTimeout,
	}

	ctx := context.Background()
	for i := 0; i < cfg.Size; i++ {
		conn, err := sqlDB.Conn(ctx)
		if err != nil {
			p.Close()
			return nil, err
		}
		p.conns <- conn
	}

	return p, nil
}

// Acquire returns exclusive ownership of a connection. It blocks until one
// is available, bounded by the configured acquire timeout, and fails with
// ErrPoolExhausted when the timeout elapses.
func (p *Pool) Acquire(ctx context.Context) (*sql.Conn, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	p.mu.Unlock()

	// Fast path: a connection is already free.
	select {
	case conn := <-p.conns:
		return conn, nil
	default:
	}

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	select {
	case conn := <-p.conns:
		return conn, nil
	case <-timer.C:
		return nil, ErrPoolExhausted
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a connection to the available set. It must be called
// exactly once per successful Acquire. Releasing into a closed pool closes
// the connection instead.
func (p *Pool) Release(conn *sql.Conn) {
	if conn == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		conn.Close()
		return
	}

	select {
	case p.conns <- conn:
	default:
		// More releases than acquires; drop the extra connection.
		conn.Close()
	}
}

// Size returns the fixed pool capacity.
func (p *Pool) Size() int { return p.size }

// Close tears down all pooled connections and the underlying database
// handle. Connections still checked out are closed when released.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	for {
		select {
		case conn := <-p.conns:
			conn.Close()
		default:
			return p.db.Close()
		}
	}
}
