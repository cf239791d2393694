// Package store ties the schema registry, the pooled SQLite client, and the
// DSL query pipeline into one caller-facing surface: table registration,
// coercing inserts, DSL selects, and an ad-hoc SQL bypass.
package store

import (
	"context"
	"log/slog"

	"github.com/slashql/slashql/internal/db"
	"github.com/slashql/slashql/internal/dsl"
	"github.com/slashql/slashql/internal/query"
	"github.com/slashql/slashql/internal/schema"
)

// Options configures a Store.
type Options struct {
	// DefaultTable is the target for queries and inserts that name no
	// table.
	DefaultTable string

	// Logger receives structured diagnostics. Nil falls back to
	// slog.Default().
	Logger *slog.Logger
}

// Store is the caller-facing surface of the engine.
type Store struct {
	client   *db.Client
	registry *schema.Registry
	compiler *query.Compiler
	executor *query.Executor

	defaultTable string
	log          *slog.Logger
}

// New builds a store on top of a client.
func New(client *db.Client, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	registry := schema.NewRegistry()
	return &Store{
		client:       client,
		registry:     registry,
		compiler:     query.NewCompiler(registry, opts.DefaultTable, logger),
		executor:     query.NewExecutor(client, logger),
		defaultTable: opts.DefaultTable,
		log:          logger,
	}
}

// Registry exposes the schema registry.
func (s *Store) Registry() *schema.Registry { return s.registry }

// Client exposes the underlying SQL client for collaborators that need full
// SQL expressiveness.
func (s *Store) Client() *db.Client { return s.client }

// Close closes the underlying client and pool.
func (s *Store) Close() error { return s.client.Close() }

// CreateTable registers a table schema and applies its DDL. The generated
// statement is idempotent, but the registry still rejects re-registration.
func (s *Store) CreateTable(ctx context.Context, name string, cols []schema.Column) error {
	table, err := s.registry.Register(name, cols)
	if err != nil {
		return err
	}

	if _, err := s.client.Exec(ctx, table.CreateSQL(true)); err != nil {
		s.registry.Remove(name)
		return err
	}

	s.log.Info("created table", "table", name, "columns", len(cols))
	return nil
}

// Select parses, compiles, and executes one DSL query, returning the
// concatenated group contributions in order. Parse and compile errors abort
// the whole query; a group without matches is not an error.
func (s *Store) Select(ctx context.Context, queryText string) ([]db.Row, error) {
	parsed, err := dsl.Parse(queryText)
	if err != nil {
		return nil, err
	}

	compiled, err := s.compiler.Compile(parsed)
	if err != nil {
		return nil, err
	}

	return s.executor.Execute(ctx, compiled)
}

// Exec is the ad-hoc SQL bypass for a single statement.
func (s *Store) Exec(ctx context.Context, stmt string, args ...any) (db.Result, error) {
	return s.client.Exec(ctx, stmt, args...)
}

// FetchAll is the ad-hoc SQL bypass for reads.
func (s *Store) FetchAll(ctx context.Context, stmt string, args ...any) ([]db.Row, error) {
	return s.client.FetchAll(ctx, stmt, args...)
}

// ExecMany runs one statement per argument set inside a single transaction.
func (s *Store) ExecMany(ctx context.Context, stmt string, argSets [][]any) error {
	return s.client.ExecMany(ctx, stmt, argSets)
}

// WithTx exposes the scoped transaction surface.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx *db.Tx) error) error {
	return s.client.WithTx(ctx, fn)
}

// resolveTable applies the default-table fallback and resolves the schema.
func (s *Store) resolveTable(name string) (*schema.Table, error) {
	if name == "" {
		name = s.defaultTable
	}
	return s.registry.Resolve(name)
}
