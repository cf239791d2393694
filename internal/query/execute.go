package query

import (
	"context"
	"log/slog"

	"github.com/slashql/slashql/internal/db"
)

// Executor runs compiled queries against pooled connections. Term and group
// order is strictly sequential; short-circuit correctness depends on it.
type Executor struct {
	client *db.Client
	log    *slog.Logger
}

// NewExecutor creates an executor on top of a client.
func NewExecutor(client *db.Client, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{client: client, log: logger}
}

// Execute evaluates every group in declaration order and concatenates their
// contributions. Within a group, terms are tried in order and the first one
// yielding at least one row stops the group; a group that exhausts all
// terms contributes nothing, which is not an error. Reads are auto-commit
// and follow the pool's acquire/execute/release discipline.
func (e *Executor) Execute(ctx context.Context, compiled *Compiled) ([]db.Row, error) {
	var out []db.Row

	for _, group := range compiled.Groups {
		for _, stmt := range group.Stmts {
			rows, err := e.client.FetchAll(ctx, stmt.SQL, stmt.Args...)
			if err != nil {
				return nil, err
			}
			if len(rows) > 0 {
				out = append(out, rows...)
				break
			}
			e.log.Debug("term matched no rows", "table", compiled.Table.Name, "term", stmt.Term.Literal)
		}
	}

	return out, nil
}
