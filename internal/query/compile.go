// Package query compiles parsed DSL intent into parameterized SQL
// statements and executes them with short-circuit semantics.
package query

import (
	"log/slog"
	"strings"

	"github.com/slashql/slashql/internal/dsl"
	"github.com/slashql/slashql/internal/schema"
)

// Stmt is one parameterized single-term statement. Values are always bound
// parameters, never interpolated into the SQL text.
type Stmt struct {
	SQL  string
	Args []any
	Term dsl.Term
}

// CompiledGroup holds the ordered statements of one condition group. One
// statement per term is required: the executor must observe whether each
// term individually matched before trying the next.
type CompiledGroup struct {
	Stmts []Stmt
}

// Compiled is a fully compiled DSL query.
type Compiled struct {
	Table  *schema.Table
	Groups []CompiledGroup
}

// Compiler translates parsed queries against a schema registry.
type Compiler struct {
	registry     *schema.Registry
	defaultTable string
	log          *slog.Logger
}

// NewCompiler creates a compiler. Queries without a \from clause target
// defaultTable.
func NewCompiler(registry *schema.Registry, defaultTable string, logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Compiler{registry: registry, defaultTable: defaultTable, log: logger}
}

// Compile resolves the target table, validates requested columns, and emits
// one statement per candidate term, filtered on the table's single-column
// primary key.
func (c *Compiler) Compile(q *dsl.Query) (*Compiled, error) {
	tableName := q.Table
	if tableName == "" {
		tableName = c.defaultTable
	}

	table, err := c.registry.Resolve(tableName)
	if err != nil {
		return nil, err
	}

	pk, ok := table.PrimaryKey()
	if !ok {
		return nil, &schema.MissingPrimaryKeyError{Table: table.Name}
	}

	colSQL := "*"
	if q.Columns != nil {
		quoted := make([]string, 0, len(q.Columns))
		for _, name := range q.Columns {
			if _, ok := table.Column(name); !ok {
				return nil, &schema.UnknownColumnError{Table: table.Name, Column: name}
			}
			quoted = append(quoted, schema.QuoteIdent(name))
		}
		colSQL = strings.Join(quoted, ", ")
	}

	exactSQL := "SELECT " + colSQL + " FROM " + schema.QuoteIdent(table.Name) +
		" WHERE " + schema.QuoteIdent(pk.Name) + " = ?"
	fuzzySQL := "SELECT " + colSQL + " FROM " + schema.QuoteIdent(table.Name) +
		" WHERE " + schema.QuoteIdent(pk.Name) + " LIKE ?"

	compiled := &Compiled{Table: table, Groups: make([]CompiledGroup, 0, len(q.Groups))}
	for _, group := range q.Groups {
		cg := CompiledGroup{Stmts: make([]Stmt, 0, len(group.Terms))}
		for _, term := range group.Terms {
			if term.Fuzzy {
				cg.Stmts = append(cg.Stmts, Stmt{SQL: fuzzySQL, Args: []any{term.Pattern()}, Term: term})
				continue
			}

			val, coerced := schema.Coerce(term.Literal, pk.Type)
			if !coerced {
				c.log.Warn("term coercion failed, using raw literal",
					"table", table.Name, "column", pk.Name, "term", term.Literal)
			}
			cg.Stmts = append(cg.Stmts, Stmt{SQL: exactSQL, Args: []any{val}, Term: term})
		}
		compiled.Groups = append(compiled.Groups, cg)
	}

	return compiled, nil
}
