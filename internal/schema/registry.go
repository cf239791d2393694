package schema

import (
	"fmt"
	"strings"
	"sync"
)

// Column describes one declared column of a table.
type Column struct {
	Name       string
	Type       Type
	PrimaryKey bool
	Unique     bool
	NotNull    bool
}

// Table is an immutable table schema. Once registered it is never mutated,
// so concurrent readers need no locking.
type Table struct {
	Name    string
	Columns []Column

	pkIndex int // index into Columns, -1 when zero or multiple PK columns
}

// NewTable builds a Table and derives its primary-key reference.
func NewTable(name string, cols []Column) *Table {
	t := &Table{Name: name, Columns: cols, pkIndex: -1}
	count := 0
	for i, c := range cols {
		if c.PrimaryKey {
			t.pkIndex = i
			count++
		}
	}
	if count != 1 {
		t.pkIndex = -1
	}
	return t
}

// PrimaryKey returns the single primary-key column, or false when the table
// has zero or multiple primary-key columns.
func (t *Table) PrimaryKey() (Column, bool) {
	if t.pkIndex < 0 {
		return Column{}, false
	}
	return t.Columns[t.pkIndex], true
}

// Column looks up a column by name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the declared column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// CreateSQL generates the DDL for the table. With ifNotExists the statement
// is idempotent.
func (t *Table) CreateSQL(ifNotExists bool) string {
	defs := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		parts := []string{quoteIdent(c.Name), c.Type.DeclaredType()}
		if c.PrimaryKey {
			parts = append(parts, "PRIMARY KEY")
		}
		if c.Unique {
			parts = append(parts, "UNIQUE")
		}
		if c.NotNull {
			parts = append(parts, "NOT NULL")
		}
		defs = append(defs, strings.Join(parts, " "))
	}

	stmt := "CREATE TABLE "
	if ifNotExists {
		stmt = "CREATE TABLE IF NOT EXISTS "
	}
	return stmt + quoteIdent(t.Name) + " (" + strings.Join(defs, ", ") + ")"
}

// quoteIdent quotes an identifier for use in generated SQL. Identifiers are
// validated against the registry before they reach SQL text; quoting guards
// against reserved words.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteIdent is the exported form used by the query compiler.
func QuoteIdent(name string) string { return quoteIdent(name) }

// Registry stores table schemas by name. Registration happens once per
// table; lookups are concurrent-safe.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tables: make(map[string]*Table)}
}

// Register validates and stores a table schema. It fails with a SchemaError
// when the table already exists, a column name repeats, or the declaration
// does not contain exactly one primary-key column.
func (r *Registry) Register(name string, cols []Column) (*Table, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &SchemaError{Table: name, Message: "table name is empty"}
	}
	if len(cols) == 0 {
		return nil, &SchemaError{Table: name, Message: "no columns declared"}
	}

	seen := make(map[string]struct{}, len(cols))
	pkCount := 0
	for _, c := range cols {
		if c.Name == "" {
			return nil, &SchemaError{Table: name, Message: "column name is empty"}
		}
		if _, dup := seen[c.Name]; dup {
			return nil, &SchemaError{Table: name, Message: fmt.Sprintf("duplicate column %q", c.Name)}
		}
		seen[c.Name] = struct{}{}
		if c.PrimaryKey {
			pkCount++
		}
	}
	if pkCount != 1 {
		return nil, &SchemaError{Table: name, Message: fmt.Sprintf("expected exactly one primary-key column, got %d", pkCount)}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tables[name]; exists {
		return nil, &SchemaError{Table: name, Message: "table already registered"}
	}
	t := NewTable(name, cols)
	r.tables[name] = t
	return t, nil
}

// Put stores a schema reflected from an existing database file. Unlike
// Register it accepts tables with zero or composite primary keys; keyed
// query paths reject those later. An existing entry is replaced.
func (r *Registry) Put(t *Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[t.Name] = t
}

// Remove drops a table schema. Used to unwind a registration whose DDL
// failed to apply.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tables, name)
}

// Resolve returns the schema for a table name.
func (r *Registry) Resolve(name string) (*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[name]
	if !ok {
		return nil, &UnknownTableError{Table: name}
	}
	return t, nil
}

// Tables returns the registered table names.
func (r *Registry) Tables() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	return names
}
