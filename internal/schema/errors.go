package schema

import "fmt"

// SchemaError reports an invalid or duplicate table registration.
type SchemaError struct {
	Table   string
	Message string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error for table %q: %s", e.Table, e.Message)
}

// UnknownTableError reports a lookup of a table that was never registered.
type UnknownTableError struct {
	Table string
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("unknown table %q", e.Table)
}

// UnknownColumnError reports a reference to a column not declared on the
// table.
type UnknownColumnError struct {
	Table  string
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q in table %q", e.Column, e.Table)
}

// MissingPrimaryKeyError reports a table without a usable single-column
// primary key. Keyed lookups require exactly one primary-key column.
type MissingPrimaryKeyError struct {
	Table string
}

func (e *MissingPrimaryKeyError) Error() string {
	return fmt.Sprintf("table %q has no single-column primary key", e.Table)
}
