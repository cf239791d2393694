package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/slashql/slashql/internal/db"
	"github.com/slashql/slashql/internal/schema"
)

// Insert writes one or more rows into table (empty means the default
// table). Each row is either an ordered []any matching the declared column
// order, or a name-keyed map whose unspecified columns become NULL. Values
// are coerced to the declared column types; a failed coercion keeps the
// original value and logs a warning, it never aborts the insert.
//
// More than one row runs inside a single transaction scope: either all rows
// commit or none do. A single row is auto-committed.
//
// The returned identifiers are the storage-assigned row ids in input order;
// an id is invalid when it cannot be determined (the table's primary key is
// not a single integer column).
func (s *Store) Insert(ctx context.Context, rows []any, table string) ([]sql.NullInt64, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert: no rows supplied")
	}

	t, err := s.resolveTable(table)
	if err != nil {
		return nil, err
	}

	argSets := make([][]any, 0, len(rows))
	for i, row := range rows {
		args, err := s.bindRow(t, row)
		if err != nil {
			return nil, fmt.Errorf("insert row %d: %w", i, err)
		}
		argSets = append(argSets, args)
	}

	stmt := insertSQL(t)
	idUsable := idDeterminable(t)

	ids := make([]sql.NullInt64, 0, len(rows))

	if len(argSets) == 1 {
		res, err := s.client.Exec(ctx, stmt, argSets[0]...)
		if err != nil {
			return nil, err
		}
		ids = append(ids, rowID(res, idUsable))
		return ids, nil
	}

	err = s.client.WithTx(ctx, func(ctx context.Context, tx *db.Tx) error {
		for _, args := range argSets {
			res, err := tx.Exec(ctx, stmt, args...)
			if err != nil {
				return err
			}
			ids = append(ids, rowID(res, idUsable))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// bindRow orders and coerces one input row against the table's declared
// columns.
func (s *Store) bindRow(t *schema.Table, row any) ([]any, error) {
	switch r := row.(type) {
	case []any:
		if len(r) != len(t.Columns) {
			return nil, fmt.Errorf("table %q expects %d values, got %d", t.Name, len(t.Columns), len(r))
		}
		args := make([]any, len(r))
		for i, col := range t.Columns {
			args[i] = s.coerce(t, col, r[i])
		}
		return args, nil

	case map[string]any:
		return s.bindNamed(t, r)
	case db.Row:
		return s.bindNamed(t, r)

	default:
		return nil, fmt.Errorf("unsupported row form %T", row)
	}
}

func (s *Store) bindNamed(t *schema.Table, row map[string]any) ([]any, error) {
	for key := range row {
		if _, ok := t.Column(key); !ok {
			return nil, &schema.UnknownColumnError{Table: t.Name, Column: key}
		}
	}

	args := make([]any, len(t.Columns))
	for i, col := range t.Columns {
		v, ok := row[col.Name]
		if !ok {
			args[i] = nil // unspecified column takes the engine default/null
			continue
		}
		args[i] = s.coerce(t, col, v)
	}
	return args, nil
}

// coerce applies best-effort type coercion, keeping the original value and
// logging a warning on failure.
func (s *Store) coerce(t *schema.Table, col schema.Column, v any) any {
	coerced, ok := schema.Coerce(v, col.Type)
	if !ok {
		s.log.Warn("value coercion failed, keeping original",
			"table", t.Name, "column", col.Name, "type", col.Type.String(), "value", v)
	}
	return coerced
}

func insertSQL(t *schema.Table) string {
	cols := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = schema.QuoteIdent(c.Name)
		marks[i] = "?"
	}
	return "INSERT INTO " + schema.QuoteIdent(t.Name) +
		" (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
}

// idDeterminable reports whether last-insert ids are meaningful for the
// table: a single integer primary key aliases the rowid.
func idDeterminable(t *schema.Table) bool {
	pk, ok := t.PrimaryKey()
	return ok && pk.Type == schema.Integer
}

func rowID(res db.Result, usable bool) sql.NullInt64 {
	if !usable {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: res.LastInsertID, Valid: true}
}
