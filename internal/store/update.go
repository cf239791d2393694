package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/slashql/slashql/internal/db"
	"github.com/slashql/slashql/internal/schema"
)

// Update modifies existing rows identified by their primary key. Each
// record must contain the primary-key field plus at least one other column;
// non-key columns present in the record are updated. A record whose key
// does not exist yet is inserted instead. All records run inside one
// transaction scope.
//
// The returned counts are, per record in input order, the number of rows
// the UPDATE touched (1 for a fallback insert).
func (s *Store) Update(ctx context.Context, records []map[string]any, table string) ([]int64, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("update: no records supplied")
	}

	t, err := s.resolveTable(table)
	if err != nil {
		return nil, err
	}

	pk, ok := t.PrimaryKey()
	if !ok {
		return nil, &schema.MissingPrimaryKeyError{Table: t.Name}
	}

	affected := make([]int64, 0, len(records))

	err = s.client.WithTx(ctx, func(ctx context.Context, tx *db.Tx) error {
		for i, record := range records {
			n, err := s.updateOne(ctx, tx, t, pk, record)
			if err != nil {
				return fmt.Errorf("update record %d: %w", i, err)
			}
			affected = append(affected, n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return affected, nil
}

func (s *Store) updateOne(ctx context.Context, tx *db.Tx, t *schema.Table, pk schema.Column, record map[string]any) (int64, error) {
	for key := range record {
		if _, ok := t.Column(key); !ok {
			return 0, &schema.UnknownColumnError{Table: t.Name, Column: key}
		}
	}

	keyRaw, ok := record[pk.Name]
	if !ok {
		return 0, fmt.Errorf("missing primary-key field %q", pk.Name)
	}
	keyVal := s.coerce(t, pk, keyRaw)

	var setClauses []string
	var args []any
	for _, col := range t.Columns {
		if col.Name == pk.Name {
			continue
		}
		v, ok := record[col.Name]
		if !ok {
			continue
		}
		setClauses = append(setClauses, schema.QuoteIdent(col.Name)+" = ?")
		args = append(args, s.coerce(t, col, v))
	}
	if len(setClauses) == 0 {
		return 0, fmt.Errorf("no columns to update besides the primary key")
	}

	stmt := "UPDATE " + schema.QuoteIdent(t.Name) + " SET " + strings.Join(setClauses, ", ") +
		" WHERE " + schema.QuoteIdent(pk.Name) + " = ?"
	args = append(args, keyVal)

	res, err := tx.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	if res.RowsAffected > 0 {
		return res.RowsAffected, nil
	}

	// Unknown key: fall back to inserting the record.
	insArgs, err := s.bindNamed(t, record)
	if err != nil {
		return 0, err
	}
	if _, err := tx.Exec(ctx, insertSQL(t), insArgs...); err != nil {
		return 0, err
	}
	return 1, nil
}
