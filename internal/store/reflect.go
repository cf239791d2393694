package store

import (
	"context"
	"strings"

	"github.com/slashql/slashql/internal/schema"

	"github.com/spf13/cast"
)

// RefreshSchemas loads table definitions from an existing database file
// into the registry. Reflected tables bypass the exactly-one-primary-key
// validation: a legacy table without a usable key is still listable, and
// the keyed query path rejects it when targeted.
func (s *Store) RefreshSchemas(ctx context.Context) error {
	tables, err := s.client.FetchAll(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'")
	if err != nil {
		return err
	}

	for _, row := range tables {
		name := cast.ToString(row["name"])
		if name == "" {
			continue
		}

		// PRAGMA arguments cannot be bound; the name comes from
		// sqlite_master and is quoted.
		info, err := s.client.FetchAll(ctx, "PRAGMA table_info("+schema.QuoteIdent(name)+")")
		if err != nil {
			return err
		}

		cols := make([]schema.Column, 0, len(info))
		for _, ci := range info {
			colType, known := schema.TypeFromDeclared(cast.ToString(ci["type"]))
			if !known {
				s.log.Warn("unknown declared type, treating as text",
					"table", name, "column", ci["name"], "declared", ci["type"])
			}
			cols = append(cols, schema.Column{
				Name:       cast.ToString(ci["name"]),
				Type:       colType,
				PrimaryKey: cast.ToInt(ci["pk"]) > 0,
				NotNull:    cast.ToInt(ci["notnull"]) > 0,
			})
		}

		s.registry.Put(schema.NewTable(strings.TrimSpace(name), cols))
		s.log.Debug("reflected table schema", "table", name, "columns", len(cols))
	}

	return nil
}
