package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/slashql/slashql/internal/schema"
	"github.com/spf13/cobra"
)

// newTablesCommand creates the tables command.
func newTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			names := st.Registry().Tables()
			sort.Strings(names)

			out := cmd.OutOrStdout()
			for _, name := range names {
				t, err := st.Registry().Resolve(name)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(out, "%s (%s)\n", name, describeColumns(t))
			}
			_, _ = fmt.Fprintf(out, "(%d tables)\n", len(names))
			return nil
		},
	}
}

func describeColumns(t *schema.Table) string {
	parts := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		desc := c.Name + " " + c.Type.String()
		if c.PrimaryKey {
			desc += " pk"
		}
		if c.Unique {
			desc += " unique"
		}
		parts = append(parts, desc)
	}
	return strings.Join(parts, ", ")
}

// newCreateTableCommand creates the create-table command. Columns are given
// as name:type with optional :pk / :unique / :notnull flags.
func newCreateTableCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create-table NAME COLUMN...",
		Short: "Create a table from column specs",
		Example: `  slashql create-table users id:integer:pk name:text:unique age:integer
  slashql create-table notes key:text:pk body:text`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cols, err := parseColumnSpecs(args[1:])
			if err != nil {
				return err
			}

			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.CreateTable(cmd.Context(), args[0], cols); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created table %s\n", args[0])
			return nil
		},
	}
}

func parseColumnSpecs(specs []string) ([]schema.Column, error) {
	cols := make([]schema.Column, 0, len(specs))
	for _, spec := range specs {
		parts := strings.Split(spec, ":")
		if len(parts) < 2 {
			return nil, fmt.Errorf("invalid column spec %q, want name:type[:pk|:unique|:notnull]", spec)
		}

		typ, ok := schema.ParseType(parts[1])
		if !ok {
			return nil, fmt.Errorf("unknown column type %q in spec %q", parts[1], spec)
		}

		col := schema.Column{Name: parts[0], Type: typ}
		for _, flag := range parts[2:] {
			switch strings.ToLower(flag) {
			case "pk", "primary":
				col.PrimaryKey = true
			case "unique":
				col.Unique = true
			case "notnull":
				col.NotNull = true
			default:
				return nil, fmt.Errorf("unknown column flag %q in spec %q", flag, spec)
			}
		}
		cols = append(cols, col)
	}
	return cols, nil
}
