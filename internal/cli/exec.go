package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// newExecCommand creates the exec command, the ad-hoc SQL bypass for
// callers needing full expressiveness.
func newExecCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exec SQL",
		Short: "Execute an ad-hoc SQL statement",
		Example: `  slashql exec "SELECT * FROM users WHERE age > 21"
  slashql exec "DELETE FROM users WHERE id = 7"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			stmt := strings.TrimSpace(args[0])
			if isReadStatement(stmt) {
				rows, err := st.FetchAll(cmd.Context(), stmt)
				if err != nil {
					return err
				}
				return renderRows(cmd.OutOrStdout(), rows, formatFlag)
			}

			res, err := st.Exec(cmd.Context(), stmt)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "rows affected: %d (last insert id: %d)\n",
				res.RowsAffected, res.LastInsertID)
			return nil
		},
	}
}

func isReadStatement(stmt string) bool {
	head := strings.ToUpper(stmt)
	return strings.HasPrefix(head, "SELECT") || strings.HasPrefix(head, "PRAGMA") ||
		strings.HasPrefix(head, "WITH") || strings.HasPrefix(head, "EXPLAIN")
}
