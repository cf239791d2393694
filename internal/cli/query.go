package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/slashql/slashql/internal/store"
	"github.com/spf13/cobra"
)

// newQueryCommand creates the query command. With no argument it starts an
// interactive REPL.
func newQueryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "query [DSL]",
		Short: "Run a \\select DSL query",
		Example: `  # Exact lookup by primary key, short-circuit across candidates
  slashql query '\select 1|9, 2 \from users \select'

  # Fuzzy prefix match with column selection
  slashql query '\select ali? \columns id, name \from users \select'

  # Interactive mode
  slashql query`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if len(args) == 0 {
				return runQueryREPL(cmd, st)
			}

			rows, err := st.Select(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderRows(cmd.OutOrStdout(), rows, formatFlag)
		},
	}
}

func runQueryREPL(cmd *cobra.Command, st *store.Store) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "slashql> ",
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "slashql REPL (database: %s)\n", cfg.Database)
	_, _ = fmt.Fprintln(out, `Enter \select queries; .quit to exit`)
	_, _ = fmt.Fprintln(out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ".quit" || line == ".exit" {
			break
		}

		rows, err := st.Select(cmd.Context(), line)
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			continue
		}
		if err := renderRows(out, rows, formatFlag); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out)
	}

	return nil
}
