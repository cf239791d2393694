// Package cli provides the slashql command-line interface.
package cli

import (
	"log/slog"
	"os"

	"github.com/slashql/slashql/internal/config"
	"github.com/slashql/slashql/internal/db"
	"github.com/slashql/slashql/internal/store"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

var (
	cfgFile      string
	databaseFlag string
	tableFlag    string
	formatFlag   string
	cfg          *config.Config
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "slashql",
		Short: "slashql - bracketed query DSL over SQLite",
		Long: `slashql runs \select queries against a pooled SQLite database.

Queries use backslash markers: condition groups are comma-separated,
candidate values within a group are pipe-separated, and '?' marks a
fuzzy pattern term:

  \select 1|9, 2 \columns id, name \from users \select`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return err
			}
			if databaseFlag != "" {
				cfg.Database = databaseFlag
			}
			if tableFlag != "" {
				cfg.DefaultTable = tableFlag
			}

			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: cfg.SlogLevel(),
			})))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config file (default slashql.yaml)")
	rootCmd.PersistentFlags().StringVarP(&databaseFlag, "database", "d", "", "SQLite database file (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&tableFlag, "table", "t", "", "Default table for queries and inserts")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "table", "Output format: table, json, csv")

	rootCmd.AddCommand(newQueryCommand())
	rootCmd.AddCommand(newExecCommand())
	rootCmd.AddCommand(newTablesCommand())
	rootCmd.AddCommand(newCreateTableCommand())

	return rootCmd
}

// openStore opens the configured database and reflects existing table
// schemas into the registry.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	client, err := db.Open(cfg.Database, db.PoolConfig{
		Size:           cfg.PoolSize,
		AcquireTimeout: cfg.AcquireTimeout,
	}, slog.Default())
	if err != nil {
		return nil, err
	}

	st := store.New(client, store.Options{
		DefaultTable: cfg.DefaultTable,
		Logger:       slog.Default(),
	})
	if err := st.RefreshSchemas(cmd.Context()); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
