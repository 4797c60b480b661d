package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/duesflow/duesflow/internal/cli"
	"github.com/duesflow/duesflow/internal/config"
	"github.com/duesflow/duesflow/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

This command ensures your local database has all the required
tables and indexes for the application to function properly.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbPath := viper.GetString("database.path")
			if dbPath == "" {
				dbPath = "$HOME/.local/share/duesflow/duesflow.db"
			}
			dbPath = config.ExpandPath(dbPath)

			slog.Info("Running database migrations", "database", dbPath)

			store, err := storage.NewSQLiteStorage(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Database migrations completed"))
			return nil
		},
	}
}
