package commands

import (
	"context"
	"database/sql"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"latexorder-bot/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the orders database schema",
	}

	cmd.AddCommand(
		migrationCmd("up", "Apply all pending migrations", storage.RunMigrations),
		migrationCmd("down", "Roll back the last migration", storage.RollbackMigration),
		migrationCmd("status", "Show migration status", storage.Status),
	)
	return cmd
}

func migrationCmd(use, short string, run func(context.Context, *sql.DB, *zap.Logger) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pg, err := storage.NewPostgresStorage(ctx, postgresConfig(cfg), log)
			if err != nil {
				return err
			}
			defer pg.Close()

			return run(ctx, pg.DB(), log)
		},
	}
}
