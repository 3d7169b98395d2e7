package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"latexorder-bot/internal/storage/migrations"
)

const migrationsDir = "."

type gooseCommand func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error

// RunMigrations applies every pending orders migration.
func RunMigrations(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	return migrate(ctx, db, logger, "storage.RunMigrations", "apply", goose.UpContext)
}

// RollbackMigration reverts the latest applied migration.
func RollbackMigration(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	return migrate(ctx, db, logger, "storage.RollbackMigration", "roll back", goose.DownContext)
}

// Status prints the applied state of each embedded migration.
func Status(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	return migrate(ctx, db, logger, "storage.Status", "report", goose.StatusContext)
}

func migrate(ctx context.Context, db *sql.DB, logger *zap.Logger, operation, action string, run gooseCommand) error {
	log := logger.With(zap.String("operation", operation))

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("%s: failed to set dialect: %w", operation, err)
	}

	log.Info("Migration started", zap.String("action", action))
	if err := run(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("%s: failed to %s migrations: %w", operation, action, err)
	}
	log.Info("Migration finished", zap.String("action", action))
	return nil
}
