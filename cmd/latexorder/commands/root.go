package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"latexorder-bot/internal/config"
	"latexorder-bot/internal/storage"
	"latexorder-bot/pkg/logger"
)

var (
	cfg *config.Config
	log *zap.Logger
)

func Execute() error {
	root := &cobra.Command{
		Use:           "latexorder",
		Short:         "Telegram bot for quoting and ordering LaTeX conversions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			log, err = logger.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
	}

	root.AddCommand(serveCmd(), migrateCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		if log != nil {
			log.Error("Command failed", zap.Error(err))
		} else {
			fmt.Fprintln(root.ErrOrStderr(), err)
		}
		return err
	}
	return nil
}

func postgresConfig(c *config.Config) storage.Config {
	return storage.Config{
		Host:            c.DBHost,
		Port:            c.DBPort,
		User:            c.DBUser,
		Password:        c.DBPassword,
		DBName:          c.DBName,
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
		ConnMaxIdleTime: c.DBConnMaxIdleTime,
	}
}
