package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"latexorder-bot/internal/bot"
	"latexorder-bot/internal/catalog"
	"latexorder-bot/internal/httpserver"
	"latexorder-bot/internal/storage"
	redisstore "latexorder-bot/internal/storage/redis"
	"latexorder-bot/internal/submission"
	"latexorder-bot/pkg/api"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and health endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before starting")
	return cmd
}

func serve(ctx context.Context, migrate bool) error {
	snapshots := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL)
	defer snapshots.Close()

	pgStorage, err := storage.NewPostgresStorage(ctx, postgresConfig(cfg), log)
	if err != nil {
		return err
	}
	defer pgStorage.Close()

	if migrate {
		if err := storage.RunMigrations(ctx, pgStorage.DB(), log); err != nil {
			return err
		}
	}

	exporter := storage.NewExporter(cfg.ReportsDir)

	botAPI, err := bot.NewAPI(cfg.TelegramToken, cfg.TelegramDebug, log)
	if err != nil {
		return err
	}

	submissions := submission.New(submission.Deps{
		Orders:    pgStorage,
		Forwarder: forwarder(),
		Notifier:  bot.NewAdminNotifier(botAPI, exporter, cfg.AdminIDs, cfg.AdminChannelID, log),
		Timeout:   cfg.SubmitTimeout,
		Logger:    log,
	})

	tgBot := bot.New(botAPI, cfg, bot.Deps{
		Catalog:   catalog.Default(),
		Submitter: submissions,
		Snapshots: snapshots,
		Orders:    pgStorage,
		Exporter:  exporter,
	}, log)

	srv := httpserver.New(httpserver.Config{
		Address: cfg.HTTPAddr,
		Checks: map[string]httpserver.Pinger{
			"postgres": pgStorage,
			"redis":    snapshots,
		},
		Logger: log,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return tgBot.Start(gctx)
	})

	g.Go(func() error {
		log.Info("Health server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()

	// orders handed over before shutdown still get saved
	submissions.Wait()

	if err != nil {
		return err
	}
	log.Info("Bot shutdown gracefully")
	return nil
}

// forwarder is nil unless an intake backend is configured.
func forwarder() submission.Forwarder {
	if cfg.APIBaseURL == "" {
		return nil
	}
	return api.NewClient(cfg.APIBaseURL, cfg.APIKey, cfg.HTTPRequestTimeout, log)
}
