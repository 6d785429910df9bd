package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/songify-io/songify/pkg/cli/config"
	httpctrl "github.com/songify-io/songify/pkg/controller/http"
	"github.com/songify-io/songify/pkg/service/worker"
	"github.com/songify-io/songify/pkg/usecase"
	"github.com/songify-io/songify/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var baseURL string
	var syncInterval time.Duration
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var slackCfg config.Slack
	var spotifyCfg config.Spotify

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("SONGIFY_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Base URL of the application (e.g., https://songify.example.com)",
			Sources:     cli.EnvVars("SONGIFY_BASE_URL"),
			Destination: &baseURL,
		},
		&cli.DurationFlag{
			Name:        "sync-interval",
			Usage:       "Polling interval of the status sync loop",
			Value:       worker.DefaultSyncInterval,
			Sources:     cli.EnvVars("SONGIFY_SYNC_INTERVAL"),
			Destination: &syncInterval,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, spotifyCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the sync loop and HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := appCfg.Configure(); err != nil {
				return goerr.Wrap(err, "failed to load app configuration")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			slackSvc, err := slackCfg.Configure(baseURL)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Slack service")
			}

			spotifySvc, err := spotifyCfg.Configure(baseURL)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Spotify service")
			}

			uc := usecase.New(repo, spotifySvc, slackSvc,
				usecase.WithDefaultEmoji(appCfg.DefaultEmoji),
				usecase.WithPausedEmoji(appCfg.PausedEmoji),
			)

			syncWorker := worker.NewStatusSyncWorker(uc, syncInterval)
			if err := syncWorker.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start status sync worker")
			}

			httpHandler := httpctrl.New(uc, slackCfg.SigningSecret(),
				httpctrl.WithCommandName(appCfg.CommandName),
			)
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "base_url", baseURL)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				syncWorker.Stop()
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				// Stop the sync loop before the HTTP surface goes away
				syncWorker.Stop()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
