package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/kiken/pkg/cli/config"
	httpctrl "github.com/secmon-lab/kiken/pkg/controller/http"
	"github.com/secmon-lab/kiken/pkg/service/classifier"
	"github.com/secmon-lab/kiken/pkg/service/sampler"
	"github.com/secmon-lab/kiken/pkg/usecase"
	"github.com/secmon-lab/kiken/pkg/utils/async"
	"github.com/secmon-lab/kiken/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var appCfg config.App
	var datasetCfg config.Dataset
	var geminiCfg config.Gemini

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("KIKEN_ADDR"),
			Destination: &addr,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, datasetCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			tuning, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load application configuration")
			}

			loader, err := datasetCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure dataset source")
			}

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}

			cls, err := classifier.New(llmClient, tuning.ClassifierOptions()...)
			if err != nil {
				return goerr.Wrap(err, "failed to create classifier")
			}

			smp := sampler.New(tuning.SamplerOptions()...)
			uc := usecase.New(loader, cls, usecase.WithSampler(smp))

			// Warm the dataset cache so the first request does not pay the
			// fetch cost
			async.Dispatch(ctx, func(ctx context.Context) error {
				if _, err := loader.Load(ctx); err != nil {
					return goerr.Wrap(err, "failed to warm dataset cache")
				}
				return nil
			})

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, loader),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "dataset", datasetCfg)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

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
