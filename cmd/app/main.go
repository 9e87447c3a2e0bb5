package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/vtorprice/exchange-api/internal/app"
)

func main() {
	cmd := &cli.Command{
		Name:  "exchange-api",
		Usage: "Recyclables trading exchange API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Value: ":8080",
				Usage: "HTTP listen address",
			},
			&cli.StringFlag{
				Name:  "db-path",
				Value: "./exchange.sqlite",
				Usage: "SQLite file path",
			},
			&cli.StringFlag{
				Name:    "jwt-secret",
				Sources: cli.EnvVars("EXCHANGE_JWT_SECRET"),
				Usage:   "HS256 signing secret for access tokens",
			},
			&cli.StringFlag{
				Name:    "webhook-url",
				Sources: cli.EnvVars("EXCHANGE_WEBHOOK_URL"),
				Usage:   "Optional webhook target for domain events",
			},
			&cli.StringFlag{
				Name:    "webhook-secret",
				Sources: cli.EnvVars("EXCHANGE_WEBHOOK_SECRET"),
				Usage:   "HMAC-SHA256 signing secret for outbound webhook requests",
			},
			&cli.BoolFlag{
				Name:  "pretty-log",
				Usage: "Human-readable console log output",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			log := zerolog.New(os.Stderr).With().Timestamp().Logger()
			if c.Bool("pretty-log") {
				log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
			}

			cfg := app.Config{
				Addr:          c.String("addr"),
				DBPath:        c.String("db-path"),
				JWTSecret:     c.String("jwt-secret"),
				WebhookURL:    c.String("webhook-url"),
				WebhookSecret: c.String("webhook-secret"),
			}

			server, closer, err := app.NewServer(ctx, cfg, log)
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}
			defer func() {
				if closeErr := closer.Close(); closeErr != nil {
					log.Error().Err(closeErr).Msg("close resources")
				}
			}()

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", cfg.Addr).Msg("listening")
				errCh <- server.ListenAndServe()
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			case sig := <-sigCh:
				log.Info().Str("signal", sig.String()).Msg("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
