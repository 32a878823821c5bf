package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/99minutos/user-service/internal/app"
	"github.com/99minutos/user-service/internal/infrastructure/secrets"
	"github.com/99minutos/user-service/internal/pkg/config"
	"github.com/99minutos/user-service/pkg/logger"
)

// @title						User Service API
// @version					1.0
// @description				User accounts, credential validation and login forwarding.
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Configuration. The logger is configured from it, so failures here go
	// through zerolog's default JSON logger on stderr.
	cfg, err := config.Load(ctx)
	if err != nil {
		zlog.Error().Err(err).Msg("failed to load configuration")
		return err
	}

	// 2. Logger
	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "user-service",
	})
	l := logger.Component("main")
	l.Info().Str("env", cfg.Env).Msg("configuration loaded")

	if err := serve(ctx, stop, cfg, l); err != nil {
		l.Error().Err(err).Msg("user-service stopped")
		return err
	}
	l.Info().Msg("graceful shutdown complete")
	return nil
}

func serve(ctx context.Context, stop context.CancelFunc, cfg *config.Config, l zerolog.Logger) error {
	// 3. Secret store
	store, err := secrets.NewVaultStore(secrets.VaultConfig{
		Addr:       cfg.Vault.Addr,
		Token:      cfg.Vault.Token,
		SkipVerify: cfg.Vault.SkipVerify,
	})
	if err != nil {
		return err
	}
	if cfg.Vault.SkipVerify {
		l.Warn().Msg("vault TLS verification disabled")
	}

	// 4. Application
	a, err := app.New(ctx, cfg, store, logger.Get())
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Start()
	}()

	// 5. Graceful shutdown
	var startErr error
	select {
	case startErr = <-errCh:
	case <-ctx.Done():
		l.Info().Msg("shutting down gracefully, press Ctrl+C again to force")
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := a.Shutdown(shutdownCtx); err != nil && startErr == nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return err
	}
	if startErr != nil {
		return startErr
	}
	return <-errCh
}
