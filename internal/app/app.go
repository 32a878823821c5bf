// Package app wires configuration, secrets, stores and the HTTP API into a
// runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/user-service/internal/api"
	"github.com/99minutos/user-service/internal/api/middleware"
	"github.com/99minutos/user-service/internal/core/ports"
	"github.com/99minutos/user-service/internal/core/service"
	"github.com/99minutos/user-service/internal/infrastructure/authclient"
	mongodb "github.com/99minutos/user-service/internal/infrastructure/db/mongo"
	redisdb "github.com/99minutos/user-service/internal/infrastructure/db/redis"
	"github.com/99minutos/user-service/internal/infrastructure/http/handlers"
	"github.com/99minutos/user-service/internal/pkg/config"
)

type dialers struct {
	mongo func(ctx context.Context, cfg mongodb.Config) (*mongo.Client, *mongo.Database, error)
	redis func(ctx context.Context, cfg redisdb.Config) (*goredis.Client, error)
}

var defaultDialers = dialers{
	mongo: mongodb.Connect,
	redis: redisdb.Connect,
}

// App owns the long-lived connections and the HTTP server.
type App struct {
	log    zerolog.Logger
	echo   *echo.Echo
	server *http.Server
	mongo  *mongo.Client
	redis  *goredis.Client
}

// New bootstraps secrets from store and builds the service. Nothing is dialed
// until every secret is present.
func New(ctx context.Context, cfg *config.Config, store ports.SecretStore, log zerolog.Logger) (*App, error) {
	return build(ctx, cfg, store, log, defaultDialers)
}

func build(ctx context.Context, cfg *config.Config, store ports.SecretStore, log zerolog.Logger, d dialers) (*App, error) {
	// 1. Secrets
	bundle, err := service.BootstrapSecrets(ctx, store, service.SecretLayout{
		Mount:          cfg.Vault.Mount,
		SigningPath:    cfg.Vault.SigningPath,
		ConnectionPath: cfg.Vault.ConnectionsPath,
	}, log.With().Str("component", "secret_bootstrap").Logger())
	if err != nil {
		return nil, fmt.Errorf("bootstrap secrets: %w", err)
	}

	a := &App{log: log}

	// 2. MongoDB
	client, db, err := d.mongo(ctx, mongodb.Config{
		URI:      bundle.ConnectionString,
		Database: bundle.DatabaseName,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return nil, err
	}
	a.mongo = client
	log.Info().Str("database", bundle.DatabaseName).Msg("connected to MongoDB")

	repo, err := mongodb.NewUserRepository(db, cfg.Mongo.Collection, cfg.Mongo.Timeout, log)
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure user indexes")
	}

	checks := []handlers.Check{handlers.MongoCheck(db)}

	// 3. Redis, only when throttling is on
	var limiter service.LoginLimiter
	if cfg.Login.MaxAttempts > 0 {
		rdb, err := d.redis(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.close(ctx)
			return nil, err
		}
		a.redis = rdb
		limiter = redisdb.NewLoginAttempts(rdb, cfg.Login.MaxAttempts, cfg.Login.Window)
		checks = append(checks, handlers.RedisCheck(rdb))
		log.Info().Str("addr", cfg.Redis.Addr).Int("max_attempts", cfg.Login.MaxAttempts).Msg("login throttling enabled")
	} else {
		log.Warn().Msg("login throttling disabled")
	}

	// 4. Auth service
	ac, err := authclient.New(bundle.AuthServiceURL, cfg.AuthClient.Timeout, log)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	// 5. Services and router
	a.echo = api.NewRouter(api.Dependencies{
		Users:       service.NewUserService(repo, log),
		Credentials: service.NewCredentialValidator(repo, limiter, log),
		AuthClient:  ac,
		Token: middleware.TokenConfig{
			SigningKey: bundle.SigningKey,
			Issuer:     bundle.Issuer,
			Audience:   bundle.Audience,
		},
		AdminRole:   cfg.AdminRole,
		CORSOrigins: cfg.CORSOrigins,
		Checks:      checks,
		Swagger:     !cfg.IsProduction(),
		Logger:      log,
	})

	a.server = &http.Server{
		Addr:         net.JoinHostPort("", cfg.Port),
		Handler:      a.echo,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return a, nil
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.echo
}

// Start serves HTTP until Shutdown is called.
func (a *App) Start() error {
	a.log.Info().Str("addr", a.server.Addr).Msg("starting server")
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests, then closes the store connections.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	a.close(ctx)
	return err
}

func (a *App) close(ctx context.Context) {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close Redis client")
		}
	}
	if a.mongo != nil {
		if err := a.mongo.Disconnect(ctx); err != nil {
			a.log.Warn().Err(err).Msg("failed to disconnect MongoDB")
		}
	}
}
