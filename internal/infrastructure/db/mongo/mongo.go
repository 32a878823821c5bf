package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/user-service/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
// URI and Database come from the secret store, never from the environment.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	if cfg.URI == "" {
		return nil, nil, fmt.Errorf("%w: mongo connection string", domain.ErrConfigurationMissing)
	}
	if cfg.Database == "" {
		return nil, nil, fmt.Errorf("%w: mongo database name", domain.ErrConfigurationMissing)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// clientOptions applies uri and then turns driver retries off, overriding any
// retryReads or retryWrites flag in the URI. Every repository call is one
// round trip and store faults surface to the caller as they happen.
func clientOptions(uri string) *options.ClientOptions {
	return withoutRetries(options.Client().ApplyURI(uri))
}

func withoutRetries(opts *options.ClientOptions) *options.ClientOptions {
	return opts.SetRetryReads(false).SetRetryWrites(false)
}
