package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-service/internal/core/domain"
	"github.com/99minutos/user-service/internal/core/ports"
)

// Secret keys as written by the platform team into the secret store.
const (
	keySigningKey       = "Secret"
	keyIssuer           = "Issuer"
	keyAudience         = "Audience"
	keyConnectionString = "mongoConnectionString"
	keyDatabaseName     = "MongoDbDatabaseName"
	keyAuthServiceURL   = "AuthServiceUrl"
)

// SecretLayout locates the two secret groups inside the store.
type SecretLayout struct {
	Mount          string
	SigningPath    string
	ConnectionPath string
}

// DefaultSecretLayout matches the paths provisioned in every environment.
var DefaultSecretLayout = SecretLayout{
	Mount:          "secret",
	SigningPath:    "Secrets",
	ConnectionPath: "Connections",
}

// BootstrapSecrets reads the signing group and the connection group from store
// and returns them as a bundle. Any read failure or missing value is fatal and
// wraps domain.ErrConfigurationMissing; the connection group is not read when
// the signing group is incomplete.
func BootstrapSecrets(ctx context.Context, store ports.SecretStore, layout SecretLayout, log zerolog.Logger) (domain.SecretBundle, error) {
	if layout.Mount == "" {
		layout.Mount = DefaultSecretLayout.Mount
	}
	if layout.SigningPath == "" {
		layout.SigningPath = DefaultSecretLayout.SigningPath
	}
	if layout.ConnectionPath == "" {
		layout.ConnectionPath = DefaultSecretLayout.ConnectionPath
	}

	log.Info().Str("mount", layout.Mount).Str("path", layout.SigningPath).Msg("fetching signing parameters")
	signing, err := readGroup(ctx, store, layout.Mount, layout.SigningPath, keySigningKey, keyIssuer, keyAudience)
	if err != nil {
		return domain.SecretBundle{}, err
	}

	log.Info().Str("mount", layout.Mount).Str("path", layout.ConnectionPath).Msg("fetching connection parameters")
	conn, err := readGroup(ctx, store, layout.Mount, layout.ConnectionPath, keyConnectionString, keyDatabaseName, keyAuthServiceURL)
	if err != nil {
		return domain.SecretBundle{}, err
	}

	log.Info().Msg("secrets loaded")

	return domain.SecretBundle{
		SigningKey:       signing[keySigningKey],
		Issuer:           signing[keyIssuer],
		Audience:         signing[keyAudience],
		ConnectionString: conn[keyConnectionString],
		DatabaseName:     conn[keyDatabaseName],
		AuthServiceURL:   conn[keyAuthServiceURL],
	}, nil
}

func readGroup(ctx context.Context, store ports.SecretStore, mount, path string, keys ...string) (map[string]string, error) {
	location := mount + "/" + path

	data, err := store.Read(ctx, path, mount)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrConfigurationMissing, location, err)
	}

	for _, k := range keys {
		if data[k] == "" {
			return nil, &domain.MissingSecretError{Field: k, Path: location}
		}
	}
	return data, nil
}
