package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/99minutos/user-service/internal/core/domain"
)

const envProduction = "production"

// DefaultCORSOrigins is the allow-list used when CORS_ALLOWED_ORIGINS is unset.
var DefaultCORSOrigins = []string{
	"http://localhost:8081",
	"http://localhost:8080",
	"https://localhost:8081",
	"http://localhost:4000",
	"http://localhost:5162",
	"http://localhost:8201",
}

// Config holds process settings. Connection strings and signing material are
// not here: they are bootstrapped from Vault at startup.
type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	AdminRole       string        `env:"ADMIN_ROLE,       default=admin"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS"`

	Vault      VaultConfig
	Mongo      MongoConfig
	Redis      RedisConfig
	Login      LoginConfig
	AuthClient AuthClientConfig
}

type VaultConfig struct {
	Addr            string `env:"VAULT_ADDR,             default=https://vaulthost:8201"`
	Token           string `env:"VAULT_TOKEN"`
	Mount           string `env:"VAULT_MOUNT,            default=secret"`
	SigningPath     string `env:"VAULT_SIGNING_PATH,     default=Secrets"`
	ConnectionsPath string `env:"VAULT_CONNECTIONS_PATH, default=Connections"`
	SkipVerify      bool   `env:"VAULT_SKIP_VERIFY,      default=false"`
}

type MongoConfig struct {
	Collection string        `env:"MONGO_COLLECTION, default=Users"`
	Timeout    time.Duration `env:"MONGO_TIMEOUT,    default=10s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type LoginConfig struct {
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	Window      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
}

type AuthClientConfig struct {
	Timeout time.Duration `env:"AUTH_CLIENT_TIMEOUT, default=5s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = append([]string(nil), DefaultCORSOrigins...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service must not start with.
func (c *Config) Validate() error {
	if c.Vault.Token == "" {
		return fmt.Errorf("%w: VAULT_TOKEN", domain.ErrConfigurationMissing)
	}
	if c.Vault.SkipVerify && c.IsProduction() {
		return fmt.Errorf("config: VAULT_SKIP_VERIFY is not allowed in %s", envProduction)
	}
	if c.Login.MaxAttempts < 0 {
		return fmt.Errorf("config: LOGIN_MAX_ATTEMPTS must not be negative")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == envProduction
}
