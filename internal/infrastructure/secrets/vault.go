package secrets

import (
	"context"
	"fmt"

	vault "github.com/hashicorp/vault/api"

	"github.com/99minutos/user-service/internal/core/domain"
	"github.com/99minutos/user-service/internal/core/ports"
)

var _ ports.SecretStore = (*VaultStore)(nil)

// VaultConfig captures how to reach Vault. SkipVerify disables TLS
// verification and is meant for local development only.
type VaultConfig struct {
	Addr       string
	Token      string
	SkipVerify bool
}

// VaultStore reads KV version 2 secrets.
type VaultStore struct {
	client *vault.Client
}

// NewVaultStore builds a token-authenticated Vault client. No request is made
// until Read is called.
func NewVaultStore(cfg VaultConfig) (*VaultStore, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("%w: vault token", domain.ErrConfigurationMissing)
	}

	vcfg := vault.DefaultConfig()
	if cfg.Addr != "" {
		vcfg.Address = cfg.Addr
	}
	if cfg.SkipVerify {
		if err := vcfg.ConfigureTLS(&vault.TLSConfig{Insecure: true}); err != nil {
			return nil, fmt.Errorf("vault tls: %w", err)
		}
	}

	client, err := vault.NewClient(vcfg)
	if err != nil {
		return nil, fmt.Errorf("vault client: %w", err)
	}
	client.SetToken(cfg.Token)

	return &VaultStore{client: client}, nil
}

// Read returns the latest version of the secret at mountPoint/path with every
// value rendered as a string. Null values are dropped.
func (s *VaultStore) Read(ctx context.Context, path, mountPoint string) (map[string]string, error) {
	secret, err := s.client.KVv2(mountPoint).Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("vault kv get %s/%s: %w", mountPoint, path, err)
	}

	out := make(map[string]string, len(secret.Data))
	for k, v := range secret.Data {
		if v == nil {
			continue
		}
		if str, ok := v.(string); ok {
			out[k] = str
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	return out, nil
}
