package secrets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/user-service/internal/core/domain"
)

// fakeVault serves KV v2 reads from groups keyed by "<mount>/data/<path>".
func fakeVault(t *testing.T, token string, groups map[string]map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Vault-Token") != token {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"errors":["permission denied"]}`))
			return
		}
		data, ok := groups[r.URL.Path[len("/v1/"):]]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":[]}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"request_id":     "req-1",
			"lease_id":       "",
			"renewable":      false,
			"lease_duration": 0,
			"data": map[string]any{
				"data": data,
				"metadata": map[string]any{
					"created_time":    "2024-01-02T03:04:05.000000000Z",
					"custom_metadata": nil,
					"deletion_time":   "",
					"destroyed":       false,
					"version":         1,
				},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVaultStore_Read(t *testing.T) {
	srv := fakeVault(t, "s.good", map[string]map[string]any{
		"secret/data/Secrets": {
			"Secret":   "signing-key",
			"Issuer":   "auth-service",
			"Audience": "user-service",
			"Rotation": 3,
			"Unused":   nil,
		},
	})

	store, err := NewVaultStore(VaultConfig{Addr: srv.URL, Token: "s.good"})
	require.NoError(t, err)

	data, err := store.Read(context.Background(), "Secrets", "secret")
	require.NoError(t, err)

	assert.Equal(t, "signing-key", data["Secret"])
	assert.Equal(t, "auth-service", data["Issuer"])
	assert.Equal(t, "user-service", data["Audience"])
	assert.Equal(t, "3", data["Rotation"])
	assert.NotContains(t, data, "Unused")
}

func TestVaultStore_ReadMissingPath(t *testing.T) {
	srv := fakeVault(t, "s.good", map[string]map[string]any{})

	store, err := NewVaultStore(VaultConfig{Addr: srv.URL, Token: "s.good"})
	require.NoError(t, err)

	_, err = store.Read(context.Background(), "Connections", "secret")
	assert.Error(t, err)
}

func TestVaultStore_ReadDenied(t *testing.T) {
	srv := fakeVault(t, "s.good", map[string]map[string]any{
		"secret/data/Secrets": {"Secret": "x"},
	})

	store, err := NewVaultStore(VaultConfig{Addr: srv.URL, Token: "s.bad"})
	require.NoError(t, err)

	_, err = store.Read(context.Background(), "Secrets", "secret")
	assert.Error(t, err)
}

func TestNewVaultStore_RequiresToken(t *testing.T) {
	_, err := NewVaultStore(VaultConfig{Addr: "http://127.0.0.1:8200"})
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)
}

func TestNewVaultStore_SkipVerify(t *testing.T) {
	store, err := NewVaultStore(VaultConfig{Addr: "https://vaulthost:8201", Token: "s.good", SkipVerify: true})
	require.NoError(t, err)
	assert.NotNil(t, store)
}
