package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/user-service/internal/core/domain"
)

func authServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Login(t *testing.T) {
	srv := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/Auth/login", r.URL.Path)

		var body loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Username != "alice" || body.Password != "p1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "jwt-token"})
	})

	c, err := New(srv.URL+"/", time.Second, zerolog.Nop())
	require.NoError(t, err)

	token, err := c.Login(context.Background(), "alice", "p1")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)

	_, err = c.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestClient_LoginUpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"garbage body", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		}},
		{"empty token", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"token":""}`))
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := authServer(t, tc.handler)
			c, err := New(srv.URL, time.Second, zerolog.Nop())
			require.NoError(t, err)

			_, err = c.Login(context.Background(), "alice", "p1")
			assert.ErrorIs(t, err, domain.ErrAuthServiceUnavailable)
		})
	}
}

func TestClient_LoginUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url, time.Second, zerolog.Nop())
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "alice", "p1")
	assert.ErrorIs(t, err, domain.ErrAuthServiceUnavailable)
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New("", 0, zerolog.Nop())
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)
}
