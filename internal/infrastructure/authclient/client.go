package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-service/internal/core/domain"
	"github.com/99minutos/user-service/internal/core/ports"
)

const (
	loginPath      = "/Auth/login"
	defaultTimeout = 5 * time.Second
	// maxBody caps how much of an auth service response is read.
	maxBody = 1 << 20
)

var _ ports.AuthClient = (*Client)(nil)

// Client forwards login requests to the auth service, which issues the
// bearer tokens this service later validates.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// New returns a Client for the auth service at baseURL.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: auth service url", domain.ErrConfigurationMissing)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "auth_client").Logger(),
	}, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a token. A 401 from the auth service maps to
// domain.ErrInvalidCredentials; any other failure to
// domain.ErrAuthServiceUnavailable.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return "", fmt.Errorf("encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", domain.ErrAuthServiceUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Msg("auth service request failed")
		return "", fmt.Errorf("%w: %w", domain.ErrAuthServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", domain.ErrInvalidCredentials
	case resp.StatusCode != http.StatusOK:
		c.log.Error().Int("status", resp.StatusCode).Msg("auth service rejected login")
		return "", fmt.Errorf("%w: status %d", domain.ErrAuthServiceUnavailable, resp.StatusCode)
	}

	var out loginResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", domain.ErrAuthServiceUnavailable, err)
	}
	if out.Token == "" {
		return "", fmt.Errorf("%w: empty token", domain.ErrAuthServiceUnavailable)
	}
	return out.Token, nil
}
