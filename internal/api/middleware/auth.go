package middleware

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-service/internal/core/domain"
)

// RoleClaimURI is the long-form role claim emitted by .NET-based token issuers.
const RoleClaimURI = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"

// TokenConfig is the signing material bootstrapped from the secret store.
type TokenConfig struct {
	SigningKey string
	Issuer     string
	Audience   string
}

// Auth validates the bearer JWT and injects the caller's username and roles
// into the context. Tokens must be HMAC-signed, carry an expiry and match the
// configured issuer and audience.
func Auth(cfg TokenConfig) echo.MiddlewareFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{
			jwt.SigningMethodHS256.Alg(),
			jwt.SigningMethodHS384.Alg(),
			jwt.SigningMethodHS512.Alg(),
		}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
		jwt.WithExpirationRequired(),
	)
	key := []byte(cfg.SigningKey)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return fmt.Errorf("%w: missing authorization header", domain.ErrUnauthorized)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return fmt.Errorf("%w: invalid authorization header", domain.ErrUnauthorized)
			}

			claims := jwt.MapClaims{}
			tkn, err := parser.ParseWithClaims(strings.TrimSpace(parts[1]), claims, func(*jwt.Token) (any, error) {
				return key, nil
			})
			if err != nil || !tkn.Valid {
				return fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
			}

			c.Set("username", username(claims))
			c.Set("roles", roles(claims))

			return next(c)
		}
	}
}

func username(claims jwt.MapClaims) string {
	for _, k := range []string{"username", "unique_name", "sub"} {
		if s, ok := claims[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// roles collects the "role" and RoleClaimURI claims. Each may be a single
// string or an array of strings.
func roles(claims jwt.MapClaims) []string {
	var out []string
	for _, k := range []string{"role", RoleClaimURI} {
		switch v := claims[k].(type) {
		case string:
			out = append(out, v)
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
