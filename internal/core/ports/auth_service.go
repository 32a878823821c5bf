package ports

import (
	"context"

	"github.com/99minutos/user-service/internal/core/domain"
)

// CredentialValidator checks a username/password pair against stored users.
// The returned role may be nil for users without one.
type CredentialValidator interface {
	Validate(ctx context.Context, username, password string) (*domain.Role, error)
}

// AuthClient obtains a bearer token from the external auth service.
type AuthClient interface {
	Login(ctx context.Context, username, password string) (string, error)
}
