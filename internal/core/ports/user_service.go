package ports

import (
	"context"

	"github.com/99minutos/user-service/internal/core/domain"
)

// UserService defines the use cases behind the /users routes.
type UserService interface {
	// Create assigns a fresh id, hashes the password and stores the user.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Get returns nil when the user does not exist.
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	// Update returns nil when the user does not exist.
	Update(ctx context.Context, id string, user *domain.User) (*domain.User, error)
	// Delete reports whether the user existed. domain.ErrDeleteFailed is
	// returned when it existed but the store removed nothing.
	Delete(ctx context.Context, id string) (bool, error)
}
