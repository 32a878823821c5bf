package ports

import (
	"context"

	"github.com/99minutos/user-service/internal/core/domain"
)

// UserRepository defines persistence operations for users.
//
// Absence is not an error: GetByID and Update return a nil user and a nil error
// when no record carries the id, Delete returns false. Every method is a single
// round trip with no retry; there is no atomicity across calls.
type UserRepository interface {
	// Create stores user. An empty ID is replaced by a generated one.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetAll returns an unordered snapshot of every stored user.
	GetAll(ctx context.Context) ([]domain.User, error)
	// Update fully replaces the record keyed by id. The id argument wins over
	// any ID carried by user.
	Update(ctx context.Context, id string, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) (bool, error)
}
