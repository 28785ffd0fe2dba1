package ports

import (
	"context"

	"github.com/ravenhq/user-service/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts. The
// storage layer is the source of truth for username uniqueness: Create and
// Update must fail with domain.ErrUsernameTaken when the unique constraint
// rejects the write.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id int) error
}
