package ports

import (
	"context"

	"github.com/ravenhq/user-service/internal/core/domain"
)

// CreateUserInput carries the fields for registering a new account.
type CreateUserInput struct {
	Name     string
	Username string
	Password string
}

// UpdateUserInput carries the fields for mutating an existing account.
// Password may be the keep-password sentinel understood by the service.
type UpdateUserInput struct {
	Name     string
	Username string
	Password string
}

// UserService defines the CRUD use-cases for user accounts.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Detail(ctx context.Context, id int) (*domain.User, error)
	Update(ctx context.Context, id int, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id int) error
}
