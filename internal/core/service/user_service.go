package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ravenhq/user-service/internal/core/domain"
	"github.com/ravenhq/user-service/internal/core/ports"
)

// bcryptCost matches the work factor used when the account database was
// first populated; lowering it would make new hashes weaker than old ones.
const bcryptCost = 12

// KeepPasswordSentinel in an update request means "leave the stored hash
// untouched". Clients send it in place of the real password when only the
// name or username changes.
const KeepPasswordSentinel = "**********"

// UserService implements the user CRUD use-cases.
type UserService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// Create registers a new account with a bcrypt-hashed password. Username
// uniqueness is ultimately enforced by the repository's unique index; the
// pre-check here only produces a friendlier fast path, the losing writer of
// a race is still rejected by the index.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if _, err := s.repo.FindByUsername(ctx, input.Username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if err != domain.ErrUserNotFound {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Username:     input.Username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int("user_id", created.ID).Str("username", created.Username).Msg("user created")
	return created, nil
}

func (s *UserService) Detail(ctx context.Context, id int) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Update mutates name, username, and optionally the password. Sending the
// keep-password sentinel preserves the stored hash.
func (s *UserService) Update(ctx context.Context, id int, input ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Username != user.Username {
		existing, err := s.repo.FindByUsername(ctx, input.Username)
		if err == nil && existing.ID != id {
			return nil, domain.ErrUsernameTaken
		}
		if err != nil && err != domain.ErrUserNotFound {
			return nil, fmt.Errorf("check username: %w", err)
		}
	}

	user.Name = input.Name
	user.Username = input.Username
	if input.Password != KeepPasswordSentinel {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int("user_id", id).Msg("user updated")
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id int) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int("user_id", id).Msg("user deleted")
	return nil
}
