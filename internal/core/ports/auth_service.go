package ports

import (
	"context"

	"github.com/ravenhq/user-service/internal/core/domain"
)

type AuthService interface {
	// Login verifies the credentials and returns a fresh access/refresh pair.
	Login(ctx context.Context, username, password string) (*domain.TokenPair, error)
	// Refresh redeems a still-valid refresh token for a new access token.
	// The refresh token itself is not rotated.
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

// LoginLimiter throttles failed login attempts per username. Implementations
// must be safe for concurrent use.
type LoginLimiter interface {
	// Allow reports whether another attempt is permitted for the username.
	Allow(ctx context.Context, username string) (bool, error)
	// RecordFailure counts a failed attempt against the username.
	RecordFailure(ctx context.Context, username string) error
	// Reset clears the failure count after a successful login.
	Reset(ctx context.Context, username string) error
}
