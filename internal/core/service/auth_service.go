package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ravenhq/user-service/internal/core/domain"
	"github.com/ravenhq/user-service/internal/core/ports"
	"github.com/ravenhq/user-service/internal/core/token"
)

// AuthService implements login and refresh-token redemption. It holds no
// state of its own: credentials live in the repository and both tokens are
// self-verifying.
type AuthService struct {
	repo    ports.UserRepository
	tokens  *token.Service
	limiter ports.LoginLimiter // optional
	log     zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens *token.Service, limiter ports.LoginLimiter, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, limiter: limiter, log: log}
}

// Login verifies the username/password pair and issues an access/refresh
// token pair carrying {id, username}. A missing user and a wrong password
// both return domain.ErrInvalidCredentials so the response cannot reveal
// which check failed.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, username)
		if err != nil {
			s.log.Warn().Err(err).Msg("login limiter unavailable, allowing attempt")
		} else if !ok {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if err == domain.ErrUserNotFound {
			s.recordFailure(ctx, username)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}

	payload := domain.TokenPayload{ID: user.ID, Username: user.Username}

	access, err := s.tokens.IssueAccess(payload)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(payload)
	if err != nil {
		return nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Msg("login limiter reset failed")
		}
	}

	s.log.Info().Int("user_id", user.ID).Str("username", user.Username).Msg("login succeeded")
	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh verifies the refresh token and mints a new access token from its
// payload. The refresh token is not rotated; it stays valid until its own
// expiry. Verification failures are returned as-is so the caller sees the
// underlying reason.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	payload, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", err
	}

	access, err := s.tokens.IssueAccess(payload)
	if err != nil {
		return "", err
	}

	s.log.Debug().Int("user_id", payload.ID).Msg("access token refreshed")
	return access, nil
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, username); err != nil {
		s.log.Warn().Err(err).Msg("login limiter record failed")
	}
}
