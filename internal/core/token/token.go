// Package token issues and verifies the signed, time-limited JWTs used for
// session access and refresh. Access and refresh tokens carry the same claim
// set but are signed with independent secrets, so a token presented against
// the wrong secret always fails verification.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ravenhq/user-service/internal/core/domain"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 30 * time.Minute
)

// Config carries the signing material and validity windows for the Service.
// Secrets are resolved once at startup; the service never reads the
// environment itself.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Claims is the wire form of a token payload.
type Claims struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Service signs and verifies access/refresh tokens.
type Service struct {
	cfg Config
	now func() time.Time
}

func NewService(cfg Config) (*Service, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("token: both access and refresh secrets are required")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	return &Service{cfg: cfg, now: time.Now}, nil
}

// IssueAccess signs an access token valid for the access TTL.
func (s *Service) IssueAccess(p domain.TokenPayload) (string, error) {
	return s.sign(p, s.cfg.AccessSecret, s.cfg.AccessTTL)
}

// IssueRefresh signs a refresh token valid for the refresh TTL.
func (s *Service) IssueRefresh(p domain.TokenPayload) (string, error) {
	return s.sign(p, s.cfg.RefreshSecret, s.cfg.RefreshTTL)
}

// VerifyAccess checks signature and expiry against the access secret.
func (s *Service) VerifyAccess(raw string) (domain.TokenPayload, error) {
	return s.verify(raw, s.cfg.AccessSecret)
}

// VerifyRefresh checks signature and expiry against the refresh secret.
func (s *Service) VerifyRefresh(raw string) (domain.TokenPayload, error) {
	return s.verify(raw, s.cfg.RefreshSecret)
}

func (s *Service) sign(p domain.TokenPayload, secret []byte, ttl time.Duration) (string, error) {
	now := s.now().UTC()
	claims := Claims{
		ID:       p.ID,
		Username: p.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// verify performs signature and expiry checks only; there are no issuer or
// audience claims to validate.
func (s *Service) verify(raw string, secret []byte) (domain.TokenPayload, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		return domain.TokenPayload{}, mapJWTError(err)
	}
	if !tkn.Valid {
		return domain.TokenPayload{}, domain.ErrTokenSignature
	}

	return domain.TokenPayload{ID: claims.ID, Username: claims.Username}, nil
}

// mapJWTError collapses golang-jwt's error chain into the domain taxonomy.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return domain.ErrTokenSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return domain.ErrTokenMalformed
	default:
		return fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}
}
