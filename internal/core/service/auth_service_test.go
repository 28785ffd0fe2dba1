package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ravenhq/user-service/internal/core/domain"
	"github.com/ravenhq/user-service/internal/core/token"
)

type stubUserRepo struct {
	byID   map[int]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[int]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int) (*domain.User, error) {
	if u, ok := r.byID[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(r.byID))
	for id := 1; id < r.nextID; id++ {
		if u, ok := r.byID[id]; ok {
			users = append(users, cloneUser(u))
		}
	}
	return users, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
	}
	created := cloneUser(user)
	created.ID = r.nextID
	r.nextID++
	r.byID[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.byID[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	for id, u := range r.byID {
		if u.Username == user.Username && id != user.ID {
			return nil, domain.ErrUsernameTaken
		}
	}
	r.byID[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

func mustAddUser(t *testing.T, repo *stubUserRepo, username, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	created, err := repo.Create(context.Background(), &domain.User{
		Name:         username,
		Username:     username,
		PasswordHash: string(hash),
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return created
}

func newTestTokens(t *testing.T) *token.Service {
	t.Helper()
	tokens, err := token.NewService(token.Config{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
	})
	if err != nil {
		t.Fatalf("token.NewService: %v", err)
	}
	return tokens
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	alice := mustAddUser(t, repo, "alice", "p1")
	tokens := newTestTokens(t)
	svc := NewAuthService(repo, tokens, nil, zerolog.Nop())

	pair, err := svc.Login(context.Background(), "alice", "p1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", pair)
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatalf("access and refresh tokens must differ")
	}

	// Both tokens carry exactly the stored id and username, readable
	// without verifying the signature.
	for _, raw := range []string{pair.AccessToken, pair.RefreshToken} {
		claims := &token.Claims{}
		if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
			t.Fatalf("ParseUnverified: %v", err)
		}
		if claims.ID != alice.ID || claims.Username != "alice" {
			t.Fatalf("unexpected claims: %+v", claims)
		}
	}

	if _, err := tokens.VerifyAccess(pair.AccessToken); err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if _, err := tokens.VerifyRefresh(pair.RefreshToken); err != nil {
		t.Fatalf("refresh token invalid: %v", err)
	}
}

func TestAuthService_Login_SameErrorForBothFailures(t *testing.T) {
	repo := newStubUserRepo()
	mustAddUser(t, repo, "alice", "p1")
	svc := NewAuthService(repo, newTestTokens(t), nil, zerolog.Nop())

	_, wrongPass := svc.Login(context.Background(), "alice", "wrong")
	_, unknownUser := svc.Login(context.Background(), "ghost", "p1")

	if wrongPass != domain.ErrInvalidCredentials {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if unknownUser != domain.ErrInvalidCredentials {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", unknownUser)
	}
}

func TestAuthService_Login_EmptyCredentials(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), newTestTokens(t), nil, zerolog.Nop())

	if _, err := svc.Login(context.Background(), "", "p1"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "alice", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Refresh_IssuesNewAccessToken(t *testing.T) {
	repo := newStubUserRepo()
	alice := mustAddUser(t, repo, "alice", "p1")
	tokens := newTestTokens(t)
	svc := NewAuthService(repo, tokens, nil, zerolog.Nop())

	pair, err := svc.Login(context.Background(), "alice", "p1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	access, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	payload, err := tokens.VerifyAccess(access)
	if err != nil {
		t.Fatalf("refreshed access token invalid: %v", err)
	}
	if payload.ID != alice.ID || payload.Username != "alice" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestAuthService_Refresh_NoRotation(t *testing.T) {
	repo := newStubUserRepo()
	mustAddUser(t, repo, "alice", "p1")
	tokens := newTestTokens(t)
	svc := NewAuthService(repo, tokens, nil, zerolog.Nop())

	pair, err := svc.Login(context.Background(), "alice", "p1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	first, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("first Refresh: %v", err)
	}

	// Issuance timestamps have second precision; wait so the second access
	// token provably differs from the first.
	time.Sleep(1100 * time.Millisecond)

	second, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("second Refresh with same token: %v", err)
	}
	if first == second {
		t.Fatalf("expected two distinct access tokens")
	}
	if _, err := tokens.VerifyAccess(first); err != nil {
		t.Fatalf("first access token invalid: %v", err)
	}
	if _, err := tokens.VerifyAccess(second); err != nil {
		t.Fatalf("second access token invalid: %v", err)
	}
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	repo := newStubUserRepo()
	mustAddUser(t, repo, "alice", "p1")
	svc := NewAuthService(repo, newTestTokens(t), nil, zerolog.Nop())

	pair, err := svc.Login(context.Background(), "alice", "p1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), pair.AccessToken); err != domain.ErrTokenSignature {
		t.Fatalf("expected ErrTokenSignature, got %v", err)
	}
}

func TestAuthService_Refresh_Malformed(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), newTestTokens(t), nil, zerolog.Nop())

	if _, err := svc.Refresh(context.Background(), "garbage"); err != domain.ErrTokenMalformed {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

type stubLimiter struct {
	allow    bool
	failures int
	resets   int
}

func (l *stubLimiter) Allow(context.Context, string) (bool, error) { return l.allow, nil }
func (l *stubLimiter) RecordFailure(context.Context, string) error { l.failures++; return nil }
func (l *stubLimiter) Reset(context.Context, string) error         { l.resets++; return nil }

func TestAuthService_Login_RateLimited(t *testing.T) {
	repo := newStubUserRepo()
	mustAddUser(t, repo, "alice", "p1")
	limiter := &stubLimiter{allow: false}
	svc := NewAuthService(repo, newTestTokens(t), limiter, zerolog.Nop())

	if _, err := svc.Login(context.Background(), "alice", "p1"); err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Login_LimiterBookkeeping(t *testing.T) {
	repo := newStubUserRepo()
	mustAddUser(t, repo, "alice", "p1")
	limiter := &stubLimiter{allow: true}
	svc := NewAuthService(repo, newTestTokens(t), limiter, zerolog.Nop())

	_, _ = svc.Login(context.Background(), "alice", "wrong")
	if limiter.failures != 1 {
		t.Fatalf("expected 1 recorded failure, got %d", limiter.failures)
	}

	if _, err := svc.Login(context.Background(), "alice", "p1"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if limiter.resets != 1 {
		t.Fatalf("expected 1 reset after success, got %d", limiter.resets)
	}
}
