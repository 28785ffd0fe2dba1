package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ravenhq/user-service/internal/api/middleware"
	"github.com/ravenhq/user-service/internal/core/domain"
	"github.com/ravenhq/user-service/internal/core/ports"
)

type stubUserService struct {
	listFn   func(ctx context.Context) ([]*domain.User, error)
	createFn func(ctx context.Context, input ports.CreateUserInput) (*domain.User, error)
	detailFn func(ctx context.Context, id int) (*domain.User, error)
	updateFn func(ctx context.Context, id int, input ports.UpdateUserInput) (*domain.User, error)
	deleteFn func(ctx context.Context, id int) error
}

func (s *stubUserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, input)
}

func (s *stubUserService) Detail(ctx context.Context, id int) (*domain.User, error) {
	return s.detailFn(ctx, id)
}

func (s *stubUserService) Update(ctx context.Context, id int, input ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, id, input)
}

func (s *stubUserService) Delete(ctx context.Context, id int) error {
	return s.deleteFn(ctx, id)
}

// newUserContext builds an echo context carrying the principal the Auth
// middleware would have injected.
func newUserContext(t *testing.T, method, path, body string, pathID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if pathID != "" {
		c.SetParamNames("id")
		c.SetParamValues(pathID)
	}
	c.Set(middleware.PrincipalKey, domain.Principal{ID: 1, Username: "alice"})
	return c, rec
}

func TestUserHandler_List_Success(t *testing.T) {
	now := time.Now().UTC()
	stub := &stubUserService{
		listFn: func(ctx context.Context) ([]*domain.User, error) {
			return []*domain.User{
				{ID: 1, Name: "A", Username: "alice", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now},
			}, nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newUserContext(t, http.MethodGet, "/user", "", "")
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("password hash leaked in response: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"username":"alice"`) {
		t.Fatalf("user missing from response: %s", rec.Body.String())
	}
}

func TestUserHandler_List_MissingPrincipal(t *testing.T) {
	stub := &stubUserService{
		listFn: func(ctx context.Context) ([]*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewUserHandler(stub)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.List(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestUserHandler_Create_Success(t *testing.T) {
	stub := &stubUserService{
		createFn: func(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
			if input.Name != "A" || input.Username != "alice" || input.Password != "p1" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.User{ID: 1, Name: "A", Username: "alice"}, nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newUserContext(t, http.MethodPost, "/user", `{"name":"A","username":"alice","password":"p1"}`, "")
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestUserHandler_Create_Conflict(t *testing.T) {
	stub := &stubUserService{
		createFn: func(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
			return nil, domain.ErrUsernameTaken
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newUserContext(t, http.MethodPost, "/user", `{"name":"A","username":"alice","password":"p1"}`, "")
	_ = handler.Create(c)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestUserHandler_Detail_Success(t *testing.T) {
	stub := &stubUserService{
		detailFn: func(ctx context.Context, id int) (*domain.User, error) {
			if id != 3 {
				t.Fatalf("unexpected id: %d", id)
			}
			return &domain.User{ID: 3, Name: "C", Username: "carol"}, nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newUserContext(t, http.MethodGet, "/user/3", "", "3")
	if err := handler.Detail(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"username":"carol"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestUserHandler_Detail_BadID(t *testing.T) {
	stub := &stubUserService{
		detailFn: func(ctx context.Context, id int) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newUserContext(t, http.MethodGet, "/user/abc", "", "abc")
	_ = handler.Detail(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "user id must be a number") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestUserHandler_Detail_NotFound(t *testing.T) {
	stub := &stubUserService{
		detailFn: func(ctx context.Context, id int) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newUserContext(t, http.MethodGet, "/user/99", "", "99")
	_ = handler.Detail(c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUserHandler_Update_Success(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(ctx context.Context, id int, input ports.UpdateUserInput) (*domain.User, error) {
			if id != 3 || input.Password != "**********" {
				t.Fatalf("unexpected args: %d %+v", id, input)
			}
			return &domain.User{ID: 3, Name: "C2", Username: "carol"}, nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newUserContext(t, http.MethodPut, "/user/3", `{"name":"C2","username":"carol","password":"**********"}`, "3")
	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestUserHandler_Update_Conflict(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(ctx context.Context, id int, input ports.UpdateUserInput) (*domain.User, error) {
			return nil, domain.ErrUsernameTaken
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newUserContext(t, http.MethodPut, "/user/3", `{"name":"C","username":"bob","password":"p"}`, "3")
	_ = handler.Update(c)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestUserHandler_Update_NotFound(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(ctx context.Context, id int, input ports.UpdateUserInput) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newUserContext(t, http.MethodPut, "/user/99", `{"name":"X","username":"x","password":"p"}`, "99")
	_ = handler.Update(c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUserHandler_Delete_Success(t *testing.T) {
	stub := &stubUserService{
		deleteFn: func(ctx context.Context, id int) error {
			if id != 3 {
				t.Fatalf("unexpected id: %d", id)
			}
			return nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newUserContext(t, http.MethodDelete, "/user/3", "", "3")
	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Delete_BadID(t *testing.T) {
	stub := &stubUserService{
		deleteFn: func(ctx context.Context, id int) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newUserContext(t, http.MethodDelete, "/user/abc", "", "abc")
	_ = handler.Delete(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
