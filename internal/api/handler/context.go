package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ravenhq/user-service/internal/api/middleware"
	"github.com/ravenhq/user-service/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware. Its
// presence proves the guard ran; a handler on a protected route finding none
// rejects with 401 rather than proceeding unauthenticated.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	p, ok := c.Get(middleware.PrincipalKey).(domain.Principal)
	if !ok || p.Username == "" {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return p, nil
}
