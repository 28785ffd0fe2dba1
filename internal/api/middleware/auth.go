package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ravenhq/user-service/internal/api/metrics"
	"github.com/ravenhq/user-service/internal/core/domain"
)

// PrincipalKey is the echo context key under which Auth stores the verified
// identity.
const PrincipalKey = "principal"

// AccessVerifier checks an access token and returns its payload.
type AccessVerifier interface {
	VerifyAccess(raw string) (domain.TokenPayload, error)
}

// Auth validates the bearer access token and injects the resulting principal
// into the request context. It never touches the credential store: a request
// is allowed or rejected purely on the token's signature and expiry.
func Auth(verifier AccessVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.TokenVerificationsTotal.WithLabelValues("rejected").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.TokenVerificationsTotal.WithLabelValues("rejected").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			payload, err := verifier.VerifyAccess(parts[1])
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("rejected").Inc()
				msg := "invalid token"
				if errors.Is(err, domain.ErrTokenExpired) {
					msg = domain.ErrTokenExpired.Error()
				}
				return echo.NewHTTPError(http.StatusUnauthorized, msg)
			}

			metrics.TokenVerificationsTotal.WithLabelValues("success").Inc()
			c.Set(PrincipalKey, domain.Principal{ID: payload.ID, Username: payload.Username})

			return next(c)
		}
	}
}
