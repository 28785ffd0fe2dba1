package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ravenhq/user-service/internal/api/metrics"
	"github.com/ravenhq/user-service/internal/core/domain"
	"github.com/ravenhq/user-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a user and returns an access/refresh token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      401   {object}  envelope
// @Failure      429   {object}  envelope
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errEnvelope(http.StatusBadRequest, "invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errEnvelope(http.StatusBadRequest, err.Error()))
	}

	pair, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTooManyAttempts):
			metrics.LoginsTotal.WithLabelValues("rate_limited").Inc()
			return c.JSON(http.StatusTooManyRequests, errEnvelope(http.StatusTooManyRequests, err.Error()))
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			// Same status and message for unknown username and wrong
			// password, so responses cannot be used for enumeration.
			return c.JSON(http.StatusUnauthorized, errEnvelope(http.StatusUnauthorized, err.Error()))
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()

	resp := okEnvelope(http.StatusOK, "login successful")
	resp.Token = pair.AccessToken
	resp.RefreshToken = pair.RefreshToken
	return c.JSON(http.StatusOK, resp)
}

// Refresh redeems a still-valid refresh token for a new access token.
//
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      401   {object}  envelope
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errEnvelope(http.StatusBadRequest, "invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errEnvelope(http.StatusBadRequest, err.Error()))
	}

	access, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues(refreshFailureReason(err)).Inc()
		// The verification failure is surfaced verbatim; clients rely on the
		// message to tell an expired session from a bad token.
		return c.JSON(http.StatusUnauthorized, errEnvelope(http.StatusUnauthorized, err.Error()))
	}

	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()

	resp := okEnvelope(http.StatusOK, "token refreshed")
	resp.AccessToken = access
	return c.JSON(http.StatusOK, resp)
}

func refreshFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignature):
		return "invalid_signature"
	default:
		return "malformed"
	}
}
