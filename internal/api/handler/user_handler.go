package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ravenhq/user-service/internal/api/metrics"
	"github.com/ravenhq/user-service/internal/core/domain"
	"github.com/ravenhq/user-service/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List returns all user accounts.
//
// @Summary      List users
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      401  {object}  envelope
// @Router       /user [get]
func (h *UserHandler) List(c echo.Context) error {
	if _, err := ctxPrincipal(c); err != nil {
		return err
	}

	users, err := h.userService.List(c.Request().Context())
	if err != nil {
		return err
	}

	resp := okEnvelope(http.StatusOK, "")
	resp.Result = toUserResponses(users)
	return c.JSON(http.StatusOK, resp)
}

// Create registers a new user account.
//
// @Summary      Create user
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User fields"
// @Success      201   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      401   {object}  envelope
// @Failure      409   {object}  envelope
// @Router       /user [post]
func (h *UserHandler) Create(c echo.Context) error {
	if _, err := ctxPrincipal(c); err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errEnvelope(http.StatusBadRequest, "invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errEnvelope(http.StatusBadRequest, err.Error()))
	}

	if _, err := h.userService.Create(c.Request().Context(), ports.CreateUserInput{
		Name:     req.Name,
		Username: req.Username,
		Password: req.Password,
	}); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return c.JSON(http.StatusConflict, errEnvelope(http.StatusConflict, err.Error()))
		}
		return err
	}

	metrics.UsersCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, okEnvelope(http.StatusCreated, "user created"))
}

// Detail returns a single user by id.
//
// @Summary      Get user by id
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  envelope
// @Failure      400  {object}  envelope
// @Failure      401  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /user/{id} [get]
func (h *UserHandler) Detail(c echo.Context) error {
	if _, err := ctxPrincipal(c); err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errEnvelope(http.StatusBadRequest, "user id must be a number"))
	}

	user, err := h.userService.Detail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, errEnvelope(http.StatusNotFound, err.Error()))
		}
		return err
	}

	resp := okEnvelope(http.StatusOK, "")
	resp.Result = toUserResponse(user)
	return c.JSON(http.StatusOK, resp)
}

// Update mutates a user's name, username, and optionally password.
//
// @Summary      Update user
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User ID"
// @Param        body  body      updateUserRequest  true  "User fields"
// @Success      201   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      401   {object}  envelope
// @Failure      404   {object}  envelope
// @Failure      409   {object}  envelope
// @Router       /user/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	if _, err := ctxPrincipal(c); err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errEnvelope(http.StatusBadRequest, "user id must be a number"))
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errEnvelope(http.StatusBadRequest, "invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errEnvelope(http.StatusBadRequest, err.Error()))
	}

	if _, err := h.userService.Update(c.Request().Context(), id, ports.UpdateUserInput{
		Name:     req.Name,
		Username: req.Username,
		Password: req.Password,
	}); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, errEnvelope(http.StatusNotFound, err.Error()))
		case errors.Is(err, domain.ErrUsernameTaken):
			return c.JSON(http.StatusConflict, errEnvelope(http.StatusConflict, err.Error()))
		}
		return err
	}

	return c.JSON(http.StatusCreated, okEnvelope(http.StatusCreated, "user updated"))
}

// Delete removes a user by id.
//
// @Summary      Delete user
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  envelope
// @Failure      400  {object}  envelope
// @Failure      401  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /user/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if _, err := ctxPrincipal(c); err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errEnvelope(http.StatusBadRequest, "user id must be a number"))
	}

	if err := h.userService.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, errEnvelope(http.StatusNotFound, err.Error()))
		}
		return err
	}

	return c.JSON(http.StatusOK, okEnvelope(http.StatusOK, "user deleted"))
}

func parseID(c echo.Context) (int, error) {
	return strconv.Atoi(c.Param("id"))
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}
