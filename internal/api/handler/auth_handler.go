package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blueprintmfg/settings-portal/internal/core/ports"
	"github.com/blueprintmfg/settings-portal/internal/core/session"
)

// AuthHandler exposes registration, login, logout, and the identity probe.
type AuthHandler struct {
	auth       ports.AuthGateway
	reconciler *session.Reconciler
	store      ports.StateStore
}

func NewAuthHandler(auth ports.AuthGateway, reconciler *session.Reconciler, store ports.StateStore) *AuthHandler {
	return &AuthHandler{auth: auth, reconciler: reconciler, store: store}
}

// Register creates a new credential. The matching profile is created on
// first sign-in attempt with status pending; an admin approves it later.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, err := h.auth.SignUp(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]string{"id": id, "email": req.Email})
}

// Login authenticates, resolves the profile through the approval gate, and
// returns a token only for approved accounts. A pending account gets 403
// with the pending message.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.reconciler.Login(c.Request().Context(), req.Email, req.Password, req.RememberMe)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		Token: token,
		User: &userResponse{
			ID:        user.ID,
			Email:     user.Email,
			Role:      user.Role,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		},
	})
}

// Logout clears the session. Always succeeds from the client's point of
// view; a hung remote sign-out is abandoned after a short timeout.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  mutationResult
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.reconciler.Logout(c.Request().Context())
	return mutationOK(c, "logged out")
}

// Me returns the resolved identity snapshot for the current session.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, email, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	resp := userResponse{ID: userID, Email: email, Role: role}
	if u := h.store.User(); u != nil && u.ID == userID {
		resp.FirstName = u.FirstName
		resp.LastName = u.LastName
	}
	return c.JSON(http.StatusOK, resp)
}
