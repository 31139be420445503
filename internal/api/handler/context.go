package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxIdentity extracts the identity injected by the Auth middleware. Role
// presence proves the middleware ran; handlers behind Auth can rely on it.
func ctxIdentity(c echo.Context) (userID, email, role string, err error) {
	role, _ = c.Get("role").(string)
	if role == "" {
		return "", "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	userID, _ = c.Get("user_id").(string)
	email, _ = c.Get("email").(string)
	return userID, email, role, nil
}
