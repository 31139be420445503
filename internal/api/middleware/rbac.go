package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RBAC lets a request through only when the role injected by the Auth
// middleware matches one of the given roles. Anything else, including a
// missing role, gets a 403.
func RBAC(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			for _, r := range roles {
				if role == r {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
