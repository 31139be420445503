package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/blueprintmfg/settings-portal/internal/core/domain"
	"github.com/blueprintmfg/settings-portal/internal/core/ports"
)

// Auth validates the JWT and injects the caller's identity into context.
// Tokens carry only the credential identity (sub, email); role and approval
// status live in the profiles table because admins change them out-of-band,
// so the profile is resolved per request rather than trusted from claims.
func Auth(jwtSecret string, profiles ports.ProfilesTable) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			userID, _ := claims["sub"].(string)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			row, err := profiles.Find(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, domain.ErrProfileNotFound) {
					return domain.ErrAccountPending
				}
				return err
			}
			if row == nil || domain.ProfileStatus(row.Status) != domain.ProfileApproved {
				return domain.ErrAccountPending
			}

			c.Set("user_id", row.ID)
			c.Set("email", row.Email)
			c.Set("role", row.Role)

			// Downstream mutations attribute votes and audit entries to
			// the request identity, not the process-wide user snapshot.
			req := c.Request()
			ctx := domain.WithIdentity(req.Context(), domain.Identity{ID: row.ID, Email: row.Email})
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}
