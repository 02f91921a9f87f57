package router

import (
	"strings"

	"github.com/labstack/echo/v4"

	"tradepost/internal/infrastructure/auth"
)

// OptionalAuth sets the caller identity when a valid token is present and
// falls through to the handler as anonymous otherwise.
func OptionalAuth(tokens *auth.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return next(c)
			}

			userID, err := tokens.Verify(parts[1])
			if err != nil {
				return next(c)
			}

			c.Set("uid", userID)

			return next(c)
		}
	}
}
