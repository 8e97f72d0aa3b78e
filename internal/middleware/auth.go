package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/samusdtt/Waterflow/pkg/jwtutil"
	"github.com/samusdtt/Waterflow/pkg/logger"
	"go.uber.org/zap"
)

// AuthMiddleware validates the bearer token and stores the actor claims in
// the request context
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromEcho(c)

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization header"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("Invalid authorization header format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization header format"})
		}

		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Warn("Invalid or expired token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		c.Set("user", claims)
		log.Debug("JWT token validated successfully",
			zap.Uint("user_id", claims.UserID),
			zap.String("role", claims.Role))

		return next(c)
	}
}

// RequireRole restricts a route group to the given roles
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*jwtutil.UserClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}

			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}

			logger.FromEcho(c).Warn("Role not permitted for route",
				zap.String("role", claims.Role),
				zap.String("path", c.Path()))
			return c.JSON(http.StatusForbidden, echo.Map{"error": "unauthorized access"})
		}
	}
}

// CurrentClaims returns the actor claims stored by AuthMiddleware
func CurrentClaims(c echo.Context) (*jwtutil.UserClaims, bool) {
	claims, ok := c.Get("user").(*jwtutil.UserClaims)
	return claims, ok
}
