package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// UserIDKey is the echo context key under which the authenticated
// user id is stored for downstream handlers.
const UserIDKey = "userID"

const roleAdmin = "admin"

// UserDirectory resolves the role of an authenticated user.
type UserDirectory interface {
	Role(ctx context.Context, userID string) (string, error)
}

// AdminAuth verifies an HS256 bearer token and requires the subject to
// hold the admin role. Any failure responds 401 without attempting the
// wrapped operation.
func AdminAuth(secret []byte, users UserDirectory) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				return unauthorized(c)
			}

			token, err := jwt.Parse(strings.TrimPrefix(header, prefix), func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				return unauthorized(c)
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(c)
			}
			sub, _ := claims["sub"].(string)
			if sub == "" {
				return unauthorized(c)
			}

			role, err := users.Role(c.Request().Context(), sub)
			if err != nil || role != roleAdmin {
				return unauthorized(c)
			}

			c.Set(UserIDKey, sub)
			return next(c)
		}
	}
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
}
