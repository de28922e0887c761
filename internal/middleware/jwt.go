package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth.
const (
	ContextStaffID = "staff_id"
	ContextRole    = "role"
)

type staffClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// JWTAuth validates a Bearer access token issued at staff login and stores
// the subject and role claims in the context under ContextStaffID and
// ContextRole.  Tokens without a role are rejected.
func JWTAuth(secret string) echo.MiddlewareFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	keyFunc := func(*jwt.Token) (any, error) { return []byte(secret), nil }

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return unauthorized(c, "missing bearer token")
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			var claims staffClaims
			tok, err := parser.ParseWithClaims(raw, &claims, keyFunc)
			if err != nil || !tok.Valid {
				return unauthorized(c, "invalid token")
			}
			if claims.Subject == "" || claims.Role == "" {
				return unauthorized(c, "invalid claims")
			}

			c.Set(ContextStaffID, claims.Subject)
			c.Set(ContextRole, claims.Role)
			return next(c)
		}
	}
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": msg})
}
