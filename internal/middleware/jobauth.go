package middleware // middleware provides reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// JobAuth returns an Echo middleware that validates the signed job token
// presented by the external scheduler.  The token is an HS256 JWT carrying
// a "job" claim; it may arrive as a Bearer header or as a ?token= query
// parameter, since some cron systems cannot set headers.  The provided
// secret must match the one used when minting tokens (utils.NewJobToken).
// On success the job name is stored in the context under "job".
func JobAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := ""
			if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				raw = strings.TrimPrefix(auth, "Bearer ")
			}
			if raw == "" {
				raw = c.QueryParam("token")
			}
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing job token"})
			}

			// Parse with HS256 only; any other signing method is rejected.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid job token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			job, _ := claims["job"].(string)
			if job == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing job claim"})
			}
			c.Set("job", job)
			return next(c)
		}
	}
}
