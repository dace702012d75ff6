// Package middleware holds the echo middleware of the HTTP server:
// admin authentication, role checks, rate limiting, response caching and
// request logging.  Rejections use the same {success, message} envelope
// as the handlers.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hostel-seat-allocation/internal/utils"
)

// AuthCookie is the cookie the login handler stores the token in.
const AuthCookie = "auth_token"

// Context keys set by JWTAuth.
const (
	CtxAdminID = "admin_id"
	CtxRole    = "role"
)

// JWTAuth accepts a token from the Authorization bearer header or, when
// that is absent, the auth_token cookie.  A valid token stores the admin
// ID (uint64) and role in the context.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c.Request())
			if raw == "" {
				if ck, err := c.Cookie(AuthCookie); err == nil {
					raw = ck.Value
				}
			}
			if raw == "" {
				return deny(c, http.StatusUnauthorized, "Unauthorized")
			}
			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return deny(c, http.StatusUnauthorized, "Unauthorized")
			}
			c.Set(CtxAdminID, claims.AdminID)
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

func deny(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]any{"success": false, "message": msg})
}
