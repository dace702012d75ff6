package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hostel-seat-allocation/internal/apperr"
	"github.com/iliyamo/hostel-seat-allocation/internal/model"
)

// AdminResolver loads the admin a token refers to.
type AdminResolver interface {
	Admin(ctx context.Context, id uint64) (*model.Admin, error)
}

// RequireRole admits the request only when the admin behind the token
// still exists (401 otherwise) and their username is one of roles (403
// otherwise).  The admin is looked up on every request.  It must run
// after JWTAuth.
func RequireRole(admins AdminResolver, roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := c.Get(CtxAdminID).(uint64)
			if !ok {
				return deny(c, http.StatusUnauthorized, "Unauthorized")
			}
			admin, err := admins.Admin(c.Request().Context(), id)
			if errors.Is(err, apperr.ErrAuth) {
				return deny(c, http.StatusUnauthorized, apperr.Message(err, "Unauthorized"))
			}
			if err != nil {
				return err
			}
			if !allowed[admin.Username] {
				return deny(c, http.StatusForbidden, "Forbidden: Unauthorized Request")
			}
			c.Set(CtxRole, admin.Username)
			return next(c)
		}
	}
}
