package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// adminKey identifies the caller for rate limiting: the admin ID when
// JWTAuth ran, "anon" otherwise.
func adminKey(c echo.Context) string {
	if id, ok := c.Get(CtxAdminID).(uint64); ok && id != 0 {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
