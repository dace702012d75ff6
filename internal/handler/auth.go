package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hostel-seat-allocation/internal/middleware"
	"github.com/iliyamo/hostel-seat-allocation/internal/service"
)

// AuthHandler serves admin login and logout.
type AuthHandler struct {
	Svc *service.AuthService
	Log *zap.Logger
	// SecureCookie marks the auth cookie Secure (production).
	SecureCookie bool
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type loginResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login handles POST /login.  The body may be JSON or form encoded.  The
// token is returned in the body and stored in the auth_token cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		req = loginRequest{}
	}

	ctx, cancel := opContext(c)
	defer cancel()
	_, tok, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return fail(c, h.Log, "login", err, "Login failed")
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.AuthCookie,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		MaxAge:   int(time.Until(tok.Exp).Seconds()),
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, loginResponse{
		Success:   true,
		Message:   "Logged in successfully",
		Token:     tok.Token,
		ExpiresAt: tok.Exp,
	})
}

// Logout handles POST /logout by expiring the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.AuthCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookie,
	})
	return ok(c, http.StatusOK, "Logged out successfully", nil)
}
