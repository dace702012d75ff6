// Package router registers the HTTP routes and their middleware.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/hostel-seat-allocation/internal/handler"
	"github.com/iliyamo/hostel-seat-allocation/internal/middleware"
)

// New builds the echo instance with the global middleware chain: request
// id, access log, panic recovery.
func New(log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLog(log))
	e.Use(echomw.Recover())
	return e
}

// RegisterRoutes registers the routes that need no admin credential.
func RegisterRoutes(e *echo.Echo, a *handler.AuthHandler) {
	e.GET("/healthz", handler.Health)
	e.POST("/login", a.Login)
	e.POST("/logout", a.Logout)
}
