package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/hostel-seat-allocation/internal/config"
	"github.com/iliyamo/hostel-seat-allocation/internal/handler"
	"github.com/iliyamo/hostel-seat-allocation/internal/middleware"
)

// Admin bundles the handlers of the admin-only routes.
type Admin struct {
	Hostels     *handler.HostelHandler
	Rooms       *handler.RoomHandler
	Allocations *handler.AllocationHandler
	Boarders    *handler.BoarderHandler
}

// AdminMiddleware is what guards the admin group.  Rdb may be nil, in
// which case rate limiting and caching pass through.
type AdminMiddleware struct {
	JWTSecret string
	Role      string
	Admins    middleware.AdminResolver
	RateLimit config.RateLimitConfig
	Cache     *middleware.ResponseCache
	Rdb       *redis.Client
	Log       *zap.Logger
}

// RegisterAdmin registers every hostel, room, boarder and allocation
// route.  All of them require a valid token for an admin holding the
// configured role.  Successful mutations purge the response cache.
func RegisterAdmin(e *echo.Echo, h Admin, mw AdminMiddleware) {
	g := e.Group("",
		middleware.JWTAuth(mw.JWTSecret),
		middleware.RequireRole(mw.Admins, mw.Role),
		middleware.RateLimit(mw.RateLimit, mw.Rdb, mw.Log),
		mw.Cache.PurgeOnWrite(),
	)
	cached := mw.Cache.Middleware()

	// ---- Hostels ----
	g.GET("/hostels", h.Hostels.List, cached)
	g.POST("/hostels", h.Hostels.Create)
	g.PUT("/hostels/:hostelId", h.Hostels.Update)
	g.DELETE("/hostels/:hostelId", h.Hostels.Delete)
	g.GET("/hostels-with-rooms", h.Hostels.WithRooms, cached)

	// ---- Rooms ----
	g.GET("/hostels/:hostelId/rooms", h.Rooms.List)
	g.PATCH("/hostels/:hostelId/rooms", h.Rooms.Add)
	g.GET("/hostels/:hostelId/rooms/available", h.Rooms.Available)
	g.DELETE("/hostels/:hostelId/rooms/:roomId", h.Rooms.Delete)
	g.GET("/rooms/:roomId/seats/available", h.Rooms.AvailableSeats)

	// ---- Boarders ----
	g.POST("/boarders", h.Boarders.Register)
	g.GET("/boarders", h.Boarders.List)
	g.GET("/boarders/:boarderId", h.Boarders.Get)

	// ---- Allocations ----
	g.POST("/allocations", h.Allocations.Allocate)
	g.GET("/allocations/:boarderId", h.Allocations.Details)
	g.PATCH("/allocations/:boarderId", h.Allocations.Deallocate)
}
