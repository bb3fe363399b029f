package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing

    "github.com/iliyamo/room-reservation/internal/handler"    // import the handlers that implement business logic
    "github.com/iliyamo/room-reservation/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// Handlers bundles every handler the router wires up.  main builds this
// once after constructing the repositories and the engine.
type Handlers struct {
    Auth    *handler.AuthHandler
    Booking *handler.BookingHandler
    Admin   *handler.AdminBookingHandler
    Rooms   *handler.RoomHandler
    Ledger  *handler.BlacklistHandler
}

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // Load balancers and monitoring probe this endpoint.
    e.GET("/healthz", handler.Health)
}

// RegisterAPI registers the full booking API.  Login lives under
// /v1/auth and is the only unauthenticated operation.  Everything else
// sits behind JWTAuth; the admin subtree additionally requires the
// ADMIN role.
func RegisterAPI(e *echo.Echo, h Handlers, jwtSecret string) {
    e.POST("/v1/auth/login", h.Auth.Login)

    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.Use(middleware.RequireRole("ADMIN", "EMPLOYEE"))

    // Rooms and self-service bookings.
    auth.GET("/rooms", h.Rooms.List)
    auth.POST("/bookings", h.Booking.Create)
    auth.GET("/my-bookings", h.Booking.MyBookings)
    auth.GET("/bookings/:id/status", h.Booking.Status)
    auth.GET("/bookings/:id/cancel-reason", h.Booking.CancelReason)
    auth.POST("/bookings/:id/cancel", h.Booking.Cancel)
    auth.POST("/bookings/:id/confirm", h.Booking.Confirm)

    // Administrative lifecycle operations and the strike ledger.
    admin := auth.Group("/admin")
    admin.Use(middleware.RequireRole("ADMIN"))
    admin.GET("/bookings", h.Admin.List)
    admin.POST("/bookings/:id/approve", h.Admin.Approve)
    admin.POST("/bookings/:id/confirm", h.Admin.Confirm)
    admin.POST("/bookings/:id/cancel", h.Admin.Cancel)
    admin.POST("/sweep", h.Admin.TriggerSweep)
    admin.POST("/late-checkins", h.Admin.LateCheckins)
    admin.GET("/blacklist", h.Ledger.List)
    admin.POST("/blacklist/:ssn/unlock", h.Ledger.Unlock)
    admin.GET("/strike-stats", h.Ledger.StrikeStats)
}
