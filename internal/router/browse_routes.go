package router

import (
	"github.com/BastovOleksandr/planetarium-service/internal/handler"
	"github.com/BastovOleksandr/planetarium-service/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterBrowse registers the read side of the catalog under /v1.
// Both roles may browse: customers to pick seats, admins to review
// the schedule.  The optional extra middlewares (response cache,
// rate limiter) are applied after authentication.
func RegisterBrowse(e *echo.Echo, h *handler.BrowseHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "CUSTOMER"),
	}
	mws = append(mws, extra...)
	g := e.Group("/v1", mws...)

	g.GET("/themes", h.ListThemes)
	g.GET("/domes", h.ListDomes)
	g.GET("/domes/:id", h.GetDome)
	g.GET("/shows", h.ListShows)
	g.GET("/shows/:id", h.GetShow)
	g.GET("/sessions", h.ListSessions)
	g.GET("/sessions/:id", h.GetSession)
}

// RegisterReservations registers reservation endpoints under /v1.  Any
// authenticated user can book and manage their own reservations.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "CUSTOMER"),
	)
	g.POST("/reservations", h.CreateReservation)
	g.GET("/reservations", h.ListReservations)
	g.GET("/reservations/:id", h.GetReservation)
	g.DELETE("/reservations/:id", h.DeleteReservation)
}
