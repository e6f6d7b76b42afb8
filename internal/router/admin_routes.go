package router // router defines how HTTP routes are registered for the API

import (
	"github.com/BastovOleksandr/planetarium-service/internal/handler"
	"github.com/BastovOleksandr/planetarium-service/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1.
// All routes require a valid JWT and the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Domes ----
	g.POST("/domes", a.CreateDome)
	g.PATCH("/domes/:id", a.UpdateDome)
	g.DELETE("/domes/:id", a.DeleteDome)

	// ---- Themes ----
	g.POST("/themes", a.CreateTheme)
	g.PATCH("/themes/:id", a.UpdateTheme)
	g.DELETE("/themes/:id", a.DeleteTheme)

	// ---- Shows ----
	g.POST("/shows", a.CreateShow)
	g.PATCH("/shows/:id", a.UpdateShow)
	g.DELETE("/shows/:id", a.DeleteShow)
	g.POST("/shows/:id/image", a.UploadShowImage)

	// ---- Sessions ----
	g.POST("/sessions", a.CreateSession)
	g.PATCH("/sessions/:id", a.UpdateSession)
	g.DELETE("/sessions/:id", a.DeleteSession)
}
