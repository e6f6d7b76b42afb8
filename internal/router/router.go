package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/BastovOleksandr/planetarium-service/internal/handler"
	"github.com/BastovOleksandr/planetarium-service/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems use this endpoint to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session: register, login,
	// refresh.  Each handler generates or exchanges tokens.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; refresh-access issues a new access
	// token without rotating.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts a JSON body with a refresh_token and invalidates it.
	// No JWT required, so an expired access token never blocks logout.
	g.POST("/logout", a.Logout)

	// Protected endpoints.  Every handler on this group runs the JWTAuth
	// middleware first; both roles may read their own identity.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	auth.GET("/me", a.Me)

	// Alias outside the protected group so clients can call either
	// /v1/auth/logout or /v1/logout with a refresh token in the body.
	e.POST("/v1/logout", a.Logout)
}
