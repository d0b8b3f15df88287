package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no auth required)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")

	// Auth flow
	api.GET("/auth/spotify", s.handleAuthURL)
	api.GET("/auth/spotify/callback", s.handleAuthCallback)
	api.POST("/logout", s.handleLogout)

	// Session-bound routes
	api.GET("/user", s.handleGetUser, s.requireAuth)
	api.POST("/roast", s.handleCreateRoast, s.requireAuth)

	// Shareable, no session needed
	api.GET("/roast/:id", s.handleGetRoast)
}
