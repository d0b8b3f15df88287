package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kavya5cloud/RoastMyPlaylist/internal/version"
)

const readinessCheckTimeout = 2 * time.Second

func (s *Server) handleLiveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"uptime":  time.Since(s.startTime).String(),
		"version": version.Get(),
	})
}

// handleReadiness checks every hard dependency. A single failed check makes
// the whole endpoint fail so load balancers stop routing here.
func (s *Server) handleReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessCheckTimeout)
	defer cancel()

	checks := []struct {
		name string
		ping func(context.Context) error
	}{
		{"postgres", s.postgres.Ping},
		{"redis", s.redis.Ping},
	}

	for _, check := range checks {
		if err := check.ping(ctx); err != nil {
			slog.Error("Readiness check failed", "check", check.name, "error", err)
			return c.JSON(http.StatusServiceUnavailable, map[string]any{
				"status":       "unavailable",
				"failed_check": check.name,
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]any{"status": "ready"})
}
