package server

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kavya5cloud/RoastMyPlaylist/internal/metrics"
)

// Session keys
const (
	sessionName          = "roastmyplaylist-session"
	sessionKeyUserID     = "user_id"
	sessionKeyOAuthState = "spotify_state"
)

func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, err := s.sessionStore.Get(c.Request(), sessionName)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
		}

		userID, ok := session.Values[sessionKeyUserID]
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
		}

		userIDStr, ok := userID.(string)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
		}

		userUUID, err := uuid.Parse(userIDStr)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
		}

		c.Set("userID", userUUID)
		return next(c)
	}
}

func generateOAuthState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate OAuth state: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// handleAuthURL hands the frontend a consent URL with a fresh one-time state
// bound to the session.
func (s *Server) handleAuthURL(c echo.Context) error {
	state, err := generateOAuthState()
	if err != nil {
		slog.Error("Failed to generate OAuth state", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal error"})
	}

	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		slog.Warn("Failed to get session for OAuth state", "error", err)
	}
	session.Values[sessionKeyOAuthState] = state
	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		slog.Error("Failed to save OAuth state session", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal error"})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"authUrl": s.spotifyAuth.AuthorizeURL(state),
	})
}

// handleAuthCallback finishes the OAuth flow. State problems are the caller's
// fault and get a 400; upstream problems redirect back to the frontend with
// auth=error so the page can show something useful.
func (s *Server) handleAuthCallback(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing code parameter"})
	}

	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid session"})
	}
	expectedState, ok := session.Values[sessionKeyOAuthState].(string)
	if !ok || expectedState == "" {
		metrics.LoginsTotal.WithLabelValues("state_mismatch").Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing OAuth state"})
	}
	if c.QueryParam("state") != expectedState {
		metrics.LoginsTotal.WithLabelValues("state_mismatch").Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid OAuth state"})
	}
	delete(session.Values, sessionKeyOAuthState)

	user, err := s.app.HandleCallback(c.Request().Context(), code)
	if err != nil {
		slog.Error("OAuth callback failed", "error", err)
		metrics.LoginsTotal.WithLabelValues("exchange_failed").Inc()
		return c.Redirect(http.StatusFound, "/?auth=error")
	}

	session.Values[sessionKeyUserID] = user.ID.String()
	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		slog.Error("Failed to save session", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save session"})
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.Redirect(http.StatusFound, "/?auth=success")
}

func (s *Server) handleLogout(c echo.Context) error {
	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		slog.Warn("Failed to get session during logout", "error", err)
		session, err = s.sessionStore.New(c.Request(), sessionName)
		if err != nil {
			slog.Error("Failed to create new session during logout", "error", err)
		}
	}
	session.Options.MaxAge = -1

	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		slog.Error("Failed to save logout session", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to logout"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// clearSession drops the cookie session, used when Spotify revokes a grant.
func (s *Server) clearSession(c echo.Context) {
	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		return
	}
	session.Options.MaxAge = -1
	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		slog.Warn("Failed to clear session", "error", err)
	}
}
