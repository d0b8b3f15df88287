package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kavya5cloud/RoastMyPlaylist/internal/domain"
	"github.com/kavya5cloud/RoastMyPlaylist/internal/spotify"
)

// userResponse is the sanitized view of a user. Tokens never leave the server.
type userResponse struct {
	ID           uuid.UUID `json:"id"`
	SpotifyID    string    `json:"spotifyId"`
	DisplayName  string    `json:"displayName"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profileImage"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toUserResponse(user *domain.User) userResponse {
	return userResponse{
		ID:           user.ID,
		SpotifyID:    user.SpotifyID,
		DisplayName:  user.DisplayName,
		Email:        user.Email,
		ProfileImage: user.ProfileImage,
		CreatedAt:    user.CreatedAt,
	}
}

func (s *Server) handleGetUser(c echo.Context) error {
	userID := c.Get("userID").(uuid.UUID)

	user, err := s.app.GetUser(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
		}
		slog.Error("Failed to get user", "user_id", userID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal error"})
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// roastOwner is the trimmed user summary embedded in roast responses.
type roastOwner struct {
	ID           *uuid.UUID `json:"id,omitempty"`
	DisplayName  string     `json:"displayName"`
	ProfileImage string     `json:"profileImage"`
}

func (s *Server) handleCreateRoast(c echo.Context) error {
	userID := c.Get("userID").(uuid.UUID)

	user, err := s.app.GetUser(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
		}
		slog.Error("Failed to get user", "user_id", userID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal error"})
	}

	roast, err := s.app.GenerateRoast(c.Request().Context(), userID)
	if err != nil {
		var refreshErr *spotify.TokenRefreshError
		if errors.As(err, &refreshErr) && refreshErr.Revoked {
			// The grant is gone; the session is worthless without it.
			s.clearSession(c)
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Spotify authorization expired, please log in again"})
		}

		var fetchErr *spotify.UpstreamFetchError
		if errors.As(err, &fetchErr) {
			slog.Error("Spotify fetch failed during roast", "user_id", userID, "operation", fetchErr.Operation, "error", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch Spotify data"})
		}

		slog.Error("Failed to generate roast", "user_id", userID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate roast"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"roast":    roast,
		"analysis": roast.Analysis,
		"user": roastOwner{
			ID:           &user.ID,
			DisplayName:  user.DisplayName,
			ProfileImage: user.ProfileImage,
		},
	})
}

func (s *Server) handleGetRoast(c echo.Context) error {
	// An id that cannot be a roast id is indistinguishable from an unknown one.
	roastID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Roast not found"})
	}

	roast, err := s.app.GetRoast(c.Request().Context(), roastID)
	if err != nil {
		if errors.Is(err, domain.ErrRoastNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Roast not found"})
		}
		slog.Error("Failed to get roast", "roast_id", roastID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal error"})
	}

	// The share page shows who got roasted when the account still exists.
	var owner *roastOwner
	if user, err := s.app.GetUser(c.Request().Context(), roast.UserID); err == nil {
		owner = &roastOwner{DisplayName: user.DisplayName, ProfileImage: user.ProfileImage}
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		slog.Warn("Failed to load roast owner", "roast_id", roastID, "error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"roast": roast,
		"user":  owner,
	})
}
