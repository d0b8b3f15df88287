package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	SpotifyID    string
	DisplayName  string
	Email        string
	ProfileImage string
	// Tokens are kept in User struct for simplicity. Rationale:
	// - User and tokens have identical lifecycle (created/updated together)
	// - No use case for querying users without tokens or vice versa
	// - Token encryption is handled at repository layer, not domain layer
	AccessToken  string
	RefreshToken string
	TokenExpiry  time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserRepository interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetBySpotifyID(ctx context.Context, spotifyID string) (*User, error)
	// Upsert creates the user on first login and refreshes profile fields and
	// tokens on every subsequent login, keyed by the unique Spotify identity.
	Upsert(ctx context.Context, spotifyID, displayName, email, profileImage, accessToken, refreshToken string, tokenExpiry time.Time) (*User, error)
	// UpdateTokens replaces accessToken/refreshToken/tokenExpiry as one unit.
	UpdateTokens(ctx context.Context, userID uuid.UUID, accessToken, refreshToken string, tokenExpiry time.Time) error
}
