package spotify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/kavya5cloud/RoastMyPlaylist/internal/domain"
	"github.com/kavya5cloud/RoastMyPlaylist/internal/metrics"
)

// refreshClient is the slice of Client the refresher needs.
type refreshClient interface {
	Refresh(ctx context.Context, refreshToken string) (*TokenGrant, error)
}

// TokenRefresher keeps a user's access token usable: expired tokens are
// refreshed and persisted before any authenticated call goes out.
type TokenRefresher struct {
	users  domain.UserRepository
	client refreshClient
	clock  clockwork.Clock
}

func NewTokenRefresher(users domain.UserRepository, client refreshClient, clock clockwork.Clock) *TokenRefresher {
	return &TokenRefresher{
		users:  users,
		client: client,
		clock:  clock,
	}
}

// EnsureValidToken returns the user with a live access token. The expiry check
// is a plain wall-clock comparison at call time; when it trips, exactly one
// refresh runs and the new token triple is stored before the user is handed
// back. Two concurrent calls for the same expiring user can both refresh; the
// second write wins and both tokens work, so no deduplication is done here.
func (tr *TokenRefresher) EnsureValidToken(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := tr.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if tr.clock.Now().Before(user.TokenExpiry) {
		return user, nil
	}

	grant, err := tr.client.Refresh(ctx, user.RefreshToken)
	if err != nil {
		var refreshErr *TokenRefreshError
		if errors.As(err, &refreshErr) && refreshErr.Revoked {
			metrics.TokenRefreshesTotal.WithLabelValues("revoked").Inc()
		} else {
			metrics.TokenRefreshesTotal.WithLabelValues("failed").Inc()
		}
		return nil, err
	}
	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()

	// Spotify usually keeps the refresh token; replace it only on rotation.
	refreshToken := grant.RefreshToken
	if refreshToken == "" {
		refreshToken = user.RefreshToken
	}

	tokenExpiry := tr.clock.Now().Add(time.Duration(grant.ExpiresIn) * time.Second)
	if err := tr.users.UpdateTokens(ctx, user.ID, grant.AccessToken, refreshToken, tokenExpiry); err != nil {
		return nil, fmt.Errorf("failed to update tokens: %w", err)
	}

	user.AccessToken = grant.AccessToken
	user.RefreshToken = refreshToken
	user.TokenExpiry = tokenExpiry

	return user, nil
}
