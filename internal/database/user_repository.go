package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kavya5cloud/RoastMyPlaylist/internal/crypto"
	"github.com/kavya5cloud/RoastMyPlaylist/internal/domain"
)

// userColumns must match the Scan order in scanUser.
const userColumns = `id, spotify_id, display_name, email, profile_image, access_token, refresh_token, token_expiry, created_at, updated_at`

// UserRepo implements domain.UserRepository backed by PostgreSQL.
type UserRepo struct {
	pool   *pgxpool.Pool
	crypto crypto.Service
}

var _ domain.UserRepository = (*UserRepo)(nil)

// NewUserRepo creates a UserRepo from the shared connection pool.
func NewUserRepo(pool *pgxpool.Pool, cryptoService crypto.Service) *UserRepo {
	return &UserRepo{pool: pool, crypto: cryptoService}
}

func (r *UserRepo) decryptUserTokens(user *domain.User) error {
	var err error
	user.AccessToken, err = r.crypto.Decrypt(user.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to decrypt access token: %w", err)
	}
	user.RefreshToken, err = r.crypto.Decrypt(user.RefreshToken)
	if err != nil {
		return fmt.Errorf("failed to decrypt refresh token: %w", err)
	}
	return nil
}

func (r *UserRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID, &user.SpotifyID, &user.DisplayName, &user.Email, &user.ProfileImage,
		&user.AccessToken, &user.RefreshToken, &user.TokenExpiry,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.decryptUserTokens(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) Upsert(ctx context.Context, spotifyID, displayName, email, profileImage, accessToken, refreshToken string, tokenExpiry time.Time) (*domain.User, error) {
	encAccessToken, err := r.crypto.Encrypt(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}
	encRefreshToken, err := r.crypto.Encrypt(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt refresh token: %w", err)
	}

	user, err := r.scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (spotify_id, display_name, email, profile_image, access_token, refresh_token, token_expiry, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (spotify_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			email = EXCLUDED.email,
			profile_image = EXCLUDED.profile_image,
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_expiry = EXCLUDED.token_expiry,
			updated_at = NOW()
		RETURNING `+userColumns,
		spotifyID, displayName, email, profileImage, encAccessToken, encRefreshToken, tokenExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
}

func (r *UserRepo) GetBySpotifyID(ctx context.Context, spotifyID string) (*domain.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE spotify_id = $1`, spotifyID))
}

func (r *UserRepo) UpdateTokens(ctx context.Context, userID uuid.UUID, accessToken, refreshToken string, tokenExpiry time.Time) error {
	encAccessToken, err := r.crypto.Encrypt(accessToken)
	if err != nil {
		return fmt.Errorf("failed to encrypt access token: %w", err)
	}
	encRefreshToken, err := r.crypto.Encrypt(refreshToken)
	if err != nil {
		return fmt.Errorf("failed to encrypt refresh token: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET access_token = $1, refresh_token = $2, token_expiry = $3, updated_at = NOW()
		WHERE id = $4
	`, encAccessToken, encRefreshToken, tokenExpiry, userID)
	if err != nil {
		return fmt.Errorf("failed to update tokens: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}
