package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kavya5cloud/RoastMyPlaylist/internal/domain"
)

// RoastRepo implements domain.RoastRepository backed by PostgreSQL.
// Music data and analysis are stored as JSONB so the shareable page can
// render without refetching from Spotify.
type RoastRepo struct {
	pool *pgxpool.Pool
}

var _ domain.RoastRepository = (*RoastRepo)(nil)

func NewRoastRepo(pool *pgxpool.Pool) *RoastRepo {
	return &RoastRepo{pool: pool}
}

func (r *RoastRepo) scanRoast(row pgx.Row) (*domain.Roast, error) {
	var (
		roast        domain.Roast
		musicData    []byte
		analysisData []byte
	)
	err := row.Scan(
		&roast.ID, &roast.UserID, &roast.Headline, &roast.Description,
		&roast.Category, &musicData, &analysisData, &roast.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRoastNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(musicData, &roast.MusicData); err != nil {
		return nil, fmt.Errorf("failed to decode music data: %w", err)
	}
	if err := json.Unmarshal(analysisData, &roast.Analysis); err != nil {
		return nil, fmt.Errorf("failed to decode analysis data: %w", err)
	}
	return &roast, nil
}

func (r *RoastRepo) Create(ctx context.Context, roast *domain.Roast) (*domain.Roast, error) {
	musicData, err := json.Marshal(roast.MusicData)
	if err != nil {
		return nil, fmt.Errorf("failed to encode music data: %w", err)
	}
	analysisData, err := json.Marshal(roast.Analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis data: %w", err)
	}

	created, err := r.scanRoast(r.pool.QueryRow(ctx, `
		INSERT INTO roasts (user_id, headline, description, category, music_data, analysis_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, user_id, headline, description, category, music_data, analysis_data, created_at
	`, roast.UserID, roast.Headline, roast.Description, roast.Category, musicData, analysisData))
	if err != nil {
		return nil, fmt.Errorf("failed to create roast: %w", err)
	}

	return created, nil
}

func (r *RoastRepo) GetByID(ctx context.Context, roastID uuid.UUID) (*domain.Roast, error) {
	return r.scanRoast(r.pool.QueryRow(ctx, `
		SELECT id, user_id, headline, description, category, music_data, analysis_data, created_at
		FROM roasts
		WHERE id = $1
	`, roastID))
}
