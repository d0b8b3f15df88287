package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Snapshot is the raw listening data fetched for one roast run. Each fetch
// supersedes the previous snapshot for that user, it is never merged.
type Snapshot struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"userId"`
	TopTracks      []Track         `json:"topTracks"`
	TopArtists     []Artist        `json:"topArtists"`
	RecentlyPlayed []PlayedItem    `json:"recentlyPlayed"`
	AudioFeatures  []AudioFeatures `json:"audioFeatures"`
	Playlists      []Playlist      `json:"playlists"`
	FetchedAt      time.Time       `json:"fetchedAt"`
}

type SnapshotRepository interface {
	Save(ctx context.Context, snapshot *Snapshot) error
	Latest(ctx context.Context, userID uuid.UUID) (*Snapshot, error)
}
