package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Category is the closed set of roast verdicts.
type Category string

const (
	CategorySadSongs    Category = "sad_songs"
	CategoryMainstream  Category = "mainstream"
	CategoryNostalgia   Category = "nostalgia"
	CategoryObsessedFan Category = "obsessed_fan"
	CategorySlowVibes   Category = "slow_vibes"
	CategoryBasicTaste  Category = "basic_taste"
	CategoryEclectic    Category = "eclectic"
)

// Valid reports whether c is one of the defined categories.
func (c Category) Valid() bool {
	switch c {
	case CategorySadSongs, CategoryMainstream, CategoryNostalgia,
		CategoryObsessedFan, CategorySlowVibes, CategoryBasicTaste, CategoryEclectic:
		return true
	}
	return false
}

// RoastMusicData is the snapshot of listening data a roast was built from,
// capped to the top 10 of each list.
type RoastMusicData struct {
	TopTracks  []Track  `json:"topTracks"`
	TopArtists []Artist `json:"topArtists"`
}

// Roast is immutable once created; regenerating produces a new record.
type Roast struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"userId"`
	Headline    string         `json:"headline"`
	Description string         `json:"description"`
	Category    Category       `json:"category"`
	MusicData   RoastMusicData `json:"musicData"`
	Analysis    MusicAnalysis  `json:"analysisData"`
	CreatedAt   time.Time      `json:"createdAt"`
}

type RoastRepository interface {
	Create(ctx context.Context, roast *Roast) (*Roast, error)
	// GetByID serves shareable links and requires no session.
	GetByID(ctx context.Context, roastID uuid.UUID) (*Roast, error)
}
