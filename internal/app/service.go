package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/kavya5cloud/RoastMyPlaylist/internal/analysis"
	"github.com/kavya5cloud/RoastMyPlaylist/internal/domain"
	"github.com/kavya5cloud/RoastMyPlaylist/internal/metrics"
	"github.com/kavya5cloud/RoastMyPlaylist/internal/roast"
	"github.com/kavya5cloud/RoastMyPlaylist/internal/spotify"
)

// roastListCap bounds the track/artist lists embedded in a stored roast.
const roastListCap = 10

// neutralAudioFeatures stands in for every track when the audio-features
// fetch fails. Mid-range values keep the statistics defined without skewing
// them in either direction.
var neutralAudioFeatures = domain.AudioFeatures{
	Danceability:     0.5,
	Energy:           0.5,
	Valence:          0.5,
	Tempo:            120,
	Acousticness:     0.5,
	Instrumentalness: 0.1,
	Speechiness:      0.1,
}

// MusicClient is the slice of the Spotify client the service uses.
type MusicClient interface {
	ExchangeCode(ctx context.Context, code string) (*spotify.TokenGrant, error)
	GetProfile(ctx context.Context, accessToken string) (*spotify.Profile, error)
	GetTopTracks(ctx context.Context, accessToken string) ([]domain.Track, error)
	GetTopArtists(ctx context.Context, accessToken string) ([]domain.Artist, error)
	GetRecentlyPlayed(ctx context.Context, accessToken string) ([]domain.PlayedItem, error)
	GetPlaylists(ctx context.Context, accessToken string) ([]domain.Playlist, error)
	GetAudioFeatures(ctx context.Context, accessToken string, trackIDs []string) ([]domain.AudioFeatures, error)
}

// TokenSource hands out users with live access tokens.
type TokenSource interface {
	EnsureValidToken(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// Service is the application layer. It is the only component that references
// multiple domain components and orchestrates all use cases.
type Service struct {
	users      domain.UserRepository
	roasts     domain.RoastRepository
	snapshots  domain.SnapshotRepository
	client     MusicClient
	tokens     TokenSource
	generator  roast.Generator
	clock      clockwork.Clock
	roastGroup singleflight.Group
}

func NewService(users domain.UserRepository, roasts domain.RoastRepository, snapshots domain.SnapshotRepository, client MusicClient, tokens TokenSource, generator roast.Generator, clock clockwork.Clock) *Service {
	return &Service{
		users:     users,
		roasts:    roasts,
		snapshots: snapshots,
		client:    client,
		tokens:    tokens,
		generator: generator,
		clock:     clock,
	}
}

// HandleCallback finishes the OAuth flow: code exchange, profile fetch, and
// user upsert. The state parameter must be verified by the caller before this
// runs.
func (s *Service) HandleCallback(ctx context.Context, code string) (*domain.User, error) {
	grant, err := s.client.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	profile, err := s.client.GetProfile(ctx, grant.AccessToken)
	if err != nil {
		return nil, err
	}

	expiry := s.clock.Now().Add(time.Duration(grant.ExpiresIn) * time.Second)
	return s.users.Upsert(ctx, profile.ID, profile.DisplayName, profile.Email, profile.ProfileImage(),
		grant.AccessToken, grant.RefreshToken, expiry)
}

// GetUser retrieves a user by internal ID.
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// GetRoast retrieves a roast by ID. Roasts are shareable, so no ownership
// check happens here.
func (s *Service) GetRoast(ctx context.Context, roastID uuid.UUID) (*domain.Roast, error) {
	return s.roasts.GetByID(ctx, roastID)
}

// GenerateRoast runs the full pipeline for one user: token check, listening
// data fetch, statistics, roast generation, persistence. Concurrent calls for
// the same user collapse into one run via singleflight; each caller gets the
// same stored roast back.
func (s *Service) GenerateRoast(ctx context.Context, userID uuid.UUID) (*domain.Roast, error) {
	// The run is shared between collapsed callers, so it must not die with
	// whichever request happened to start it.
	runCtx := context.WithoutCancel(ctx)
	result, err, _ := s.roastGroup.Do(userID.String(), func() (any, error) {
		return s.generateRoast(runCtx, userID)
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.Roast), nil
}

func (s *Service) generateRoast(ctx context.Context, userID uuid.UUID) (*domain.Roast, error) {
	start := s.clock.Now()
	defer func() {
		metrics.RoastGenerationDuration.Observe(s.clock.Since(start).Seconds())
	}()

	// Refresh strictly before any data fetch so all four calls run on the
	// same live token.
	user, err := s.tokens.EnsureValidToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	var (
		tracks    []domain.Track
		artists   []domain.Artist
		recent    []domain.PlayedItem
		playlists []domain.Playlist
	)
	fetchErrs := make([]error, 4)

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		tracks, fetchErrs[0] = s.client.GetTopTracks(ctx, user.AccessToken)
	}()
	go func() {
		defer wg.Done()
		artists, fetchErrs[1] = s.client.GetTopArtists(ctx, user.AccessToken)
	}()
	go func() {
		defer wg.Done()
		recent, fetchErrs[2] = s.client.GetRecentlyPlayed(ctx, user.AccessToken)
	}()
	go func() {
		defer wg.Done()
		playlists, fetchErrs[3] = s.client.GetPlaylists(ctx, user.AccessToken)
	}()
	wg.Wait()

	for _, fetchErr := range fetchErrs {
		if fetchErr != nil {
			return nil, fetchErr
		}
	}

	features := s.fetchAudioFeatures(ctx, user, tracks)

	snapshot := &domain.Snapshot{
		ID:             uuid.New(),
		UserID:         user.ID,
		TopTracks:      tracks,
		TopArtists:     artists,
		RecentlyPlayed: recent,
		AudioFeatures:  features,
		Playlists:      playlists,
		FetchedAt:      s.clock.Now(),
	}
	// The snapshot is a convenience cache; losing one must not cost the roast.
	if err := s.snapshots.Save(ctx, snapshot); err != nil {
		slog.Warn("Failed to store listening snapshot", "user_id", user.ID.String(), "error", err)
	}

	stats := analysis.Analyze(tracks, artists, features)

	generated := s.generator.Generate(ctx, roastInputs(stats, artists))
	metrics.RoastsGeneratedTotal.WithLabelValues(string(generated.Category), generated.Source).Inc()

	created, err := s.roasts.Create(ctx, &domain.Roast{
		UserID:      user.ID,
		Headline:    generated.Headline,
		Description: generated.Description,
		Category:    generated.Category,
		MusicData: domain.RoastMusicData{
			TopTracks:  capList(tracks, roastListCap),
			TopArtists: capList(artists, roastListCap),
		},
		Analysis: stats,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Roast generated",
		"user_id", user.ID.String(),
		"roast_id", created.ID.String(),
		"category", string(created.Category),
		"source", generated.Source,
	)
	return created, nil
}

// fetchAudioFeatures degrades instead of failing: when the feature call
// errors, every track gets the neutral mid-range values.
func (s *Service) fetchAudioFeatures(ctx context.Context, user *domain.User, tracks []domain.Track) []domain.AudioFeatures {
	if len(tracks) == 0 {
		return nil
	}

	trackIDs := make([]string, 0, len(tracks))
	for _, track := range tracks {
		trackIDs = append(trackIDs, track.ID)
	}

	features, err := s.client.GetAudioFeatures(ctx, user.AccessToken, trackIDs)
	if err != nil {
		slog.Warn("Audio features unavailable, using neutral values",
			"user_id", user.ID.String(), "error", err)
		features = make([]domain.AudioFeatures, len(tracks))
		for i := range features {
			features[i] = neutralAudioFeatures
		}
	}
	return features
}

func roastInputs(stats domain.MusicAnalysis, artists []domain.Artist) roast.Inputs {
	artistNames := make([]string, 0, len(artists))
	for _, artist := range artists {
		artistNames = append(artistNames, artist.Name)
	}

	return roast.Inputs{
		TopArtists:           artistNames,
		TopGenres:            stats.DominantGenres,
		SadSongsPercentage:   stats.SadSongsPercentage,
		MainstreamPercentage: stats.MainstreamPercentage,
		NostalgiaPercentage:  stats.NostalgiaPercentage,
		RepeatArtist:         stats.RepeatArtist,
		RepeatArtistCount:    stats.RepeatArtistCount,
		AvgTempo:             stats.AvgTempo,
		AverageValence:       stats.AverageValence,
		OldestSong:           stats.OldestSong,
		UniqueArtists:        stats.UniqueArtists,
	}
}

func capList[T any](list []T, limit int) []T {
	if len(list) > limit {
		return list[:limit]
	}
	return list
}
