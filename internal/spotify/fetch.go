package spotify

import (
	"context"
	"fmt"
	"strings"

	"github.com/kavya5cloud/RoastMyPlaylist/internal/domain"
)

// Wire payloads. Kept separate from the domain types so Spotify's field names
// stay out of the rest of the codebase.

type trackPayload struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Artists []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name        string `json:"name"`
		ReleaseDate string `json:"release_date"`
	} `json:"album"`
	DurationMS   int `json:"duration_ms"`
	Popularity   int `json:"popularity"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type artistPayload struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
	Followers  struct {
		Total int `json:"total"`
	} `json:"followers"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type audioFeaturesPayload struct {
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Speechiness      float64 `json:"speechiness"`
}

func (p trackPayload) toDomain() domain.Track {
	track := domain.Track{
		ID:   p.ID,
		Name: p.Name,
		Album: domain.Album{
			Name:        p.Album.Name,
			ReleaseDate: p.Album.ReleaseDate,
		},
		DurationMS:  p.DurationMS,
		Popularity:  p.Popularity,
		ExternalURL: p.ExternalURLs.Spotify,
	}
	for _, a := range p.Artists {
		track.Artists = append(track.Artists, domain.TrackArtist{ID: a.ID, Name: a.Name})
	}
	return track
}

func (p artistPayload) toDomain() domain.Artist {
	return domain.Artist{
		ID:          p.ID,
		Name:        p.Name,
		Genres:      p.Genres,
		Popularity:  p.Popularity,
		Followers:   p.Followers.Total,
		ExternalURL: p.ExternalURLs.Spotify,
	}
}

// GetTopTracks fetches the user's top tracks over the medium term.
func (c *Client) GetTopTracks(ctx context.Context, accessToken string) ([]domain.Track, error) {
	var payload struct {
		Items []trackPayload `json:"items"`
	}
	path := fmt.Sprintf("/me/top/tracks?limit=%d&time_range=%s", fetchLimit, defaultTimeRange)
	if err := c.getJSON(ctx, accessToken, path, "top tracks", &payload); err != nil {
		return nil, err
	}

	tracks := make([]domain.Track, 0, len(payload.Items))
	for _, item := range payload.Items {
		tracks = append(tracks, item.toDomain())
	}
	return tracks, nil
}

// GetTopArtists fetches the user's top artists over the medium term.
func (c *Client) GetTopArtists(ctx context.Context, accessToken string) ([]domain.Artist, error) {
	var payload struct {
		Items []artistPayload `json:"items"`
	}
	path := fmt.Sprintf("/me/top/artists?limit=%d&time_range=%s", fetchLimit, defaultTimeRange)
	if err := c.getJSON(ctx, accessToken, path, "top artists", &payload); err != nil {
		return nil, err
	}

	artists := make([]domain.Artist, 0, len(payload.Items))
	for _, item := range payload.Items {
		artists = append(artists, item.toDomain())
	}
	return artists, nil
}

// GetRecentlyPlayed fetches the user's listening history.
func (c *Client) GetRecentlyPlayed(ctx context.Context, accessToken string) ([]domain.PlayedItem, error) {
	var payload struct {
		Items []struct {
			Track    trackPayload `json:"track"`
			PlayedAt string       `json:"played_at"`
		} `json:"items"`
	}
	path := fmt.Sprintf("/me/player/recently-played?limit=%d", fetchLimit)
	if err := c.getJSON(ctx, accessToken, path, "recently played", &payload); err != nil {
		return nil, err
	}

	items := make([]domain.PlayedItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, domain.PlayedItem{
			Track:    item.Track.toDomain(),
			PlayedAt: item.PlayedAt,
		})
	}
	return items, nil
}

// GetPlaylists fetches the user's playlists.
func (c *Client) GetPlaylists(ctx context.Context, accessToken string) ([]domain.Playlist, error) {
	var payload struct {
		Items []struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Public bool   `json:"public"`
			Tracks struct {
				Total int `json:"total"`
			} `json:"tracks"`
		} `json:"items"`
	}
	path := fmt.Sprintf("/me/playlists?limit=%d", fetchLimit)
	if err := c.getJSON(ctx, accessToken, path, "playlists", &payload); err != nil {
		return nil, err
	}

	playlists := make([]domain.Playlist, 0, len(payload.Items))
	for _, item := range payload.Items {
		playlists = append(playlists, domain.Playlist{
			ID:         item.ID,
			Name:       item.Name,
			TrackCount: item.Tracks.Total,
			Public:     item.Public,
		})
	}
	return playlists, nil
}

// GetAudioFeatures fetches audio features for the given track ids, batching
// requests to stay under the upstream id limit. Tracks Spotify could not
// analyze come back as null entries and are skipped, so the result may be
// shorter than the id list.
func (c *Client) GetAudioFeatures(ctx context.Context, accessToken string, trackIDs []string) ([]domain.AudioFeatures, error) {
	var features []domain.AudioFeatures

	for start := 0; start < len(trackIDs); start += audioFeaturesBatchLimit {
		end := start + audioFeaturesBatchLimit
		if end > len(trackIDs) {
			end = len(trackIDs)
		}

		var payload struct {
			AudioFeatures []*audioFeaturesPayload `json:"audio_features"`
		}
		path := "/audio-features?ids=" + strings.Join(trackIDs[start:end], ",")
		if err := c.getJSON(ctx, accessToken, path, "audio features", &payload); err != nil {
			return nil, err
		}

		for _, item := range payload.AudioFeatures {
			if item == nil {
				continue
			}
			features = append(features, domain.AudioFeatures{
				Danceability:     item.Danceability,
				Energy:           item.Energy,
				Valence:          item.Valence,
				Tempo:            item.Tempo,
				Acousticness:     item.Acousticness,
				Instrumentalness: item.Instrumentalness,
				Speechiness:      item.Speechiness,
			})
		}
	}

	return features, nil
}
