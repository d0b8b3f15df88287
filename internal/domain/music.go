package domain

// Spotify Web API shapes, trimmed to the fields the analysis consumes plus the
// identifiers needed for shareable snapshots.

type TrackArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Album struct {
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
}

type Track struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Artists     []TrackArtist `json:"artists"`
	Album       Album         `json:"album"`
	DurationMS  int           `json:"duration_ms"`
	Popularity  int           `json:"popularity"`
	ExternalURL string        `json:"external_url"`
}

type Artist struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Genres      []string `json:"genres"`
	Popularity  int      `json:"popularity"`
	Followers   int      `json:"followers"`
	ExternalURL string   `json:"external_url"`
}

// AudioFeatures holds per-track numeric descriptors. Entries can be missing
// for tracks Spotify could not analyze, so a feature list may be shorter than
// the track list it was requested for.
type AudioFeatures struct {
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Speechiness      float64 `json:"speechiness"`
}

// PlayedItem is one recently-played record. Typed even though the statistics
// do not use it yet; the analysis surface may grow.
type PlayedItem struct {
	Track    Track  `json:"track"`
	PlayedAt string `json:"played_at"`
}

type Playlist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TrackCount int    `json:"track_count"`
	Public     bool   `json:"public"`
}

// MusicAnalysis is the derived statistics bundle. All percentages are
// round(100 * matching/total) and defined as 0 for empty inputs.
type MusicAnalysis struct {
	SadSongsPercentage   int      `json:"sadSongsPercentage"`
	MainstreamPercentage int      `json:"mainStreamPercentage"`
	NostalgiaPercentage  int      `json:"nostalgiaPercentage"`
	TopArtistPlays       int      `json:"topArtistPlays"`
	OldestSong           int      `json:"oldestSong"`
	AvgTempo             int      `json:"avgTempo"`
	UniqueArtists        int      `json:"uniqueArtists"`
	DominantGenres       []string `json:"dominantGenres"`
	AveragePopularity    int      `json:"averagePopularity"`
	AverageValence       float64  `json:"averageValence"`
	RepeatArtist         string   `json:"repeatArtist"`
	RepeatArtistCount    int      `json:"repeatArtistCount"`
}
