package analysis

import (
	"fmt"
	"testing"

	"github.com/kavya5cloud/RoastMyPlaylist/internal/domain"
	"github.com/stretchr/testify/assert"
)

func track(popularity int, releaseDate string, artists ...domain.TrackArtist) domain.Track {
	return domain.Track{
		Popularity: popularity,
		Album:      domain.Album{ReleaseDate: releaseDate},
		Artists:    artists,
	}
}

func artistRef(id, name string) domain.TrackArtist {
	return domain.TrackArtist{ID: id, Name: name}
}

func TestAnalyze_WorkedExample(t *testing.T) {
	tracks := []domain.Track{
		track(90, "2020-03-01", artistRef("a1", "Drake")),
		track(40, "2020-06-01", artistRef("a2", "Beach House")),
	}
	features := []domain.AudioFeatures{
		{Valence: 0.2, Tempo: 100},
		{Valence: 0.6, Tempo: 140},
	}

	got := Analyze(tracks, nil, features)

	assert.Equal(t, 50, got.SadSongsPercentage)
	assert.Equal(t, 50, got.MainstreamPercentage)
	assert.Equal(t, 120, got.AvgTempo)
	assert.Equal(t, 0.4, got.AverageValence)
	assert.Equal(t, 65, got.AveragePopularity)
}

func TestAnalyze_EmptyInputsAreZeroed(t *testing.T) {
	got := Analyze(nil, nil, nil)

	assert.Equal(t, 0, got.SadSongsPercentage)
	assert.Equal(t, 0, got.MainstreamPercentage)
	assert.Equal(t, 0, got.NostalgiaPercentage)
	assert.Equal(t, 0, got.AvgTempo)
	assert.Equal(t, 0, got.AveragePopularity)
	assert.Equal(t, 0.0, got.AverageValence)
	assert.Equal(t, 0, got.OldestSong)
	assert.Equal(t, 0, got.UniqueArtists)
	assert.Equal(t, "Unknown", got.RepeatArtist)
	assert.Equal(t, 0, got.RepeatArtistCount)
	assert.Empty(t, got.DominantGenres)
}

func TestAnalyze_SadSongsPercentageBounds(t *testing.T) {
	for _, n := range []int{1, 3, 7, 50} {
		features := make([]domain.AudioFeatures, n)
		for i := range features {
			features[i].Valence = float64(i%2) * 0.8 // alternate sad / happy
		}
		got := Analyze(nil, nil, features)
		assert.GreaterOrEqual(t, got.SadSongsPercentage, 0, "n=%d", n)
		assert.LessOrEqual(t, got.SadSongsPercentage, 100, "n=%d", n)
	}
}

func TestAnalyze_NostalgiaWindowInclusive(t *testing.T) {
	tracks := []domain.Track{
		track(0, "2009-12-31"),
		track(0, "2010-01-01"),
		track(0, "2015-12-31"),
		track(0, "2016-01-01"),
	}

	got := Analyze(tracks, nil, nil)
	assert.Equal(t, 50, got.NostalgiaPercentage)
	assert.Equal(t, 2009, got.OldestSong)
}

func TestAnalyze_YearOnlyReleaseDates(t *testing.T) {
	tracks := []domain.Track{
		track(0, "1973"),
		track(0, "2012-05"),
		track(0, ""),
	}

	got := Analyze(tracks, nil, nil)
	assert.Equal(t, 1973, got.OldestSong)
	// the unparseable date is skipped, not treated as year 0
	assert.Equal(t, 33, got.NostalgiaPercentage)
}

func TestAnalyze_RepeatArtistIsTrueMaximum(t *testing.T) {
	tracks := []domain.Track{
		track(0, "2020", artistRef("a1", "Phoebe Bridgers")),
		track(0, "2020", artistRef("a1", "Phoebe Bridgers"), artistRef("a2", "boygenius")),
		track(0, "2020", artistRef("a1", "Phoebe Bridgers")),
		track(0, "2020", artistRef("a2", "boygenius")),
	}

	got := Analyze(tracks, nil, nil)
	assert.Equal(t, "Phoebe Bridgers", got.RepeatArtist)
	assert.Equal(t, 3, got.RepeatArtistCount)
	assert.Equal(t, got.RepeatArtistCount, got.TopArtistPlays)
	assert.Equal(t, 2, got.UniqueArtists)
}

func TestAnalyze_RepeatArtistTieBreaksToFirstSeen(t *testing.T) {
	tracks := []domain.Track{
		track(0, "2020", artistRef("a1", "First")),
		track(0, "2020", artistRef("a2", "Second")),
		track(0, "2020", artistRef("a2", "Second")),
		track(0, "2020", artistRef("a1", "First")),
	}

	got := Analyze(tracks, nil, nil)
	assert.Equal(t, "First", got.RepeatArtist)
	assert.Equal(t, 2, got.RepeatArtistCount)
}

func TestAnalyze_DominantGenresRankedAndCapped(t *testing.T) {
	mkArtist := func(genres ...string) domain.Artist {
		return domain.Artist{Genres: genres}
	}
	artists := []domain.Artist{
		mkArtist("indie rock", "dream pop"),
		mkArtist("indie rock", "shoegaze"),
		mkArtist("indie rock", "dream pop", "slowcore"),
		mkArtist("emo", "midwest emo"),
	}

	got := Analyze(nil, artists, nil)
	assert.Len(t, got.DominantGenres, 5)
	assert.Equal(t, "indie rock", got.DominantGenres[0])
	assert.Equal(t, "dream pop", got.DominantGenres[1])
	// shoegaze/slowcore/emo/midwest emo all have count 1: first-seen order wins
	assert.Equal(t, []string{"shoegaze", "slowcore", "emo"}, got.DominantGenres[2:])
}

func TestAnalyze_DominantGenresShorterThanCap(t *testing.T) {
	artists := []domain.Artist{{Genres: []string{"hyperpop", "glitch"}}}

	got := Analyze(nil, artists, nil)
	assert.Equal(t, []string{"hyperpop", "glitch"}, got.DominantGenres)
}

func TestAnalyze_MainstreamBoundaryIsExclusive(t *testing.T) {
	tracks := []domain.Track{
		track(70, "2020"),
		track(71, "2020"),
	}

	got := Analyze(tracks, nil, nil)
	assert.Equal(t, 50, got.MainstreamPercentage)
}

func TestAnalyze_PercentageRounding(t *testing.T) {
	// 1 of 3 sad songs -> 33.33 -> 33
	features := []domain.AudioFeatures{
		{Valence: 0.1}, {Valence: 0.9}, {Valence: 0.9},
	}
	got := Analyze(nil, nil, features)
	assert.Equal(t, 33, got.SadSongsPercentage)

	// 2 of 3 -> 66.67 -> 67
	features[1].Valence = 0.1
	got = Analyze(nil, nil, features)
	assert.Equal(t, 67, got.SadSongsPercentage)
}

func TestAnalyze_AverageValenceTwoDecimals(t *testing.T) {
	features := []domain.AudioFeatures{
		{Valence: 0.111}, {Valence: 0.222}, {Valence: 0.333},
	}
	got := Analyze(nil, nil, features)
	assert.Equal(t, 0.22, got.AverageValence)
}

func TestAnalyze_FeatureListShorterThanTracks(t *testing.T) {
	// audio features can be missing for some tracks; valence stats run over
	// the feature list, popularity stats over the track list
	tracks := make([]domain.Track, 10)
	for i := range tracks {
		tracks[i] = track(80, "2020", artistRef(fmt.Sprintf("a%d", i), "X"))
	}
	features := []domain.AudioFeatures{{Valence: 0.1}, {Valence: 0.2}}

	got := Analyze(tracks, nil, features)
	assert.Equal(t, 100, got.SadSongsPercentage)
	assert.Equal(t, 100, got.MainstreamPercentage)
}
