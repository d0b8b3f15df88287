// Package analysis derives listening statistics from raw Spotify data.
// Everything here is pure: no I/O, no clocks, no stored state.
package analysis

import (
	"math"
	"strconv"

	"github.com/kavya5cloud/RoastMyPlaylist/internal/domain"
)

const (
	sadValenceCeiling    = 0.4
	mainstreamPopularity = 70
	nostalgiaYearFrom    = 2010
	nostalgiaYearTo      = 2015
	dominantGenreCount   = 5
)

// Analyze computes the full statistics bundle. Empty input lists yield zeroed
// results rather than NaN: every percentage and mean is defined as 0 over an
// empty list, the repeat artist is "Unknown" with count 0 and the oldest year
// is 0.
func Analyze(tracks []domain.Track, artists []domain.Artist, features []domain.AudioFeatures) domain.MusicAnalysis {
	repeatArtist, repeatCount := mostRepeatedArtist(tracks)

	return domain.MusicAnalysis{
		SadSongsPercentage:   percentage(countFeatures(features, func(f domain.AudioFeatures) bool { return f.Valence < sadValenceCeiling }), len(features)),
		MainstreamPercentage: percentage(countTracks(tracks, func(t domain.Track) bool { return t.Popularity > mainstreamPopularity }), len(tracks)),
		NostalgiaPercentage:  percentage(countTracks(tracks, isNostalgiaTrack), len(tracks)),
		TopArtistPlays:       repeatCount,
		OldestSong:           oldestReleaseYear(tracks),
		AvgTempo:             roundMean(sumFeatures(features, func(f domain.AudioFeatures) float64 { return f.Tempo }), len(features)),
		UniqueArtists:        uniqueArtistCount(tracks),
		DominantGenres:       dominantGenres(artists),
		AveragePopularity:    roundMean(sumTracks(tracks, func(t domain.Track) float64 { return float64(t.Popularity) }), len(tracks)),
		AverageValence:       round2(mean(sumFeatures(features, func(f domain.AudioFeatures) float64 { return f.Valence }), len(features))),
		RepeatArtist:         repeatArtist,
		RepeatArtistCount:    repeatCount,
	}
}

// releaseYear extracts the year from a Spotify release date, which arrives as
// "2006", "2006-01" or "2006-01-02" depending on release-date precision.
// Returns 0 if no year can be parsed.
func releaseYear(releaseDate string) int {
	if len(releaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

func isNostalgiaTrack(t domain.Track) bool {
	year := releaseYear(t.Album.ReleaseDate)
	return year >= nostalgiaYearFrom && year <= nostalgiaYearTo
}

// mostRepeatedArtist counts occurrences across every track's artist list.
// Ties break toward the artist encountered first; the insertion-order slice
// makes that deterministic since map iteration is not.
func mostRepeatedArtist(tracks []domain.Track) (string, int) {
	counts := make(map[string]int)
	var order []string

	for _, track := range tracks {
		for _, artist := range track.Artists {
			if _, seen := counts[artist.Name]; !seen {
				order = append(order, artist.Name)
			}
			counts[artist.Name]++
		}
	}

	best, bestCount := "Unknown", 0
	for _, name := range order {
		if counts[name] > bestCount {
			best, bestCount = name, counts[name]
		}
	}
	return best, bestCount
}

// dominantGenres ranks genre tags by frequency across all artists, descending,
// stable on ties by first-encountered order, capped at five.
func dominantGenres(artists []domain.Artist) []string {
	counts := make(map[string]int)
	var order []string

	for _, artist := range artists {
		for _, genre := range artist.Genres {
			if _, seen := counts[genre]; !seen {
				order = append(order, genre)
			}
			counts[genre]++
		}
	}

	// Insertion sort keeps equal-count genres in first-seen order.
	ranked := make([]string, 0, len(order))
	for _, genre := range order {
		pos := len(ranked)
		for pos > 0 && counts[ranked[pos-1]] < counts[genre] {
			pos--
		}
		ranked = append(ranked, "")
		copy(ranked[pos+1:], ranked[pos:])
		ranked[pos] = genre
	}

	if len(ranked) > dominantGenreCount {
		ranked = ranked[:dominantGenreCount]
	}
	return ranked
}

func oldestReleaseYear(tracks []domain.Track) int {
	oldest := 0
	for _, track := range tracks {
		year := releaseYear(track.Album.ReleaseDate)
		if year == 0 {
			continue
		}
		if oldest == 0 || year < oldest {
			oldest = year
		}
	}
	return oldest
}

// uniqueArtistCount counts distinct artist ids referenced by tracks, not the
// separately fetched artist list.
func uniqueArtistCount(tracks []domain.Track) int {
	seen := make(map[string]struct{})
	for _, track := range tracks {
		for _, artist := range track.Artists {
			seen[artist.ID] = struct{}{}
		}
	}
	return len(seen)
}

func countTracks(tracks []domain.Track, match func(domain.Track) bool) int {
	n := 0
	for _, t := range tracks {
		if match(t) {
			n++
		}
	}
	return n
}

func countFeatures(features []domain.AudioFeatures, match func(domain.AudioFeatures) bool) int {
	n := 0
	for _, f := range features {
		if match(f) {
			n++
		}
	}
	return n
}

func sumTracks(tracks []domain.Track, value func(domain.Track) float64) float64 {
	total := 0.0
	for _, t := range tracks {
		total += value(t)
	}
	return total
}

func sumFeatures(features []domain.AudioFeatures, value func(domain.AudioFeatures) float64) float64 {
	total := 0.0
	for _, f := range features {
		total += value(f)
	}
	return total
}

func percentage(matching, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(matching) / float64(total)))
}

func mean(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func roundMean(sum float64, count int) int {
	return int(math.Round(mean(sum, count)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
