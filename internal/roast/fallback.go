package roast

import (
	"fmt"

	"github.com/kavya5cloud/RoastMyPlaylist/internal/domain"
)

// Fallback builds a roast from a fixed rule cascade. It is total: any input
// yields a non-empty headline and description with a category from the closed
// set, which makes it the guaranteed terminal behavior of roast generation.
//
// The cascade is evaluated in order; the first matching rule wins.
func Fallback(in Inputs) *Generated {
	category := domain.CategoryBasicTaste
	switch {
	case in.SadSongsPercentage > 60:
		category = domain.CategorySadSongs
	case in.RepeatArtistCount > 8:
		category = domain.CategoryObsessedFan
	case in.MainstreamPercentage > 80:
		category = domain.CategoryMainstream
	case in.NostalgiaPercentage > 50:
		category = domain.CategoryNostalgia
	}

	headline, description := fallbackTemplate(category, in)
	return &Generated{
		Headline:    headline,
		Description: description,
		Category:    category,
		Source:      SourceFallback,
	}
}

func fallbackTemplate(category domain.Category, in Inputs) (string, string) {
	switch category {
	case domain.CategorySadSongs:
		return "This playlist screams crying in the shower at 3 AM",
			fmt.Sprintf("With %d%% sad songs and an average tempo of %d BPM, your playlist is basically a therapy session set to music. Maybe try some upbeat songs between the emotional breakdowns?",
				in.SadSongsPercentage, in.AvgTempo)
	case domain.CategoryObsessedFan:
		return fmt.Sprintf("Are you in a relationship with %s or what?", in.RepeatArtist),
			fmt.Sprintf("Playing %s %d times in your top tracks isn't dedication, it's a cry for help. Even Spotify is concerned about your commitment issues.",
				in.RepeatArtist, in.RepeatArtistCount)
	case domain.CategoryMainstream:
		return "Your taste is so basic, even vanilla is jealous",
			fmt.Sprintf("%d%% mainstream music means you basically let radio DJs curate your personality. At least you're consistent in your lack of originality.",
				in.MainstreamPercentage)
	case domain.CategoryNostalgia:
		return "Still living in the 2010s, I see",
			fmt.Sprintf("%d%% of your music is from the early 2010s. We get it, high school was the peak of your existence, but maybe it's time to discover what happened after 2015?",
				in.NostalgiaPercentage)
	default:
		return "Your taste is questionably unique",
			fmt.Sprintf("With %d artists in your rotation, you're either really eclectic or just can't make up your mind. Either way, it's... interesting.",
				in.UniqueArtists)
	}
}
