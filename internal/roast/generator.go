// Package roast turns a music analysis into a short humorous verdict. The
// primary path asks a text-generation model for strict JSON; the fallback is a
// deterministic rule cascade that cannot fail, so roast generation as a whole
// cannot fail either.
package roast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/kavya5cloud/RoastMyPlaylist/internal/domain"
	"github.com/kavya5cloud/RoastMyPlaylist/internal/metrics"
)

// Inputs is everything the generator needs about a user's listening habits.
type Inputs struct {
	TopArtists           []string
	TopGenres            []string
	SadSongsPercentage   int
	MainstreamPercentage int
	NostalgiaPercentage  int
	RepeatArtist         string
	RepeatArtistCount    int
	AvgTempo             int
	AverageValence       float64
	OldestSong           int
	UniqueArtists        int
}

// Generated is a finished roast. Source records which path produced it.
type Generated struct {
	Headline    string
	Description string
	Category    domain.Category
	Source      string
}

const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

// Generator produces a roast from listening inputs. Implementations must
// always return a roast; degradation happens internally.
type Generator interface {
	Generate(ctx context.Context, in Inputs) *Generated
}

const systemPrompt = "You are a witty, sarcastic music critic who creates hilarious roasts of people's music taste. " +
	"Your roasts should be funny, meme-like, and shareable but not genuinely mean or offensive. " +
	"Use emojis sparingly and focus on clever observations about music patterns. " +
	"Respond with JSON holding exactly three fields: headline, description and category."

// roastPayload is the strict response schema requested from the model.
type roastPayload struct {
	Headline    string `json:"headline"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func generateSchema[T any]() any {
	// Structured Outputs uses a subset of JSON schema; these flags keep the
	// reflected schema inside that subset.
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var roastSchema = generateSchema[roastPayload]()

// chatCompleter is the seam between the generator and the OpenAI SDK.
type chatCompleter interface {
	complete(ctx context.Context, system, prompt string) (string, error)
}

type openAIChat struct {
	client openai.Client
	model  openai.ChatModel
}

func (c *openAIChat) complete(ctx context.Context, system, prompt string) (string, error) {
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "Roast",
		Description: openai.String("Schema for a music-taste roast"),
		Strict:      openai.Bool(true),
		Schema:      roastSchema,
	}

	chat, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schemaParam},
		},
		Model: c.model,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return chat.Choices[0].Message.Content, nil
}

// ModelGenerator asks OpenAI for a roast and falls back to the rule cascade on
// any failure: network error, malformed response, missing field. One attempt,
// no retries.
type ModelGenerator struct {
	chat chatCompleter
}

func NewModelGenerator(apiKey, model string) *ModelGenerator {
	return &ModelGenerator{
		chat: &openAIChat{
			client: openai.NewClient(option.WithAPIKey(apiKey)),
			model:  openai.ChatModel(model),
		},
	}
}

func (g *ModelGenerator) Generate(ctx context.Context, in Inputs) *Generated {
	content, err := g.chat.complete(ctx, systemPrompt, buildPrompt(in))
	if err != nil {
		slog.Warn("Roast generation failed, using fallback", "error", err)
		metrics.ModelFallbacksTotal.Inc()
		return Fallback(in)
	}

	var payload roastPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		slog.Warn("Roast response was not valid JSON, using fallback", "error", err)
		metrics.ModelFallbacksTotal.Inc()
		return Fallback(in)
	}

	if payload.Headline == "" || payload.Description == "" || payload.Category == "" {
		slog.Warn("Roast response missing fields, using fallback")
		metrics.ModelFallbacksTotal.Inc()
		return Fallback(in)
	}

	category := domain.Category(payload.Category)
	if !category.Valid() {
		category = domain.CategoryBasicTaste
	}

	return &Generated{
		Headline:    payload.Headline,
		Description: payload.Description,
		Category:    category,
		Source:      SourceModel,
	}
}

// FallbackGenerator serves deployments without an API key.
type FallbackGenerator struct{}

func (FallbackGenerator) Generate(ctx context.Context, in Inputs) *Generated {
	return Fallback(in)
}

func buildPrompt(in Inputs) string {
	topArtists := in.TopArtists
	if len(topArtists) > 5 {
		topArtists = topArtists[:5]
	}
	topGenres := in.TopGenres
	if len(topGenres) > 3 {
		topGenres = topGenres[:3]
	}

	var b strings.Builder
	b.WriteString("Roast this person's music taste based on their Spotify data:\n\n")
	fmt.Fprintf(&b, "Top Artists: %s\n", strings.Join(topArtists, ", "))
	fmt.Fprintf(&b, "Top Genres: %s\n", strings.Join(topGenres, ", "))
	fmt.Fprintf(&b, "%s appears %d times in their top tracks\n", in.RepeatArtist, in.RepeatArtistCount)
	fmt.Fprintf(&b, "%d%% of their music has low valence (sad vibes)\n", in.SadSongsPercentage)
	fmt.Fprintf(&b, "%d%% of their music is mainstream/popular\n", in.MainstreamPercentage)
	fmt.Fprintf(&b, "%d%% of their music is from 2010-2015 (nostalgia territory)\n", in.NostalgiaPercentage)
	fmt.Fprintf(&b, "Average tempo: %d BPM\n", in.AvgTempo)
	fmt.Fprintf(&b, "They listen to %d unique artists\n", in.UniqueArtists)
	fmt.Fprintf(&b, "Oldest song in their library: %d\n\n", in.OldestSong)
	b.WriteString("Create a witty, shareable roast that's sarcastic but not mean. ")
	b.WriteString("The headline should be a punchy quote, and the description should elaborate with specific observations. ")
	b.WriteString(`Categories can be: "sad_songs", "mainstream", "nostalgia", "obsessed_fan", "slow_vibes", "basic_taste", or "eclectic".`)
	return b.String()
}
