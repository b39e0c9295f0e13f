package recommender

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/myspotipal/spotipal/pkg/logger"
	"github.com/myspotipal/spotipal/pkg/providers"
	"github.com/myspotipal/spotipal/pkg/spotify"
)

// ErrAnalysisFailed means the extraction step produced no usable
// structure. Callers must not contact the recommendation endpoint when
// they see it.
var ErrAnalysisFailed = errors.New("recommendation request analysis failed")

const (
	defaultAverageSongDurationMS = 200000
	defaultLimit                 = 20
	maxLimit                     = 100
	seedBudget                   = 5
)

const extractionPrompt = `You are a music recommendation system that analyzes user requests and extracts key information.
Return a JSON object with these fields (omit a field entirely if the request does not mention it):

{
    "limit": integer (1-100, default 20),
    "seed_artists": list of artist names (max 5 total seeds),
    "seed_tracks": list of track names (max 5 total seeds),
    "seed_genres": list of genres (max 5 total seeds),
    "duration_minutes": integer (if a length of time is specified),
    "attributes": {
        // Audio features matching the request's mood or constraints.
        // Use a min_, max_, or target_ prefix, e.g. for "upbeat":
        // "min_energy": 0.7, "min_valence": 0.6, "target_tempo": 120
    }
}

A track seed may carry an artist for better matching:
"seed_tracks": [{"name": "Anti-Hero", "artist": "Taylor Swift"}, "Shake It Off"]

Return only the JSON object, no other text.`

// Analyzer implements the extraction → validation → resolution →
// truncation pipeline over a free-text request.
type Analyzer struct {
	provider providers.LLMProvider
	resolver *SeedResolver
	model    string

	averageSongDurationMS int
	defaultLimit          int
}

type AnalyzerOption func(*Analyzer)

func WithAverageSongDuration(ms int) AnalyzerOption {
	return func(a *Analyzer) {
		if ms > 0 {
			a.averageSongDurationMS = ms
		}
	}
}

func WithDefaultLimit(limit int) AnalyzerOption {
	return func(a *Analyzer) {
		if limit > 0 {
			a.defaultLimit = limit
		}
	}
}

func NewAnalyzer(provider providers.LLMProvider, resolver *SeedResolver, model string, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		provider:              provider,
		resolver:              resolver,
		model:                 model,
		averageSongDurationMS: defaultAverageSongDurationMS,
		defaultLimit:          defaultLimit,
	}
	if a.model == "" {
		a.model = provider.GetDefaultModel()
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// intent is the extraction step's output shape. Absent fields stay nil so
// "not mentioned" is distinguishable from zero.
type intent struct {
	Limit           *int           `json:"limit"`
	DurationMinutes *float64       `json:"duration_minutes"`
	SeedArtists     []string       `json:"seed_artists"`
	SeedTracks      []trackSeedRef `json:"seed_tracks"`
	SeedGenres      []string       `json:"seed_genres"`
	Attributes      map[string]any `json:"attributes"`
}

// trackSeedRef accepts either a bare track name or a {name, artist}
// object, as the extraction prompt allows both.
type trackSeedRef struct {
	TrackSeed
}

func (t *trackSeedRef) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		t.Name = name
		return nil
	}
	var obj struct {
		Name   string `json:"name"`
		Artist string `json:"artist"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	t.Name = obj.Name
	t.Artist = obj.Artist
	return nil
}

// Analyze converts a free-text request into resolved recommendation
// parameters. The returned params always satisfy limit in [1,100] and a
// total seed count of at most five.
func (a *Analyzer) Analyze(ctx context.Context, query string) (*spotify.RecommendationParams, error) {
	extracted, err := a.extract(ctx, query)
	if err != nil {
		return nil, err
	}

	params := &spotify.RecommendationParams{
		Limit: a.deriveLimit(extracted),
	}

	if len(extracted.Attributes) > 0 {
		params.Attributes = a.validateAttributes(extracted.Attributes)
	}

	seeds := make([]TrackSeed, 0, len(extracted.SeedTracks))
	for _, s := range extracted.SeedTracks {
		if s.Name != "" {
			seeds = append(seeds, s.TrackSeed)
		}
	}
	params.SeedTracks = a.resolver.ResolveTracks(ctx, seeds)
	params.SeedArtists = a.resolver.ResolveArtists(ctx, extracted.SeedArtists)
	params.SeedGenres = a.resolver.ResolveGenres(ctx, extracted.SeedGenres)

	truncateSeeds(params)

	logger.InfoCF("recommender", "request analyzed", map[string]any{
		"limit":        params.Limit,
		"seed_tracks":  len(params.SeedTracks),
		"seed_artists": len(params.SeedArtists),
		"seed_genres":  len(params.SeedGenres),
		"attributes":   len(params.Attributes),
	})
	return params, nil
}

func (a *Analyzer) extract(ctx context.Context, query string) (*intent, error) {
	messages := []providers.Message{
		{Role: "system", Content: extractionPrompt},
		{Role: "user", Content: "Analyze this request: " + query},
	}

	resp, err := a.provider.Chat(ctx, messages, nil, a.model, map[string]any{
		"temperature": 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	var extracted intent
	if err := json.Unmarshal([]byte(stripCodeFences(resp.Content)), &extracted); err != nil {
		logger.WarnCF("recommender", "extraction returned unparseable JSON", map[string]any{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}
	return &extracted, nil
}

// deriveLimit converts a duration into a track count using the average
// song length, otherwise uses the explicit or default limit. The result
// is always clamped to [1, maxLimit].
func (a *Analyzer) deriveLimit(extracted *intent) int {
	limit := a.defaultLimit
	switch {
	case extracted.DurationMinutes != nil:
		songCount := int(math.Ceil(*extracted.DurationMinutes * 60 * 1000 / float64(a.averageSongDurationMS)))
		limit = songCount
	case extracted.Limit != nil:
		limit = *extracted.Limit
	}

	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit
}

func (a *Analyzer) validateAttributes(attrs map[string]any) map[string]any {
	validated := make(map[string]any, len(attrs))
	for name, value := range attrs {
		coerced, warning, ok := validateAttribute(name, value)
		if !ok {
			logger.WarnCF("recommender", "dropping invalid attribute", map[string]any{
				"attribute": name,
			})
			continue
		}
		if warning != "" {
			logger.WarnCF("recommender", warning, nil)
		}
		validated[name] = coerced
	}
	if len(validated) == 0 {
		return nil
	}
	return validated
}

// truncateSeeds enforces the five-seed budget in priority order: tracks
// first, then artists, then genres.
func truncateSeeds(params *spotify.RecommendationParams) {
	remaining := seedBudget

	take := func(seeds []string) []string {
		n := min(remaining, len(seeds))
		remaining -= n
		return seeds[:n]
	}
	params.SeedTracks = take(params.SeedTracks)
	params.SeedArtists = take(params.SeedArtists)
	params.SeedGenres = take(params.SeedGenres)
}

func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
