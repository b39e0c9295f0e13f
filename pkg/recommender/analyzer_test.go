package recommender

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myspotipal/spotipal/pkg/providers"
)

type fakeProvider struct {
	content string
	err     error
}

func (f *fakeProvider) Chat(context.Context, []providers.Message, []providers.ToolDefinition, string, map[string]any) (*providers.LLMResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &providers.LLMResponse{Content: f.content, FinishReason: "stop"}, nil
}

func (f *fakeProvider) ChatStream(ctx context.Context, messages []providers.Message, tools []providers.ToolDefinition, model string, options map[string]any, onDelta func(string)) (*providers.LLMResponse, error) {
	return f.Chat(ctx, messages, tools, model, options)
}

func (f *fakeProvider) GetDefaultModel() string { return "test-model" }

func newTestAnalyzer(extraction string, client *fakeSearchClient) *Analyzer {
	return NewAnalyzer(&fakeProvider{content: extraction}, NewSeedResolver(client), "test-model")
}

func TestAnalyzeDurationDerivesLimit(t *testing.T) {
	// 10 minutes at 200000ms per song -> ceil(600000/200000) = 3.
	a := newTestAnalyzer(`{"duration_minutes": 10, "seed_genres": ["rock"]}`,
		&fakeSearchClient{genres: []string{"rock"}})

	params, err := a.Analyze(t.Context(), "30 minutes of rock")
	require.NoError(t, err)
	assert.Equal(t, 3, params.Limit)
	assert.Equal(t, []string{"rock"}, params.SeedGenres)
}

func TestAnalyzeDefaultsLimit(t *testing.T) {
	a := newTestAnalyzer(`{"seed_genres": ["rock"]}`,
		&fakeSearchClient{genres: []string{"rock"}})

	params, err := a.Analyze(t.Context(), "some rock")
	require.NoError(t, err)
	assert.Equal(t, 20, params.Limit)
}

func TestAnalyzeClampsExplicitLimit(t *testing.T) {
	a := newTestAnalyzer(`{"limit": 500}`, &fakeSearchClient{})
	params, err := a.Analyze(t.Context(), "everything")
	require.NoError(t, err)
	assert.Equal(t, 100, params.Limit)

	a = newTestAnalyzer(`{"limit": 0}`, &fakeSearchClient{})
	params, err = a.Analyze(t.Context(), "nothing")
	require.NoError(t, err)
	assert.Equal(t, 1, params.Limit)
}

func TestAnalyzeLongDurationCapsAtHundred(t *testing.T) {
	a := newTestAnalyzer(`{"duration_minutes": 600}`, &fakeSearchClient{})
	params, err := a.Analyze(t.Context(), "ten hours of music")
	require.NoError(t, err)
	assert.Equal(t, 100, params.Limit)
}

func TestAnalyzeTruncatesSeedsByPriority(t *testing.T) {
	client := &fakeSearchClient{
		tracks:  map[string]string{"t1": "T1", "t2": "T2", "t3": "T3"},
		artists: map[string]string{"a1": "A1", "a2": "A2", "a3": "A3"},
		genres:  []string{"rock", "jazz"},
	}
	a := newTestAnalyzer(`{
		"seed_tracks": ["t1", "t2", "t3"],
		"seed_artists": ["a1", "a2", "a3"],
		"seed_genres": ["rock", "jazz"]
	}`, client)

	params, err := a.Analyze(t.Context(), "a bit of everything")
	require.NoError(t, err)

	// Tracks keep all 3, artists get the remaining 2, genres get none.
	assert.Equal(t, []string{"T1", "T2", "T3"}, params.SeedTracks)
	assert.Equal(t, []string{"A1", "A2"}, params.SeedArtists)
	assert.Empty(t, params.SeedGenres)
}

func TestAnalyzeValidatesAttributes(t *testing.T) {
	a := newTestAnalyzer(`{
		"attributes": {
			"mood": "upbeat",
			"min_energy": 1.5,
			"target_tempo": 120,
			"min_sparkle": 0.9
		}
	}`, &fakeSearchClient{})

	params, err := a.Analyze(t.Context(), "upbeat songs")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"min_energy":   1.0,
		"target_tempo": 120.0,
	}, params.Attributes)
}

func TestAnalyzeObjectTrackSeeds(t *testing.T) {
	client := &fakeSearchClient{tracks: map[string]string{
		"track:Anti-Hero artist:Taylor Swift": "T1",
	}}
	a := newTestAnalyzer(`{"seed_tracks": [{"name": "Anti-Hero", "artist": "Taylor Swift"}]}`, client)

	params, err := a.Analyze(t.Context(), "songs like Anti-Hero")
	require.NoError(t, err)
	assert.Equal(t, []string{"T1"}, params.SeedTracks)
}

func TestAnalyzeStripsCodeFences(t *testing.T) {
	a := newTestAnalyzer("```json\n{\"limit\": 5}\n```", &fakeSearchClient{})
	params, err := a.Analyze(t.Context(), "five songs")
	require.NoError(t, err)
	assert.Equal(t, 5, params.Limit)
}

func TestAnalyzeUnparseableExtractionFails(t *testing.T) {
	a := newTestAnalyzer("I think you want some jazz!", &fakeSearchClient{})
	_, err := a.Analyze(t.Context(), "jazz please")
	require.ErrorIs(t, err, ErrAnalysisFailed)
}

func TestAnalyzeProviderErrorFails(t *testing.T) {
	a := NewAnalyzer(&fakeProvider{err: errors.New("upstream down")},
		NewSeedResolver(&fakeSearchClient{}), "test-model")
	_, err := a.Analyze(t.Context(), "anything")
	require.ErrorIs(t, err, ErrAnalysisFailed)
}
