package spotify

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendationsEncodesSeedsAndAttributes(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/recommendations", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "3", q.Get("limit"))
		assert.Equal(t, "a1,a2", q.Get("seed_artists"))
		assert.Equal(t, "electro", q.Get("seed_genres"))
		assert.Equal(t, "0.7", q.Get("min_energy"))
		assert.Equal(t, "120", q.Get("target_tempo"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tracks":[{
			"id":"t1","name":"Gosh","uri":"spotify:track:t1",
			"artists":[{"name":"Jamie xx"}],"album":{"name":"In Colour"}
		}]}`))
	}))

	tracks, err := c.Recommendations(t.Context(), RecommendationParams{
		Limit:       3,
		SeedArtists: []string{"a1", "a2"},
		SeedGenres:  []string{"electro"},
		Attributes: map[string]any{
			"min_energy":   0.7,
			"target_tempo": 120,
		},
	})
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "Gosh", tracks[0].Name)
	assert.Equal(t, []string{"Jamie xx"}, tracks[0].Artists)
}

func TestRecommendationsRequireSeeds(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := c.Recommendations(t.Context(), RecommendationParams{Limit: 10})
	require.Error(t, err)

	_, err = c.Recommendations(t.Context(), RecommendationParams{
		SeedTracks: []string{"1", "2", "3", "4", "5", "6"},
	})
	require.Error(t, err)
}

func TestAvailableGenreSeeds(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/recommendations/available-genre-seeds", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"genres":["acoustic","electro","hip-hop"]}`))
	}))

	genres, err := c.AvailableGenreSeeds(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"acoustic", "electro", "hip-hop"}, genres)
}
