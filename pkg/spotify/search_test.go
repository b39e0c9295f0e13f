package spotify

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchQueryQuotesStringFilters(t *testing.T) {
	q := buildSearchQuery("anti-hero", map[string]any{
		"artist": "Taylor Swift",
		"year":   2022,
		"tag":    "",
	})
	assert.Equal(t, `anti-hero artist:"Taylor Swift" year:2022`, q)
}

func TestBuildSearchQueryNoFilters(t *testing.T) {
	assert.Equal(t, "anti-hero", buildSearchQuery("anti-hero", nil))
}

func TestSearchTrackProjection(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "track", r.URL.Query().Get("type"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tracks":{"items":[{
			"id":"t1","name":"Anti-Hero","uri":"spotify:track:t1",
			"artists":[{"id":"a1","name":"Taylor Swift"}],
			"album":{"id":"al1","name":"Midnights"},
			"duration_ms":200690,"popularity":95,"explicit":false
		}]}}`))
	}))

	items, err := c.Search(t.Context(), "Anti-Hero", "track", nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "t1", items[0].ID)
	assert.Equal(t, "Midnights", items[0].Album)
	require.Len(t, items[0].Artists, 1)
	assert.Equal(t, "Taylor Swift", items[0].Artists[0].Name)
	require.NotNil(t, items[0].Popularity)
	assert.Equal(t, 95, *items[0].Popularity)
}

func TestSearchArtistProjection(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"artists":{"items":[{
			"id":"a1","name":"Bonobo","uri":"spotify:artist:a1",
			"genres":["downtempo","electronica"],
			"followers":{"total":1500000},"popularity":72
		}]}}`))
	}))

	items, err := c.Search(t.Context(), "Bonobo", "artist", nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"downtempo", "electronica"}, items[0].Genres)
	require.NotNil(t, items[0].Followers)
	assert.Equal(t, 1500000, *items[0].Followers)
}

func TestSearchRejectsUnknownType(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := c.Search(t.Context(), "anything", "vinyl", nil)
	require.Error(t, err)
}

func TestSavedPodcastsFiltersAudiobooks(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/me/shows", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[
			{"show":{"id":"s1","name":"Radiolab","description":"Investigative science stories","publisher":"WNYC"}},
			{"show":{"id":"s2","name":"Dune","description":"The classic novel narrated by a full cast","publisher":"Macmillan"}}
		],"next":null}`))
	}))

	podcasts, err := c.SavedPodcasts(t.Context())
	require.NoError(t, err)
	require.Len(t, podcasts, 1)
	assert.Equal(t, "Radiolab", podcasts[0].Name)
}
