package spotify

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(t.Context(),
		Credentials{AccessToken: "test-token"},
		WithBaseURL(server.URL),
		WithRequestsPerSecond(1000),
	)
}

func TestUserPlaylistsFollowsNextLinks(t *testing.T) {
	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/me/playlists", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			w.Write([]byte(`{"items":[{"id":"p2","name":"Focus","uri":"spotify:playlist:p2"}],"next":null}`))
			return
		}
		w.Write([]byte(`{
			"items":[{"id":"p1","name":"Running","uri":"spotify:playlist:p1"}],
			"next":"` + server.URL + `/me/playlists?page=2"
		}`))
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)

	c := NewClient(t.Context(),
		Credentials{AccessToken: "test-token"},
		WithBaseURL(server.URL),
		WithRequestsPerSecond(1000),
	)

	playlists, err := c.UserPlaylists(t.Context())
	require.NoError(t, err)
	require.Len(t, playlists, 2)
	assert.Equal(t, "p1", playlists[0].ID)
	assert.Equal(t, "Focus", playlists[1].Name)
}

func TestFollowedArtistsCursorPaging(t *testing.T) {
	calls := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/me/following", r.URL.Path)
		assert.Equal(t, "artist", r.URL.Query().Get("type"))
		calls++
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("after") == "" {
			w.Write([]byte(`{"artists":{
				"items":[{"id":"a1","name":"Four Tet","genres":["electronica"],"uri":"spotify:artist:a1"}],
				"cursors":{"after":"a1"}
			}}`))
			return
		}
		assert.Equal(t, "a1", r.URL.Query().Get("after"))
		w.Write([]byte(`{"artists":{
			"items":[{"id":"a2","name":"Caribou","genres":[],"uri":"spotify:artist:a2"}],
			"cursors":{"after":""}
		}}`))
	}))

	artists, err := c.FollowedArtists(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, artists, 2)
	assert.Equal(t, "Four Tet", artists[0].Name)
	assert.Equal(t, []string{"electronica"}, artists[0].Genres)
}

func TestAPIErrorCarriesStatusAndMessage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"status":403,"message":"Insufficient client scope"}}`))
	}))

	_, err := c.Profile(t.Context())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "Insufficient client scope", apiErr.Message)
}

func TestTopItemsRejectsUnknownType(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := c.TopItems(t.Context(), "short_term", "albums")
	require.Error(t, err)
}
