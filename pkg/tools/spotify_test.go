package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myspotipal/spotipal/pkg/spotify"
)

type fakeLibrary struct {
	topItems  []spotify.TopItem
	playlists []spotify.PlaylistSummary

	gotTimeRange string
	gotItemType  string
}

func (f *fakeLibrary) TopItems(_ context.Context, timeRange, itemType string) ([]spotify.TopItem, error) {
	f.gotTimeRange, f.gotItemType = timeRange, itemType
	return f.topItems, nil
}
func (f *fakeLibrary) FollowedArtists(context.Context) ([]spotify.FollowedArtist, error) {
	return nil, nil
}
func (f *fakeLibrary) UserPlaylists(context.Context) ([]spotify.PlaylistSummary, error) {
	return f.playlists, nil
}
func (f *fakeLibrary) SavedPodcasts(context.Context) ([]spotify.SavedShow, error)      { return nil, nil }
func (f *fakeLibrary) SavedAudiobooks(context.Context) ([]spotify.SavedAudiobook, error) {
	return nil, nil
}
func (f *fakeLibrary) SavedTracks(context.Context) ([]spotify.SavedTrack, error)   { return nil, nil }
func (f *fakeLibrary) RecentlyPlayed(context.Context) ([]spotify.PlayedTrack, error) { return nil, nil }
func (f *fakeLibrary) Profile(context.Context) (*spotify.UserProfile, error)       { return nil, nil }

type fakeCatalog struct {
	searchItems []spotify.SearchItem
	tracks      []spotify.RecommendedTrack

	gotQuery   string
	gotType    string
	gotFilters map[string]any
	gotParams  spotify.RecommendationParams
}

func (f *fakeCatalog) Search(_ context.Context, query, searchType string, filters map[string]any) ([]spotify.SearchItem, error) {
	f.gotQuery, f.gotType, f.gotFilters = query, searchType, filters
	return f.searchItems, nil
}

func (f *fakeCatalog) Recommendations(_ context.Context, params spotify.RecommendationParams) ([]spotify.RecommendedTrack, error) {
	f.gotParams = params
	return f.tracks, nil
}

type fakePlaylists struct {
	created *spotify.Playlist
	gotName string
	gotOpts spotify.CreatePlaylistOptions
}

func (f *fakePlaylists) CreatePlaylist(_ context.Context, name string, opts spotify.CreatePlaylistOptions) (*spotify.Playlist, error) {
	f.gotName, f.gotOpts = name, opts
	return f.created, nil
}
func (f *fakePlaylists) AddTracks(context.Context, string, []string, *int) (string, error) {
	return "snap1", nil
}
func (f *fakePlaylists) RemoveTracks(context.Context, string, []string, string) (string, error) {
	return "snap2", nil
}
func (f *fakePlaylists) UpdateDetails(context.Context, string, spotify.PlaylistDetails) error {
	return nil
}

type fakeAnalyzer struct {
	params *spotify.RecommendationParams
	err    error
}

func (f *fakeAnalyzer) Analyze(context.Context, string) (*spotify.RecommendationParams, error) {
	return f.params, f.err
}

func newTestRegistry(lib *fakeLibrary, cat *fakeCatalog, pl *fakePlaylists, an *fakeAnalyzer) *Registry {
	r := NewRegistry()
	RegisterAll(r, Services{Library: lib, Catalog: cat, Playlists: pl, Analyzer: an})
	return r
}

func TestFullToolSurfaceRegistered(t *testing.T) {
	r := newTestRegistry(&fakeLibrary{}, &fakeCatalog{}, &fakePlaylists{}, &fakeAnalyzer{})

	expected := []string{
		"add_songs_to_playlist",
		"create_playlist",
		"get_followed_artists",
		"get_recently_played_tracks",
		"get_recommendations",
		"get_saved_audiobooks",
		"get_saved_podcasts",
		"get_saved_tracks",
		"get_top_items",
		"get_user_playlists",
		"get_user_profile",
		"search_item",
	}
	names := r.Names()
	for _, want := range expected {
		assert.Contains(t, names, want)
	}
	assert.Contains(t, names, "remove_playlist_items")
	assert.Contains(t, names, "update_playlist_details")
	assert.Len(t, names, 14)
}

func TestGetTopItemsPassesArguments(t *testing.T) {
	lib := &fakeLibrary{topItems: []spotify.TopItem{{Name: "Bonobo"}}}
	r := newTestRegistry(lib, &fakeCatalog{}, &fakePlaylists{}, &fakeAnalyzer{})

	result, err := r.Execute(t.Context(),
		call("get_top_items", `{"time_range":"short_term","item_type":"artists"}`))
	require.NoError(t, err)
	assert.Equal(t, "short_term", lib.gotTimeRange)
	assert.Equal(t, "artists", lib.gotItemType)
	assert.Contains(t, result, "Bonobo")
}

func TestGetTopItemsMissingArgumentErrors(t *testing.T) {
	r := newTestRegistry(&fakeLibrary{}, &fakeCatalog{}, &fakePlaylists{}, &fakeAnalyzer{})

	_, err := r.Execute(t.Context(), call("get_top_items", `{"time_range":"short_term"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item_type")
}

func TestSearchItemForwardsFilters(t *testing.T) {
	cat := &fakeCatalog{searchItems: []spotify.SearchItem{{ID: "t1", Name: "Gosh"}}}
	r := newTestRegistry(&fakeLibrary{}, cat, &fakePlaylists{}, &fakeAnalyzer{})

	_, err := r.Execute(t.Context(),
		call("search_item", `{"query":"Gosh","search_type":"track","filters":{"artist":"Jamie xx"}}`))
	require.NoError(t, err)
	assert.Equal(t, "Gosh", cat.gotQuery)
	assert.Equal(t, "track", cat.gotType)
	assert.Equal(t, map[string]any{"artist": "Jamie xx"}, cat.gotFilters)
}

func TestGetRecommendationsRoutesThroughAnalyzer(t *testing.T) {
	cat := &fakeCatalog{tracks: []spotify.RecommendedTrack{{Name: "Gosh"}}}
	an := &fakeAnalyzer{params: &spotify.RecommendationParams{
		Limit:      3,
		SeedGenres: []string{"electro"},
	}}
	r := newTestRegistry(&fakeLibrary{}, cat, &fakePlaylists{}, an)

	result, err := r.Execute(t.Context(),
		call("get_recommendations", `{"query":"upbeat songs for a run"}`))
	require.NoError(t, err)
	assert.Equal(t, 3, cat.gotParams.Limit)
	assert.Contains(t, result, "Gosh")
}

func TestGetRecommendationsNoSeedsYieldsSentinel(t *testing.T) {
	an := &fakeAnalyzer{params: &spotify.RecommendationParams{Limit: 20}}
	r := newTestRegistry(&fakeLibrary{}, &fakeCatalog{}, &fakePlaylists{}, an)

	result, err := r.Execute(t.Context(),
		call("get_recommendations", `{"query":"something impossible"}`))
	require.NoError(t, err)
	assert.Equal(t, NoDataSentinel, result)
}

func TestCreatePlaylistMapsOptions(t *testing.T) {
	pl := &fakePlaylists{created: &spotify.Playlist{ID: "p1", Name: "Run Mix"}}
	r := newTestRegistry(&fakeLibrary{}, &fakeCatalog{}, pl, &fakeAnalyzer{})

	result, err := r.Execute(t.Context(),
		call("create_playlist", `{"name":"Run Mix","public":true,"description":"tempo"}`))
	require.NoError(t, err)
	assert.Equal(t, "Run Mix", pl.gotName)
	require.NotNil(t, pl.gotOpts.Public)
	assert.True(t, *pl.gotOpts.Public)
	assert.Equal(t, "tempo", pl.gotOpts.Description)
	assert.Contains(t, result, "p1")
}

func TestAddSongsRequiresURIs(t *testing.T) {
	r := newTestRegistry(&fakeLibrary{}, &fakeCatalog{}, &fakePlaylists{}, &fakeAnalyzer{})

	_, err := r.Execute(t.Context(),
		call("add_songs_to_playlist", `{"playlist_id":"p1","uris":[]}`))
	require.Error(t, err)
}
