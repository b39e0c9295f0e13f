package recommender

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myspotipal/spotipal/pkg/spotify"
)

type fakeSearchClient struct {
	artists map[string]string // query -> id
	tracks  map[string]string
	genres  []string
	queries []string
	err     error
}

func (f *fakeSearchClient) Search(_ context.Context, query, searchType string, _ map[string]any) ([]spotify.SearchItem, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	var id string
	switch searchType {
	case "artist":
		id = f.artists[query]
	case "track":
		id = f.tracks[query]
	}
	if id == "" {
		return nil, nil
	}
	return []spotify.SearchItem{{ID: id, Name: query}}, nil
}

func (f *fakeSearchClient) AvailableGenreSeeds(context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.genres, nil
}

func TestResolveArtistsDropsUnresolvable(t *testing.T) {
	client := &fakeSearchClient{artists: map[string]string{"Bonobo": "a1"}}
	r := NewSeedResolver(client)

	ids := r.ResolveArtists(t.Context(), []string{"Bonobo", "Nonexistent Band"})
	assert.Equal(t, []string{"a1"}, ids)
}

func TestResolveTracksUsesArtistDisambiguation(t *testing.T) {
	client := &fakeSearchClient{tracks: map[string]string{
		"track:Anti-Hero artist:Taylor Swift": "t1",
		"Shake It Off":                        "t2",
	}}
	r := NewSeedResolver(client)

	ids := r.ResolveTracks(t.Context(), []TrackSeed{
		{Name: "Anti-Hero", Artist: "Taylor Swift"},
		{Name: "Shake It Off"},
	})
	assert.Equal(t, []string{"t1", "t2"}, ids)
	assert.Contains(t, client.queries, "track:Anti-Hero artist:Taylor Swift")
}

func TestResolveGenresExactMatchWins(t *testing.T) {
	client := &fakeSearchClient{genres: []string{"hip-hop", "pop", "indie-pop", "k-pop"}}
	r := NewSeedResolver(client)

	got := r.ResolveGenres(t.Context(), []string{"pop"})
	assert.Equal(t, []string{"pop"}, got)
}

func TestResolveGenresSubstringShortestWins(t *testing.T) {
	// No exact match: the shortest substring match is chosen regardless of
	// the order the catalog returned the tokens in.
	client := &fakeSearchClient{genres: []string{"progressive-house", "deep-house"}}
	r := NewSeedResolver(client)

	got := r.ResolveGenres(t.Context(), []string{"house"})
	assert.Equal(t, []string{"deep-house"}, got)
}

func TestResolveGenresTieBreaksLexicographically(t *testing.T) {
	client := &fakeSearchClient{genres: []string{"popx", "popa"}}
	r := NewSeedResolver(client)

	got := r.ResolveGenres(t.Context(), []string{"pop"})
	assert.Equal(t, []string{"popa"}, got)
}

func TestResolveGenresDropsUnmatched(t *testing.T) {
	client := &fakeSearchClient{genres: []string{"rock", "jazz"}}
	r := NewSeedResolver(client)

	got := r.ResolveGenres(t.Context(), []string{"vaporwave", "jazz"})
	assert.Equal(t, []string{"jazz"}, got)
}

func TestResolveGenresFetchesCatalogOnce(t *testing.T) {
	client := &fakeSearchClient{genres: []string{"rock"}}
	r := NewSeedResolver(client)

	r.ResolveGenres(t.Context(), []string{"rock"})
	client.genres = []string{"jazz"} // must not be observed
	got := r.ResolveGenres(t.Context(), []string{"rock"})
	assert.Equal(t, []string{"rock"}, got)
}

func TestResolveGenresCatalogErrorDropsAll(t *testing.T) {
	client := &fakeSearchClient{err: errors.New("boom")}
	r := NewSeedResolver(client)

	got := r.ResolveGenres(t.Context(), []string{"rock"})
	require.Nil(t, got)
}
