package spotify

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const searchPageLimit = 10

var searchTypes = map[string]bool{
	"track":     true,
	"album":     true,
	"artist":    true,
	"playlist":  true,
	"show":      true,
	"episode":   true,
	"audiobook": true,
}

// buildSearchQuery appends filter clauses to the free-text query. String
// values are quoted (`artist:"Four Tet"`), everything else is rendered
// bare. Keys are sorted so the same filters always produce the same query.
func buildSearchQuery(query string, filters map[string]any) string {
	if len(filters) == 0 {
		return query
	}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := []string{query}
	for _, k := range keys {
		v := filters[k]
		if v == nil {
			continue
		}
		switch s := v.(type) {
		case string:
			if s == "" {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s:%q", k, s))
		default:
			parts = append(parts, fmt.Sprintf("%s:%v", k, v))
		}
	}
	return strings.Join(parts, " ")
}

// Search runs a catalog search scoped to one item type and returns the
// per-type projection of the first page of results.
func (c *Client) Search(ctx context.Context, query, searchType string, filters map[string]any) ([]SearchItem, error) {
	if !searchTypes[searchType] {
		return nil, fmt.Errorf("invalid search type %q", searchType)
	}

	params := url.Values{
		"q":     {buildSearchQuery(query, filters)},
		"type":  {searchType},
		"limit": {strconv.Itoa(searchPageLimit)},
	}

	var raw struct {
		Tracks     struct{ Items []apiTrack }     `json:"tracks"`
		Artists    struct{ Items []apiArtist }    `json:"artists"`
		Albums     struct{ Items []apiAlbum }     `json:"albums"`
		Playlists  struct{ Items []apiPlaylist }  `json:"playlists"`
		Shows      struct{ Items []apiShow }      `json:"shows"`
		Episodes   struct{ Items []apiEpisode }   `json:"episodes"`
		Audiobooks struct{ Items []apiAudiobook } `json:"audiobooks"`
	}
	if err := c.get(ctx, "search", params, &raw); err != nil {
		return nil, err
	}

	var out []SearchItem
	switch searchType {
	case "track":
		for _, t := range raw.Tracks.Items {
			out = append(out, SearchItem{
				ID:         t.ID,
				Name:       t.Name,
				URI:        t.URI,
				Artists:    artistRefs(t.Artists),
				Album:      t.Album.Name,
				DurationMS: t.DurationMS,
				Popularity: t.Popularity,
				PreviewURL: t.PreviewURL,
				Explicit:   t.Explicit,
			})
		}
	case "artist":
		for _, a := range raw.Artists.Items {
			followers := a.Followers.Total
			out = append(out, SearchItem{
				ID:         a.ID,
				Name:       a.Name,
				URI:        a.URI,
				Genres:     a.Genres,
				Followers:  &followers,
				Popularity: a.Popularity,
			})
		}
	case "album":
		for _, a := range raw.Albums.Items {
			out = append(out, SearchItem{
				ID:          a.ID,
				Name:        a.Name,
				URI:         a.URI,
				Artists:     artistRefs(a.Artists),
				ReleaseDate: a.ReleaseDate,
				TotalTracks: a.TotalTracks,
			})
		}
	case "playlist":
		for _, p := range raw.Playlists.Items {
			if p.ID == "" {
				continue
			}
			out = append(out, SearchItem{
				ID:          p.ID,
				Name:        p.Name,
				URI:         p.URI,
				Owner:       p.Owner.DisplayName,
				TotalTracks: p.Tracks.Total,
				Description: p.Description,
			})
		}
	case "show":
		for _, s := range raw.Shows.Items {
			out = append(out, SearchItem{
				ID:            s.ID,
				Name:          s.Name,
				URI:           s.URI,
				Publisher:     s.Publisher,
				Description:   s.Description,
				TotalEpisodes: s.TotalEpisodes,
			})
		}
	case "episode":
		for _, e := range raw.Episodes.Items {
			out = append(out, SearchItem{
				ID:          e.ID,
				Name:        e.Name,
				URI:         e.URI,
				ShowName:    e.Show.Name,
				Description: e.Description,
				DurationMS:  e.DurationMS,
				ReleaseDate: e.ReleaseDate,
			})
		}
	case "audiobook":
		for _, b := range raw.Audiobooks.Items {
			item := SearchItem{
				ID:          b.ID,
				Name:        b.Name,
				URI:         b.URI,
				Description: b.Description,
				DurationMS:  b.DurationMS,
			}
			for _, a := range b.Authors {
				item.Authors = append(item.Authors, a.Name)
			}
			for _, n := range b.Narrators {
				item.Narrators = append(item.Narrators, n.Name)
			}
			out = append(out, item)
		}
	}
	return out, nil
}
