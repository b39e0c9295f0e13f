package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// itemPage is the offset-paged collection shape shared by most library
// endpoints. Items stay raw so each caller can decode its own record type.
type itemPage struct {
	Items []json.RawMessage `json:"items"`
	Next  string            `json:"next"`
}

// collectItems walks `next` links until the endpoint is exhausted or max
// items have been gathered. max <= 0 means no cap.
func (c *Client) collectItems(ctx context.Context, path string, query url.Values, max int) ([]json.RawMessage, error) {
	var items []json.RawMessage

	u := c.baseURL + "/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	for u != "" {
		var page itemPage
		if err := c.getURL(ctx, u, &page); err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
		if max > 0 && len(items) >= max {
			return items[:max], nil
		}
		u = page.Next
	}
	return items, nil
}

// TopItems returns the user's top artists or tracks for a time range.
// itemType is "artists" or "tracks"; timeRange is short_term, medium_term,
// or long_term.
func (c *Client) TopItems(ctx context.Context, timeRange, itemType string) ([]TopItem, error) {
	if itemType != "artists" && itemType != "tracks" {
		return nil, fmt.Errorf("invalid top-item type %q", itemType)
	}

	var page itemPage
	query := url.Values{"time_range": {timeRange}}
	if err := c.get(ctx, "me/top/"+itemType, query, &page); err != nil {
		return nil, err
	}

	out := make([]TopItem, 0, len(page.Items))
	for _, raw := range page.Items {
		if itemType == "artists" {
			var a apiArtist
			if err := json.Unmarshal(raw, &a); err != nil {
				return nil, fmt.Errorf("decoding top artist: %w", err)
			}
			out = append(out, TopItem{
				Name:       a.Name,
				URI:        a.URI,
				Popularity: a.Popularity,
				Genres:     a.Genres,
			})
			continue
		}
		var t apiTrack
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("decoding top track: %w", err)
		}
		out = append(out, TopItem{
			Name:       t.Name,
			URI:        t.URI,
			Popularity: t.Popularity,
			Artists:    artistNames(t.Artists),
			Album:      t.Album.Name,
		})
	}
	return out, nil
}

// FollowedArtists pages through me/following with the API's cursor scheme,
// capped at libraryCap artists.
func (c *Client) FollowedArtists(ctx context.Context) ([]FollowedArtist, error) {
	type followPage struct {
		Artists struct {
			Items   []apiArtist `json:"items"`
			Cursors struct {
				After string `json:"after"`
			} `json:"cursors"`
		} `json:"artists"`
	}

	var out []FollowedArtist
	after := ""
	for len(out) < libraryCap {
		query := url.Values{
			"type":  {"artist"},
			"limit": {strconv.Itoa(maxPageSize)},
		}
		if after != "" {
			query.Set("after", after)
		}

		var page followPage
		if err := c.get(ctx, "me/following", query, &page); err != nil {
			return nil, err
		}
		for _, a := range page.Artists.Items {
			out = append(out, FollowedArtist{
				ID:         a.ID,
				Name:       a.Name,
				Genres:     a.Genres,
				Popularity: a.Popularity,
				URI:        a.URI,
			})
		}
		after = page.Artists.Cursors.After
		if after == "" || len(page.Artists.Items) == 0 {
			break
		}
	}
	if len(out) > libraryCap {
		out = out[:libraryCap]
	}
	return out, nil
}

func (c *Client) UserPlaylists(ctx context.Context) ([]PlaylistSummary, error) {
	raw, err := c.collectItems(ctx, "me/playlists",
		url.Values{"limit": {strconv.Itoa(maxPageSize)}}, libraryCap)
	if err != nil {
		return nil, err
	}

	out := make([]PlaylistSummary, 0, len(raw))
	for _, r := range raw {
		var p apiPlaylist
		if err := json.Unmarshal(r, &p); err != nil {
			return nil, fmt.Errorf("decoding playlist: %w", err)
		}
		if p.ID == "" {
			continue
		}
		out = append(out, PlaylistSummary{ID: p.ID, Name: p.Name, URI: p.URI})
	}
	return out, nil
}

// Descriptions mentioning these read as audiobooks even when the catalog
// files them under shows.
var audiobookKeywords = []string{"audiobook", "narrator", "narrated by", "read by", "author"}

func looksLikeAudiobook(description string) bool {
	lower := strings.ToLower(description)
	for _, kw := range audiobookKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (c *Client) savedShows(ctx context.Context) ([]SavedShow, error) {
	raw, err := c.collectItems(ctx, "me/shows",
		url.Values{"limit": {strconv.Itoa(maxPageSize)}}, 0)
	if err != nil {
		return nil, err
	}

	out := make([]SavedShow, 0, len(raw))
	for _, r := range raw {
		var wrapper struct {
			Show apiShow `json:"show"`
		}
		if err := json.Unmarshal(r, &wrapper); err != nil {
			return nil, fmt.Errorf("decoding saved show: %w", err)
		}
		out = append(out, SavedShow{
			ID:          wrapper.Show.ID,
			Name:        wrapper.Show.Name,
			Description: wrapper.Show.Description,
			Publisher:   wrapper.Show.Publisher,
			URI:         wrapper.Show.URI,
		})
	}
	return out, nil
}

// SavedPodcasts returns the user's saved shows minus anything that
// classifies as an audiobook.
func (c *Client) SavedPodcasts(ctx context.Context) ([]SavedShow, error) {
	shows, err := c.savedShows(ctx)
	if err != nil {
		return nil, err
	}
	podcasts := make([]SavedShow, 0, len(shows))
	for _, s := range shows {
		if !looksLikeAudiobook(s.Description) {
			podcasts = append(podcasts, s)
		}
	}
	return podcasts, nil
}

func (c *Client) SavedAudiobooks(ctx context.Context) ([]SavedAudiobook, error) {
	raw, err := c.collectItems(ctx, "me/audiobooks",
		url.Values{"limit": {strconv.Itoa(maxPageSize)}}, 0)
	if err != nil {
		return nil, err
	}

	out := make([]SavedAudiobook, 0, len(raw))
	for _, r := range raw {
		var b apiAudiobook
		if err := json.Unmarshal(r, &b); err != nil {
			return nil, fmt.Errorf("decoding saved audiobook: %w", err)
		}
		book := SavedAudiobook{ID: b.ID, Name: b.Name, URI: b.URI}
		for _, a := range b.Authors {
			book.Authors = append(book.Authors, a.Name)
		}
		for _, n := range b.Narrators {
			book.Narrators = append(book.Narrators, n.Name)
		}
		out = append(out, book)
	}
	return out, nil
}

func (c *Client) SavedTracks(ctx context.Context) ([]SavedTrack, error) {
	raw, err := c.collectItems(ctx, "me/tracks",
		url.Values{"limit": {strconv.Itoa(maxPageSize)}}, libraryCap)
	if err != nil {
		return nil, err
	}

	out := make([]SavedTrack, 0, len(raw))
	for _, r := range raw {
		var wrapper struct {
			AddedAt string   `json:"added_at"`
			Track   apiTrack `json:"track"`
		}
		if err := json.Unmarshal(r, &wrapper); err != nil {
			return nil, fmt.Errorf("decoding saved track: %w", err)
		}
		t := wrapper.Track
		out = append(out, SavedTrack{
			ID:      t.ID,
			Name:    t.Name,
			Artists: artistRefs(t.Artists),
			Album:   AlbumRef{ID: t.Album.ID, Name: t.Album.Name},
			AddedAt: wrapper.AddedAt,
			URI:     t.URI,
		})
	}
	return out, nil
}

func (c *Client) RecentlyPlayed(ctx context.Context) ([]PlayedTrack, error) {
	raw, err := c.collectItems(ctx, "me/player/recently-played",
		url.Values{"limit": {strconv.Itoa(maxPageSize)}}, maxPageSize)
	if err != nil {
		return nil, err
	}

	out := make([]PlayedTrack, 0, len(raw))
	for _, r := range raw {
		var wrapper struct {
			PlayedAt string   `json:"played_at"`
			Track    apiTrack `json:"track"`
		}
		if err := json.Unmarshal(r, &wrapper); err != nil {
			return nil, fmt.Errorf("decoding played track: %w", err)
		}
		t := wrapper.Track
		out = append(out, PlayedTrack{
			ID:       t.ID,
			Name:     t.Name,
			Artists:  artistRefs(t.Artists),
			Album:    AlbumRef{ID: t.Album.ID, Name: t.Album.Name},
			PlayedAt: wrapper.PlayedAt,
			URI:      t.URI,
		})
	}
	return out, nil
}

func (c *Client) Profile(ctx context.Context) (*UserProfile, error) {
	var raw struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		Email       string `json:"email"`
		Country     string `json:"country"`
		Product     string `json:"product"`
		Followers   struct {
			Total int `json:"total"`
		} `json:"followers"`
	}
	if err := c.get(ctx, "me", nil, &raw); err != nil {
		return nil, err
	}
	return &UserProfile{
		ID:          raw.ID,
		DisplayName: raw.DisplayName,
		Email:       raw.Email,
		Country:     raw.Country,
		Product:     raw.Product,
		Followers:   raw.Followers.Total,
	}, nil
}
