package spotify

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// RecommendationParams is the fully resolved query for the recommendations
// endpoint: clamped limit, at most five seeds in total, and validated
// attribute bounds keyed as {min_|max_|target_}<attribute>.
type RecommendationParams struct {
	Limit       int
	SeedArtists []string
	SeedTracks  []string
	SeedGenres  []string
	Attributes  map[string]any
}

func (p RecommendationParams) seedCount() int {
	return len(p.SeedArtists) + len(p.SeedTracks) + len(p.SeedGenres)
}

func (p RecommendationParams) encode() (url.Values, error) {
	if p.seedCount() == 0 {
		return nil, fmt.Errorf("at least one seed is required")
	}
	if p.seedCount() > 5 {
		return nil, fmt.Errorf("too many seeds: %d (max 5)", p.seedCount())
	}

	values := url.Values{}
	if p.Limit > 0 {
		values.Set("limit", strconv.Itoa(p.Limit))
	}
	if len(p.SeedArtists) > 0 {
		values.Set("seed_artists", strings.Join(p.SeedArtists, ","))
	}
	if len(p.SeedTracks) > 0 {
		values.Set("seed_tracks", strings.Join(p.SeedTracks, ","))
	}
	if len(p.SeedGenres) > 0 {
		values.Set("seed_genres", strings.Join(p.SeedGenres, ","))
	}

	keys := make([]string, 0, len(p.Attributes))
	for k := range p.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := p.Attributes[k].(type) {
		case float64:
			values.Set(k, strconv.FormatFloat(v, 'f', -1, 64))
		case int:
			values.Set(k, strconv.Itoa(v))
		default:
			values.Set(k, fmt.Sprintf("%v", v))
		}
	}
	return values, nil
}

// Recommendations queries the recommendation endpoint with resolved seeds
// and attribute bounds.
func (c *Client) Recommendations(ctx context.Context, params RecommendationParams) ([]RecommendedTrack, error) {
	query, err := params.encode()
	if err != nil {
		return nil, err
	}

	var raw struct {
		Tracks []apiTrack `json:"tracks"`
	}
	if err := c.get(ctx, "recommendations", query, &raw); err != nil {
		return nil, err
	}

	out := make([]RecommendedTrack, 0, len(raw.Tracks))
	for _, t := range raw.Tracks {
		out = append(out, RecommendedTrack{
			ID:      t.ID,
			Name:    t.Name,
			Artists: artistNames(t.Artists),
			Album:   t.Album.Name,
			URI:     t.URI,
		})
	}
	return out, nil
}

// AvailableGenreSeeds returns the catalog's canonical genre seed tokens.
func (c *Client) AvailableGenreSeeds(ctx context.Context) ([]string, error) {
	var raw struct {
		Genres []string `json:"genres"`
	}
	if err := c.get(ctx, "recommendations/available-genre-seeds", nil, &raw); err != nil {
		return nil, err
	}
	return raw.Genres, nil
}
