package recommender

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/myspotipal/spotipal/pkg/logger"
	"github.com/myspotipal/spotipal/pkg/spotify"
)

// SearchClient is the slice of the catalog client the resolver needs.
type SearchClient interface {
	Search(ctx context.Context, query, searchType string, filters map[string]any) ([]spotify.SearchItem, error)
	AvailableGenreSeeds(ctx context.Context) ([]string, error)
}

// TrackSeed names a track, optionally pinned to an artist so the search
// can disambiguate covers and common titles.
type TrackSeed struct {
	Name   string
	Artist string
}

// SeedResolver turns free-text artist/track/genre names into the
// identifiers and canonical tokens the recommendation endpoint accepts.
// Unresolvable seeds are dropped with a warning, never substituted.
type SeedResolver struct {
	client SearchClient

	genreOnce sync.Once
	genres    []string
	genreErr  error
}

func NewSeedResolver(client SearchClient) *SeedResolver {
	return &SeedResolver{client: client}
}

func (r *SeedResolver) ResolveArtists(ctx context.Context, names []string) []string {
	var ids []string
	for _, name := range names {
		items, err := r.client.Search(ctx, name, "artist", nil)
		if err != nil || len(items) == 0 || items[0].ID == "" {
			logger.WarnCF("recommender", "dropping unresolvable artist seed", map[string]any{
				"artist": name,
			})
			continue
		}
		ids = append(ids, items[0].ID)
	}
	return ids
}

func (r *SeedResolver) ResolveTracks(ctx context.Context, seeds []TrackSeed) []string {
	var ids []string
	for _, seed := range seeds {
		query := seed.Name
		if seed.Artist != "" {
			query = fmt.Sprintf("track:%s artist:%s", seed.Name, seed.Artist)
		}
		items, err := r.client.Search(ctx, query, "track", nil)
		if err != nil || len(items) == 0 || items[0].ID == "" {
			logger.WarnCF("recommender", "dropping unresolvable track seed", map[string]any{
				"track": seed.Name,
			})
			continue
		}
		ids = append(ids, items[0].ID)
	}
	return ids
}

// ResolveGenres matches each input against the catalog's canonical genre
// tokens, fetched once per resolver. Matching is deterministic: an exact
// lowercase match wins outright; otherwise the shortest token that is a
// substring of the input (or contains it) wins, ties broken
// lexicographically.
func (r *SeedResolver) ResolveGenres(ctx context.Context, names []string) []string {
	r.genreOnce.Do(func() {
		r.genres, r.genreErr = r.client.AvailableGenreSeeds(ctx)
		if r.genreErr != nil {
			logger.WarnCF("recommender", "failed to load genre seeds", map[string]any{
				"error": r.genreErr.Error(),
			})
		}
	})
	if r.genreErr != nil || len(r.genres) == 0 {
		return nil
	}

	var matched []string
	for _, name := range names {
		if token, ok := r.matchGenre(name); ok {
			matched = append(matched, token)
		} else {
			logger.WarnCF("recommender", "dropping unmatched genre seed", map[string]any{
				"genre": name,
			})
		}
	}
	return matched
}

func (r *SeedResolver) matchGenre(input string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(input))
	if lower == "" {
		return "", false
	}

	best := ""
	for _, candidate := range r.genres {
		if candidate == lower {
			return candidate, true
		}
		if !strings.Contains(candidate, lower) && !strings.Contains(lower, candidate) {
			continue
		}
		if best == "" ||
			len(candidate) < len(best) ||
			(len(candidate) == len(best) && candidate < best) {
			best = candidate
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}
