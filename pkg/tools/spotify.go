package tools

import (
	"context"
	"fmt"

	"github.com/myspotipal/spotipal/pkg/spotify"
)

// LibraryService covers the read-only lookups against the user's library.
type LibraryService interface {
	TopItems(ctx context.Context, timeRange, itemType string) ([]spotify.TopItem, error)
	FollowedArtists(ctx context.Context) ([]spotify.FollowedArtist, error)
	UserPlaylists(ctx context.Context) ([]spotify.PlaylistSummary, error)
	SavedPodcasts(ctx context.Context) ([]spotify.SavedShow, error)
	SavedAudiobooks(ctx context.Context) ([]spotify.SavedAudiobook, error)
	SavedTracks(ctx context.Context) ([]spotify.SavedTrack, error)
	RecentlyPlayed(ctx context.Context) ([]spotify.PlayedTrack, error)
	Profile(ctx context.Context) (*spotify.UserProfile, error)
}

type CatalogService interface {
	Search(ctx context.Context, query, searchType string, filters map[string]any) ([]spotify.SearchItem, error)
	Recommendations(ctx context.Context, params spotify.RecommendationParams) ([]spotify.RecommendedTrack, error)
}

type PlaylistService interface {
	CreatePlaylist(ctx context.Context, name string, opts spotify.CreatePlaylistOptions) (*spotify.Playlist, error)
	AddTracks(ctx context.Context, playlistID string, uris []string, position *int) (string, error)
	RemoveTracks(ctx context.Context, playlistID string, uris []string, snapshotID string) (string, error)
	UpdateDetails(ctx context.Context, playlistID string, details spotify.PlaylistDetails) error
}

// RequestAnalyzer converts a free-text recommendation request into bounded
// query parameters.
type RequestAnalyzer interface {
	Analyze(ctx context.Context, query string) (*spotify.RecommendationParams, error)
}

// Services bundles the collaborators the tool set needs. A *spotify.Client
// satisfies the first three.
type Services struct {
	Library   LibraryService
	Catalog   CatalogService
	Playlists PlaylistService
	Analyzer  RequestAnalyzer
}

// RegisterAll installs the full tool surface into the registry.
func RegisterAll(r *Registry, svc Services) {
	r.Register(&funcTool{
		name:        "get_top_items",
		description: "Get user's top artists or tracks for a specific time range",
		parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"time_range": map[string]any{
					"type":        "string",
					"enum":        []string{"short_term", "medium_term", "long_term"},
					"description": "Time range for top items",
				},
				"item_type": map[string]any{
					"type":        "string",
					"enum":        []string{"artists", "tracks"},
					"description": "Type of items to fetch",
				},
			},
			"required": []string{"time_range", "item_type"},
		},
		fn: func(ctx context.Context, args map[string]any) (any, error) {
			timeRange, ok := stringArg(args, "time_range")
			if !ok {
				return nil, fmt.Errorf("time_range is required")
			}
			itemType, ok := stringArg(args, "item_type")
			if !ok {
				return nil, fmt.Errorf("item_type is required")
			}
			return svc.Library.TopItems(ctx, timeRange, itemType)
		},
	})

	r.Register(&funcTool{
		name:        "get_followed_artists",
		description: "Get list of artists the user follows",
		parameters:  noParams(),
		fn: func(ctx context.Context, _ map[string]any) (any, error) {
			return svc.Library.FollowedArtists(ctx)
		},
	})

	r.Register(&funcTool{
		name:        "get_user_playlists",
		description: "Get user's playlists",
		parameters:  noParams(),
		fn: func(ctx context.Context, _ map[string]any) (any, error) {
			return svc.Library.UserPlaylists(ctx)
		},
	})

	r.Register(&funcTool{
		name:        "get_saved_podcasts",
		description: "Get user's saved podcasts",
		parameters:  noParams(),
		fn: func(ctx context.Context, _ map[string]any) (any, error) {
			return svc.Library.SavedPodcasts(ctx)
		},
	})

	r.Register(&funcTool{
		name:        "get_saved_audiobooks",
		description: "Get user's saved audiobooks",
		parameters:  noParams(),
		fn: func(ctx context.Context, _ map[string]any) (any, error) {
			return svc.Library.SavedAudiobooks(ctx)
		},
	})

	r.Register(&funcTool{
		name:        "get_saved_tracks",
		description: "Get user's saved (liked) tracks",
		parameters:  noParams(),
		fn: func(ctx context.Context, _ map[string]any) (any, error) {
			return svc.Library.SavedTracks(ctx)
		},
	})

	r.Register(&funcTool{
		name:        "get_recently_played_tracks",
		description: "Get user's recently played tracks",
		parameters:  noParams(),
		fn: func(ctx context.Context, _ map[string]any) (any, error) {
			return svc.Library.RecentlyPlayed(ctx)
		},
	})

	r.Register(&funcTool{
		name:        "get_user_profile",
		description: "Get the user's profile information",
		parameters:  noParams(),
		fn: func(ctx context.Context, _ map[string]any) (any, error) {
			return svc.Library.Profile(ctx)
		},
	})

	r.Register(&funcTool{
		name:        "search_item",
		description: "Search for any item type on Spotify",
		parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string"},
				"search_type": map[string]any{
					"type": "string",
					"enum": []string{"track", "album", "artist", "playlist", "show", "episode", "audiobook"},
				},
				"filters": map[string]any{
					"type":                 "object",
					"additionalProperties": true,
					"description":          "Optional field filters, e.g. {\"artist\": \"Taylor Swift\", \"year\": 2022}",
				},
			},
			"required": []string{"query", "search_type"},
		},
		fn: func(ctx context.Context, args map[string]any) (any, error) {
			query, ok := stringArg(args, "query")
			if !ok {
				return nil, fmt.Errorf("query is required")
			}
			searchType, ok := stringArg(args, "search_type")
			if !ok {
				return nil, fmt.Errorf("search_type is required")
			}
			filters, _ := args["filters"].(map[string]any)
			return svc.Catalog.Search(ctx, query, searchType, filters)
		},
	})

	r.Register(&funcTool{
		name: "get_recommendations",
		description: "Get song recommendations from a free-text description of " +
			"what the user wants, e.g. \"upbeat songs for a 30-minute run\"",
		parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The user's recommendation request in natural language",
				},
			},
			"required": []string{"query"},
		},
		fn: func(ctx context.Context, args map[string]any) (any, error) {
			query, ok := stringArg(args, "query")
			if !ok {
				return nil, fmt.Errorf("query is required")
			}
			params, err := svc.Analyzer.Analyze(ctx, query)
			if err != nil {
				return nil, err
			}
			if len(params.SeedArtists)+len(params.SeedTracks)+len(params.SeedGenres) == 0 {
				// Nothing resolved; the endpoint requires at least one seed.
				return nil, nil
			}
			return svc.Catalog.Recommendations(ctx, *params)
		},
	})

	r.Register(&funcTool{
		name:        "create_playlist",
		description: "Create a new playlist for the user",
		parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":          map[string]any{"type": "string"},
				"public":        map[string]any{"type": "boolean"},
				"collaborative": map[string]any{"type": "boolean"},
				"description":   map[string]any{"type": "string"},
			},
			"required": []string{"name"},
		},
		fn: func(ctx context.Context, args map[string]any) (any, error) {
			name, ok := stringArg(args, "name")
			if !ok {
				return nil, fmt.Errorf("name is required")
			}
			opts := spotify.CreatePlaylistOptions{}
			if public, ok := boolArg(args, "public"); ok {
				opts.Public = &public
			}
			if collab, ok := boolArg(args, "collaborative"); ok {
				opts.Collaborative = &collab
			}
			opts.Description, _ = stringArg(args, "description")
			return svc.Playlists.CreatePlaylist(ctx, name, opts)
		},
	})

	r.Register(&funcTool{
		name:        "add_songs_to_playlist",
		description: "Add tracks to an existing playlist by their Spotify URIs",
		parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"playlist_id": map[string]any{"type": "string"},
				"uris": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"position": map[string]any{"type": "integer"},
			},
			"required": []string{"playlist_id", "uris"},
		},
		fn: func(ctx context.Context, args map[string]any) (any, error) {
			playlistID, ok := stringArg(args, "playlist_id")
			if !ok {
				return nil, fmt.Errorf("playlist_id is required")
			}
			uris := stringSliceArg(args, "uris")
			if len(uris) == 0 {
				return nil, fmt.Errorf("uris is required")
			}
			var position *int
			if p, ok := intArg(args, "position"); ok {
				position = &p
			}
			snapshot, err := svc.Playlists.AddTracks(ctx, playlistID, uris, position)
			if err != nil {
				return nil, err
			}
			return map[string]any{"snapshot_id": snapshot, "added": len(uris)}, nil
		},
	})

	r.Register(&funcTool{
		name:        "remove_playlist_items",
		description: "Remove tracks from a playlist by their Spotify URIs",
		parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"playlist_id": map[string]any{"type": "string"},
				"uris": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"snapshot_id": map[string]any{"type": "string"},
			},
			"required": []string{"playlist_id", "uris"},
		},
		fn: func(ctx context.Context, args map[string]any) (any, error) {
			playlistID, ok := stringArg(args, "playlist_id")
			if !ok {
				return nil, fmt.Errorf("playlist_id is required")
			}
			uris := stringSliceArg(args, "uris")
			if len(uris) == 0 {
				return nil, fmt.Errorf("uris is required")
			}
			snapshotID, _ := stringArg(args, "snapshot_id")
			snapshot, err := svc.Playlists.RemoveTracks(ctx, playlistID, uris, snapshotID)
			if err != nil {
				return nil, err
			}
			return map[string]any{"snapshot_id": snapshot, "removed": len(uris)}, nil
		},
	})

	r.Register(&funcTool{
		name:        "update_playlist_details",
		description: "Update a playlist's name, description, or visibility",
		parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"playlist_id":   map[string]any{"type": "string"},
				"name":          map[string]any{"type": "string"},
				"public":        map[string]any{"type": "boolean"},
				"collaborative": map[string]any{"type": "boolean"},
				"description":   map[string]any{"type": "string"},
			},
			"required": []string{"playlist_id"},
		},
		fn: func(ctx context.Context, args map[string]any) (any, error) {
			playlistID, ok := stringArg(args, "playlist_id")
			if !ok {
				return nil, fmt.Errorf("playlist_id is required")
			}
			details := spotify.PlaylistDetails{}
			details.Name, _ = stringArg(args, "name")
			details.Description, _ = stringArg(args, "description")
			if public, ok := boolArg(args, "public"); ok {
				details.Public = &public
			}
			if collab, ok := boolArg(args, "collaborative"); ok {
				details.Collaborative = &collab
			}
			if err := svc.Playlists.UpdateDetails(ctx, playlistID, details); err != nil {
				return nil, err
			}
			return map[string]any{"updated": true}, nil
		},
	})
}
