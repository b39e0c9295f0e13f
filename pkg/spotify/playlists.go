package spotify

import (
	"context"
	"fmt"
	"net/http"
)

// The API accepts at most 100 URIs per add/remove call.
const maxURIsPerCall = 100

type CreatePlaylistOptions struct {
	Public        *bool
	Collaborative *bool
	Description   string
}

// CreatePlaylist creates a playlist owned by the current user. Playlists
// default to private, matching what the assistant promises users.
func (c *Client) CreatePlaylist(ctx context.Context, name string, opts CreatePlaylistOptions) (*Playlist, error) {
	if name == "" {
		return nil, fmt.Errorf("playlist name is required")
	}

	profile, err := c.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving current user: %w", err)
	}

	body := map[string]any{
		"name":   name,
		"public": false,
	}
	if opts.Public != nil {
		body["public"] = *opts.Public
	}
	if opts.Collaborative != nil {
		body["collaborative"] = *opts.Collaborative
	}
	if opts.Description != "" {
		body["description"] = opts.Description
	}

	var created apiPlaylist
	path := "users/" + profile.ID + "/playlists"
	if err := c.send(ctx, http.MethodPost, path, body, &created); err != nil {
		return nil, err
	}
	return &Playlist{
		ID:          created.ID,
		Name:        created.Name,
		URI:         created.URI,
		ExternalURL: created.ExternalURLs.Spotify,
		SnapshotID:  created.SnapshotID,
	}, nil
}

// AddTracks appends track URIs to a playlist, chunking to the API's
// per-call cap. position applies to the first chunk only; later chunks
// follow it in order. Returns the snapshot id after the final chunk.
func (c *Client) AddTracks(ctx context.Context, playlistID string, uris []string, position *int) (string, error) {
	if playlistID == "" {
		return "", fmt.Errorf("playlist id is required")
	}
	if len(uris) == 0 {
		return "", fmt.Errorf("no track URIs to add")
	}

	var snapshot string
	offset := 0
	for start := 0; start < len(uris); start += maxURIsPerCall {
		end := min(start+maxURIsPerCall, len(uris))
		body := map[string]any{"uris": uris[start:end]}
		if position != nil {
			body["position"] = *position + offset
		}

		var resp struct {
			SnapshotID string `json:"snapshot_id"`
		}
		if err := c.send(ctx, http.MethodPost, "playlists/"+playlistID+"/tracks", body, &resp); err != nil {
			return snapshot, err
		}
		snapshot = resp.SnapshotID
		offset += end - start
	}
	return snapshot, nil
}

// RemoveTracks removes every occurrence of the given URIs. snapshotID, when
// set, pins the removal to a known playlist version.
func (c *Client) RemoveTracks(ctx context.Context, playlistID string, uris []string, snapshotID string) (string, error) {
	if playlistID == "" {
		return "", fmt.Errorf("playlist id is required")
	}
	if len(uris) == 0 {
		return "", fmt.Errorf("no track URIs to remove")
	}

	var snapshot string
	for start := 0; start < len(uris); start += maxURIsPerCall {
		end := min(start+maxURIsPerCall, len(uris))

		tracks := make([]map[string]string, 0, end-start)
		for _, uri := range uris[start:end] {
			tracks = append(tracks, map[string]string{"uri": uri})
		}
		body := map[string]any{"tracks": tracks}
		if snapshotID != "" {
			body["snapshot_id"] = snapshotID
		}

		var resp struct {
			SnapshotID string `json:"snapshot_id"`
		}
		if err := c.send(ctx, http.MethodDelete, "playlists/"+playlistID+"/tracks", body, &resp); err != nil {
			return snapshot, err
		}
		snapshot = resp.SnapshotID
		snapshotID = resp.SnapshotID
	}
	return snapshot, nil
}

type PlaylistDetails struct {
	Name          string
	Public        *bool
	Collaborative *bool
	Description   string
}

// UpdateDetails changes a playlist's metadata. Only set fields are sent.
func (c *Client) UpdateDetails(ctx context.Context, playlistID string, details PlaylistDetails) error {
	if playlistID == "" {
		return fmt.Errorf("playlist id is required")
	}

	body := map[string]any{}
	if details.Name != "" {
		body["name"] = details.Name
	}
	if details.Public != nil {
		body["public"] = *details.Public
	}
	if details.Collaborative != nil {
		body["collaborative"] = *details.Collaborative
	}
	if details.Description != "" {
		body["description"] = details.Description
	}
	if len(body) == 0 {
		return fmt.Errorf("no playlist details to update")
	}

	return c.send(ctx, http.MethodPut, "playlists/"+playlistID, body, nil)
}
