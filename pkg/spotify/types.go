package spotify

// Simplified records handed to the model. Only the fields a conversation
// can actually use survive the projection; everything else the API returns
// is dropped at the boundary.

type ArtistRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type AlbumRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// TopItem is one entry from me/top/{artists|tracks}. Genre fields are set
// for artists, artist/album fields for tracks.
type TopItem struct {
	Name       string   `json:"name"`
	URI        string   `json:"uri"`
	Popularity *int     `json:"popularity,omitempty"`
	Genres     []string `json:"genres,omitempty"`
	Artists    []string `json:"artists,omitempty"`
	Album      string   `json:"album,omitempty"`
}

type FollowedArtist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity *int     `json:"popularity,omitempty"`
	URI        string   `json:"uri"`
}

type PlaylistSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

type SavedShow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Publisher   string `json:"publisher"`
	URI         string `json:"uri"`
}

type SavedAudiobook struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Authors   []string `json:"authors"`
	Narrators []string `json:"narrators,omitempty"`
	URI       string   `json:"uri"`
}

type SavedTrack struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Artists []ArtistRef `json:"artists"`
	Album   AlbumRef    `json:"album"`
	AddedAt string      `json:"added_at,omitempty"`
	URI     string      `json:"uri"`
}

type PlayedTrack struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Artists  []ArtistRef `json:"artists"`
	Album    AlbumRef    `json:"album"`
	PlayedAt string      `json:"played_at"`
	URI      string      `json:"uri"`
}

type UserProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	Country     string `json:"country,omitempty"`
	Product     string `json:"product,omitempty"`
	Followers   int    `json:"followers"`
}

// SearchItem is the per-type search projection. Which fields are populated
// depends on the search type; omitted fields are elided from the JSON the
// model sees.
type SearchItem struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	URI           string      `json:"uri"`
	Artists       []ArtistRef `json:"artists,omitempty"`
	Album         string      `json:"album,omitempty"`
	DurationMS    int         `json:"duration_ms,omitempty"`
	Popularity    *int        `json:"popularity,omitempty"`
	PreviewURL    string      `json:"preview_url,omitempty"`
	Explicit      *bool       `json:"explicit,omitempty"`
	Genres        []string    `json:"genres,omitempty"`
	Followers     *int        `json:"followers,omitempty"`
	ReleaseDate   string      `json:"release_date,omitempty"`
	TotalTracks   *int        `json:"total_tracks,omitempty"`
	Owner         string      `json:"owner,omitempty"`
	Description   string      `json:"description,omitempty"`
	Publisher     string      `json:"publisher,omitempty"`
	TotalEpisodes *int        `json:"total_episodes,omitempty"`
	ShowName      string      `json:"show_name,omitempty"`
	Authors       []string    `json:"authors,omitempty"`
	Narrators     []string    `json:"narrators,omitempty"`
}

type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URI         string `json:"uri"`
	ExternalURL string `json:"external_url,omitempty"`
	SnapshotID  string `json:"snapshot_id,omitempty"`
}

type RecommendedTrack struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Artists []string `json:"artists"`
	Album   string   `json:"album"`
	URI     string   `json:"uri"`
}

// Raw API shapes. These stay unexported; callers only ever see the
// simplified records above.

type apiArtist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	URI        string   `json:"uri"`
	Genres     []string `json:"genres"`
	Popularity *int     `json:"popularity"`
	Followers  struct {
		Total int `json:"total"`
	} `json:"followers"`
}

type apiAlbum struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	URI         string      `json:"uri"`
	Artists     []apiArtist `json:"artists"`
	ReleaseDate string      `json:"release_date"`
	TotalTracks *int        `json:"total_tracks"`
}

type apiTrack struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	URI        string      `json:"uri"`
	Artists    []apiArtist `json:"artists"`
	Album      apiAlbum    `json:"album"`
	DurationMS int         `json:"duration_ms"`
	Popularity *int        `json:"popularity"`
	PreviewURL string      `json:"preview_url"`
	Explicit   *bool       `json:"explicit"`
}

type apiPlaylist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URI         string `json:"uri"`
	Description string `json:"description"`
	SnapshotID  string `json:"snapshot_id"`
	Owner       struct {
		DisplayName string `json:"display_name"`
	} `json:"owner"`
	Tracks struct {
		Total *int `json:"total"`
	} `json:"tracks"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type apiShow struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	URI           string `json:"uri"`
	Description   string `json:"description"`
	Publisher     string `json:"publisher"`
	TotalEpisodes *int   `json:"total_episodes"`
}

type apiEpisode struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URI         string `json:"uri"`
	Description string `json:"description"`
	DurationMS  int    `json:"duration_ms"`
	ReleaseDate string `json:"release_date"`
	Show        struct {
		Name string `json:"name"`
	} `json:"show"`
}

type apiAudiobook struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URI         string `json:"uri"`
	Description string `json:"description"`
	DurationMS  int    `json:"duration_ms"`
	Authors     []struct {
		Name string `json:"name"`
	} `json:"authors"`
	Narrators []struct {
		Name string `json:"name"`
	} `json:"narrators"`
}

func artistRefs(artists []apiArtist) []ArtistRef {
	refs := make([]ArtistRef, 0, len(artists))
	for _, a := range artists {
		refs = append(refs, ArtistRef{ID: a.ID, Name: a.Name})
	}
	return refs
}

func artistNames(artists []apiArtist) []string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return names
}
