// package services defines interface LibraryService for the music streaming
// API this tool drives, plus the domain types exchanged with it.
//
// The concrete implementation wraps the Spotify Web API; token refresh and
// retry-on-429 are delegated to the client library.
package services

import (
	"context"
	"time"

	"monthlify/internal/months"
)

// Track represents a music track as it appears in a playlist or the library.
type Track struct {
	ID     string
	Title  string
	Artist string
}

// LikedTrack is a track the user saved to their library, timestamped at save
// time. LikedAt is the zero time when the service returned an unparseable
// timestamp; such tracks are skipped during bucketing.
type LikedTrack struct {
	Track
	LikedAt time.Time
}

// Playlist represents a playlist owned by the current user.
type Playlist struct {
	ID         string
	Name       string
	TrackCount int
	Public     bool
}

// LibraryService defines the operations the sync engine needs from the
// streaming service.
type LibraryService interface {
	// CurrentUser returns the authenticated user's ID.
	CurrentUser(ctx context.Context) (string, error)

	// LikedTracks retrieves the user's saved tracks, newest first. When
	// oldest is non-zero, fetching may stop once a page falls entirely
	// before that month; callers must still filter.
	LikedTracks(ctx context.Context, oldest months.Key) ([]LikedTrack, error)

	// Playlists retrieves all playlists owned by the current user.
	Playlists(ctx context.Context) ([]Playlist, error)

	// PlaylistTracks retrieves the current contents of a playlist.
	PlaylistTracks(ctx context.Context, playlistID string) ([]Track, error)

	// CreatePlaylist creates an empty playlist for the current user.
	CreatePlaylist(ctx context.Context, name, description string, public bool) (Playlist, error)

	// AddTracks adds tracks to a playlist, batching as the API requires.
	AddTracks(ctx context.Context, playlistID string, trackIDs []string) error

	// RemoveTracks removes tracks from a playlist, batching as the API requires.
	RemoveTracks(ctx context.Context, playlistID string, trackIDs []string) error

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}
