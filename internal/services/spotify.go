package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/zmb3/spotify/v2"

	"monthlify/internal/months"
	"monthlify/internal/shared"
)

const (
	// pageSize is the maximum page size the saved-tracks and playlist
	// endpoints accept.
	pageSize = 50
	// batchSize is the maximum number of tracks a single add or remove
	// request accepts.
	batchSize = 100
)

// SpotifyService implements LibraryService over the Spotify Web API.
type SpotifyService struct {
	client *spotify.Client
	logger *log.Logger

	userID string
}

var _ LibraryService = (*SpotifyService)(nil)

// NewSpotifyService wraps an authenticated client.
func NewSpotifyService(client *spotify.Client, logger *log.Logger) *SpotifyService {
	return &SpotifyService{client: client, logger: logger}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

func (s *SpotifyService) CurrentUser(ctx context.Context) (string, error) {
	if s.userID != "" {
		return s.userID, nil
	}

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: fetching profile: %v", shared.ErrAPIRequest, err)
	}

	s.userID = user.ID
	return s.userID, nil
}

// LikedTracks pages through the saved-tracks endpoint newest first. When
// oldest is non-zero and an entire page was liked before the first day of
// that month, later pages cannot contain anything newer and fetching stops.
func (s *SpotifyService) LikedTracks(ctx context.Context, oldest months.Key) ([]LikedTrack, error) {
	var (
		tracks []LikedTrack
		cutoff time.Time
	)

	if !oldest.IsZero() {
		cutoff = oldest.Time()
	}

	page, err := s.client.CurrentUsersTracks(ctx, spotify.Limit(pageSize))
	if err != nil {
		return nil, fmt.Errorf("%w: fetching liked tracks: %v", shared.ErrAPIRequest, err)
	}

	for {
		pageDone := !cutoff.IsZero() && len(page.Tracks) > 0

		for _, saved := range page.Tracks {
			lt := convertSaved(saved)
			tracks = append(tracks, lt)

			if lt.LikedAt.IsZero() || !lt.LikedAt.Before(cutoff) {
				pageDone = false
			}
		}

		if pageDone {
			s.logger.Debug("reached cutoff, stopping pagination",
				"fetched", len(tracks), "cutoff", cutoff.Format("2006-01-02"))
			break
		}

		err = s.client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: paging liked tracks: %v", shared.ErrAPIRequest, err)
		}
	}

	return tracks, nil
}

// Playlists returns the playlists owned by the current user. Followed
// playlists belong to other users and are never sync targets.
func (s *SpotifyService) Playlists(ctx context.Context) ([]Playlist, error) {
	userID, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	var playlists []Playlist

	page, err := s.client.CurrentUsersPlaylists(ctx, spotify.Limit(pageSize))
	if err != nil {
		return nil, fmt.Errorf("%w: fetching playlists: %v", shared.ErrAPIRequest, err)
	}

	for {
		for _, pl := range page.Playlists {
			if pl.Owner.ID != userID {
				continue
			}

			playlists = append(playlists, Playlist{
				ID:         string(pl.ID),
				Name:       pl.Name,
				TrackCount: int(pl.Tracks.Total),
				Public:     pl.IsPublic,
			})
		}

		err = s.client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: paging playlists: %v", shared.ErrAPIRequest, err)
		}
	}

	return playlists, nil
}

// PlaylistTracks returns the tracks currently in a playlist. Podcast
// episodes and local files carry no track object and are skipped.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, playlistID string) ([]Track, error) {
	var tracks []Track

	page, err := s.client.GetPlaylistItems(ctx, spotify.ID(playlistID), spotify.Limit(pageSize))
	if err != nil {
		return nil, fmt.Errorf("%w: fetching playlist %s: %v", shared.ErrAPIRequest, playlistID, err)
	}

	for {
		for _, item := range page.Items {
			if item.Track.Track == nil {
				continue
			}

			tracks = append(tracks, convertFull(item.Track.Track))
		}

		err = s.client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: paging playlist %s: %v", shared.ErrAPIRequest, playlistID, err)
		}
	}

	return tracks, nil
}

func (s *SpotifyService) CreatePlaylist(ctx context.Context, name, description string, public bool) (Playlist, error) {
	userID, err := s.CurrentUser(ctx)
	if err != nil {
		return Playlist{}, err
	}

	pl, err := s.client.CreatePlaylistForUser(ctx, userID, name, description, public, false)
	if err != nil {
		return Playlist{}, fmt.Errorf("%w: creating playlist %q: %v", shared.ErrAPIRequest, name, err)
	}

	s.logger.Info("created playlist", "name", name, "id", pl.ID, "public", public)

	return Playlist{
		ID:     string(pl.ID),
		Name:   pl.Name,
		Public: pl.IsPublic,
	}, nil
}

func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	for _, batch := range batchIDs(trackIDs) {
		if _, err := s.client.AddTracksToPlaylist(ctx, spotify.ID(playlistID), batch...); err != nil {
			return fmt.Errorf("%w: adding %d tracks to %s: %v", shared.ErrAPIRequest, len(batch), playlistID, err)
		}
	}

	return nil
}

func (s *SpotifyService) RemoveTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	for _, batch := range batchIDs(trackIDs) {
		if _, err := s.client.RemoveTracksFromPlaylist(ctx, spotify.ID(playlistID), batch...); err != nil {
			return fmt.Errorf("%w: removing %d tracks from %s: %v", shared.ErrAPIRequest, len(batch), playlistID, err)
		}
	}

	return nil
}

// batchIDs splits trackIDs into chunks of at most batchSize.
func batchIDs(trackIDs []string) [][]spotify.ID {
	var batches [][]spotify.ID

	for start := 0; start < len(trackIDs); start += batchSize {
		end := min(start+batchSize, len(trackIDs))

		batch := make([]spotify.ID, 0, end-start)
		for _, id := range trackIDs[start:end] {
			batch = append(batch, spotify.ID(id))
		}

		batches = append(batches, batch)
	}

	return batches
}

func convertSaved(saved spotify.SavedTrack) LikedTrack {
	likedAt, err := time.Parse(time.RFC3339, saved.AddedAt)
	if err != nil {
		likedAt = time.Time{}
	}

	return LikedTrack{
		Track:   convertFull(&saved.FullTrack),
		LikedAt: likedAt,
	}
}

func convertFull(track *spotify.FullTrack) Track {
	artist := ""
	if len(track.Artists) > 0 {
		artist = track.Artists[0].Name
	}

	return Track{
		ID:     string(track.ID),
		Title:  track.Name,
		Artist: artist,
	}
}
