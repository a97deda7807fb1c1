// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"monthlify/internal/months"
	"monthlify/internal/services"
)

// MockService is a configurable, stateful test double for
// [services.LibraryService]. Write operations mutate the in-memory state so
// tests can verify convergence across repeated runs.
type MockService struct {
	UserID string
	Liked  []services.LikedTrack

	// PlaylistList holds the playlists the mock reports; TrackLists maps
	// playlist ID to its contents.
	PlaylistList []services.Playlist
	TrackLists   map[string][]services.Track

	// Err, when set, is returned by every operation.
	Err error

	// FailCreate maps playlist names to an error CreatePlaylist returns
	// for just that name; FailAdd does the same for AddTracks, keyed by
	// playlist ID. Other months proceed normally, which lets tests
	// exercise partial failures.
	FailCreate map[string]error
	FailAdd    map[string]error

	// CreateCalls, AddCalls, and RemoveCalls count write operations.
	CreateCalls int
	AddCalls    int
	RemoveCalls int

	nextID int
}

var _ services.LibraryService = (*MockService)(nil)

func (m *MockService) Name() string { return "mock" }

func (m *MockService) CurrentUser(ctx context.Context) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if m.UserID == "" {
		return "mock-user", nil
	}
	return m.UserID, nil
}

func (m *MockService) LikedTracks(ctx context.Context, oldest months.Key) ([]services.LikedTrack, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Liked, nil
}

func (m *MockService) Playlists(ctx context.Context) ([]services.Playlist, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.PlaylistList, nil
}

func (m *MockService) PlaylistTracks(ctx context.Context, playlistID string) ([]services.Track, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.TrackLists == nil {
		return nil, nil
	}
	return m.TrackLists[playlistID], nil
}

func (m *MockService) CreatePlaylist(ctx context.Context, name, description string, public bool) (services.Playlist, error) {
	m.CreateCalls++
	if m.Err != nil {
		return services.Playlist{}, m.Err
	}
	if err, ok := m.FailCreate[name]; ok {
		return services.Playlist{}, err
	}

	m.nextID++
	pl := services.Playlist{
		ID:     fmt.Sprintf("mock-playlist-%d", m.nextID),
		Name:   name,
		Public: public,
	}

	m.PlaylistList = append(m.PlaylistList, pl)
	if m.TrackLists == nil {
		m.TrackLists = make(map[string][]services.Track)
	}
	m.TrackLists[pl.ID] = nil

	return pl, nil
}

func (m *MockService) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	m.AddCalls++
	if m.Err != nil {
		return m.Err
	}
	if err, ok := m.FailAdd[playlistID]; ok {
		return err
	}
	if m.TrackLists == nil {
		m.TrackLists = make(map[string][]services.Track)
	}

	for _, id := range trackIDs {
		m.TrackLists[playlistID] = append(m.TrackLists[playlistID], m.lookupTrack(id))
	}
	return nil
}

func (m *MockService) RemoveTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	m.RemoveCalls++
	if m.Err != nil {
		return m.Err
	}

	remove := make(map[string]bool, len(trackIDs))
	for _, id := range trackIDs {
		remove[id] = true
	}

	var kept []services.Track
	for _, track := range m.TrackLists[playlistID] {
		if !remove[track.ID] {
			kept = append(kept, track)
		}
	}
	m.TrackLists[playlistID] = kept
	return nil
}

// lookupTrack resolves an ID against the liked library, falling back to a
// bare track so adds of unknown IDs still show up.
func (m *MockService) lookupTrack(id string) services.Track {
	for _, lt := range m.Liked {
		if lt.ID == id {
			return lt.Track
		}
	}
	return services.Track{ID: id}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
