package services

import (
	"testing"
	"time"

	"github.com/zmb3/spotify/v2"
)

func TestBatchIDs(t *testing.T) {
	makeIDs := func(n int) []string {
		ids := make([]string, n)
		for i := range ids {
			ids[i] = string(rune('a' + i%26))
		}
		return ids
	}

	tests := []struct {
		name        string
		count       int
		wantBatches int
		wantLast    int
	}{
		{name: "empty", count: 0, wantBatches: 0},
		{name: "single partial batch", count: 5, wantBatches: 1, wantLast: 5},
		{name: "exactly one batch", count: 100, wantBatches: 1, wantLast: 100},
		{name: "one over", count: 101, wantBatches: 2, wantLast: 1},
		{name: "several batches", count: 250, wantBatches: 3, wantLast: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches := batchIDs(makeIDs(tt.count))
			if len(batches) != tt.wantBatches {
				t.Fatalf("got %d batches, want %d", len(batches), tt.wantBatches)
			}
			if tt.wantBatches > 0 {
				if got := len(batches[len(batches)-1]); got != tt.wantLast {
					t.Errorf("last batch has %d ids, want %d", got, tt.wantLast)
				}
			}
			total := 0
			for _, batch := range batches {
				if len(batch) > batchSize {
					t.Errorf("batch exceeds limit: %d", len(batch))
				}
				total += len(batch)
			}
			if total != tt.count {
				t.Errorf("batches cover %d ids, want %d", total, tt.count)
			}
		})
	}
}

func TestConvertSaved(t *testing.T) {
	track := spotify.FullTrack{
		SimpleTrack: spotify.SimpleTrack{
			ID:   "track1",
			Name: "Song 1",
			Artists: []spotify.SimpleArtist{
				{Name: "Artist 1"},
				{Name: "Featured Artist"},
			},
		},
	}

	t.Run("parses the liked timestamp", func(t *testing.T) {
		saved := spotify.SavedTrack{AddedAt: "2025-03-05T12:30:00Z", FullTrack: track}

		got := convertSaved(saved)
		want := time.Date(2025, time.March, 5, 12, 30, 0, 0, time.UTC)
		if !got.LikedAt.Equal(want) {
			t.Errorf("LikedAt = %v, want %v", got.LikedAt, want)
		}
		if got.ID != "track1" || got.Title != "Song 1" {
			t.Errorf("track = %+v", got.Track)
		}
		if got.Artist != "Artist 1" {
			t.Errorf("Artist = %q, want the primary artist", got.Artist)
		}
	})

	t.Run("bad timestamp becomes zero time", func(t *testing.T) {
		saved := spotify.SavedTrack{AddedAt: "yesterday", FullTrack: track}

		got := convertSaved(saved)
		if !got.LikedAt.IsZero() {
			t.Errorf("LikedAt = %v, want zero", got.LikedAt)
		}
	})

	t.Run("missing artists is tolerated", func(t *testing.T) {
		bare := track
		bare.Artists = nil
		saved := spotify.SavedTrack{AddedAt: "2025-03-05T12:30:00Z", FullTrack: bare}

		if got := convertSaved(saved); got.Artist != "" {
			t.Errorf("Artist = %q, want empty", got.Artist)
		}
	})
}

func TestCallbackPath(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"http://127.0.0.1:8080/callback", "/callback"},
		{"http://localhost:9999/auth/done", "/auth/done"},
		{"", "/callback"},
		{"not a url at all\x7f", "/callback"},
	}

	for _, tt := range tests {
		if got := callbackPath(tt.uri); got != tt.want {
			t.Errorf("callbackPath(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}
