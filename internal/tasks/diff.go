package tasks

import (
	"sort"

	"github.com/samber/lo"

	"monthlify/internal/months"
	"monthlify/internal/services"
)

// Diff describes what must change for one month's playlist to match the
// tracks liked during that month.
type Diff struct {
	Month    months.Key
	Name     string
	Playlist *services.Playlist // nil when the playlist does not exist yet
	Desired  int
	ToAdd    []services.Track
	ToRemove []services.Track
}

// InSync reports whether the playlist already matches the liked set.
func (d Diff) InSync() bool {
	return d.Playlist != nil && len(d.ToAdd) == 0 && len(d.ToRemove) == 0
}

// ComputeDiff compares the tracks liked during a month against the current
// playlist contents. Membership is decided by track ID only; the same track
// liked twice counts once.
func ComputeDiff(month months.Key, name string, playlist *services.Playlist, liked []services.LikedTrack, current []services.Track) Diff {
	desired := lo.UniqBy(lo.Map(liked, func(lt services.LikedTrack, _ int) services.Track {
		return lt.Track
	}), trackID)

	currentIDs := lo.SliceToMap(current, func(t services.Track) (string, bool) {
		return t.ID, true
	})
	desiredIDs := lo.SliceToMap(desired, func(t services.Track) (string, bool) {
		return t.ID, true
	})

	toAdd := lo.Filter(desired, func(t services.Track, _ int) bool {
		return !currentIDs[t.ID]
	})
	toRemove := lo.Filter(lo.UniqBy(current, trackID), func(t services.Track, _ int) bool {
		return !desiredIDs[t.ID]
	})

	sortTracks(toAdd)
	sortTracks(toRemove)

	return Diff{
		Month:    month,
		Name:     name,
		Playlist: playlist,
		Desired:  len(desired),
		ToAdd:    toAdd,
		ToRemove: toRemove,
	}
}

func trackID(t services.Track) string {
	return t.ID
}

// sortTracks orders tracks by title, then ID, for stable output.
func sortTracks(tracks []services.Track) {
	sort.Slice(tracks, func(i, j int) bool {
		if tracks[i].Title != tracks[j].Title {
			return tracks[i].Title < tracks[j].Title
		}
		return tracks[i].ID < tracks[j].ID
	})
}
