// package tasks implements the monthly playlist sync pipeline.
//
// The core abstraction is SyncEngine, which builds a plan describing how each
// monthly playlist differs from the liked songs of that month, and applies a
// plan against the streaming service. Operations emit progress updates via
// channels for non-blocking status reporting to the CLI layer.
package tasks

import (
	"context"
	"fmt"

	"monthlify/internal/months"
	"monthlify/internal/services"
	"monthlify/internal/shared"
)

// PlanOptions controls how a sync plan is built.
type PlanOptions struct {
	// Months restricts the plan to these months. Empty means every month
	// that has liked tracks.
	Months []months.Key
	// PlaylistFormat is the strftime layout for playlist names.
	PlaylistFormat string
}

// Plan describes the work needed to bring monthly playlists in line with the
// liked library. A plan is inert; nothing is modified until Apply.
type Plan struct {
	Diffs         []Diff
	TotalLiked    int
	SkippedTracks int
}

// InSync reports whether applying the plan would be a no-op.
func (p *Plan) InSync() bool {
	for _, d := range p.Diffs {
		if d.InSync() {
			continue
		}
		if d.Playlist == nil && d.Desired == 0 {
			continue
		}
		return false
	}
	return true
}

// ApplyOptions controls how a plan is applied.
type ApplyOptions struct {
	// Public creates new playlists as public instead of private.
	Public bool
}

// MonthResult records the outcome of applying one month's diff.
type MonthResult struct {
	Month   months.Key
	Name    string
	Created bool
	Added   int
	Removed int
	Err     error
}

// ApplyResult aggregates per-month outcomes. Failed months do not stop the
// run; each month is applied independently.
type ApplyResult struct {
	Results []MonthResult
}

// Failed returns the number of months that could not be fully applied.
func (r *ApplyResult) Failed() int {
	count := 0
	for _, res := range r.Results {
		if res.Err != nil {
			count++
		}
	}
	return count
}

// Added returns the total number of tracks added across all months.
func (r *ApplyResult) Added() int {
	total := 0
	for _, res := range r.Results {
		total += res.Added
	}
	return total
}

// Removed returns the total number of tracks removed across all months.
func (r *ApplyResult) Removed() int {
	total := 0
	for _, res := range r.Results {
		total += res.Removed
	}
	return total
}

// SyncEngine defines the two halves of a sync run.
type SyncEngine interface {
	// Plan fetches liked tracks and existing playlists and computes the
	// per-month diffs. Plan never modifies the service.
	Plan(ctx context.Context, progress chan<- ProgressUpdate, opts PlanOptions) (*Plan, error)

	// Apply executes a plan month by month, creating playlists and adding
	// and removing tracks. Months are applied best-effort.
	Apply(ctx context.Context, progress chan<- ProgressUpdate, plan *Plan, opts ApplyOptions) (*ApplyResult, error)
}

// MonthlyEngine implements SyncEngine against a LibraryService.
type MonthlyEngine struct {
	service services.LibraryService
}

// NewMonthlyEngine creates an engine bound to a service.
func NewMonthlyEngine(service services.LibraryService) *MonthlyEngine {
	return &MonthlyEngine{service: service}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *MonthlyEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Plan builds the sync plan.
func (e *MonthlyEngine) Plan(ctx context.Context, progress chan<- ProgressUpdate, opts PlanOptions) (*Plan, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable)
	}

	layout := opts.PlaylistFormat
	if layout == "" {
		layout = months.DefaultPlaylistFormat
	}

	e.sendProgress(progress, fetchLikedUpdate(1, 3))

	liked, err := e.service.LikedTracks(ctx, months.Oldest(opts.Months))
	if err != nil {
		return nil, err
	}

	buckets := BucketByMonth(liked, opts.Months)
	e.sendProgress(progress, fetchedLikedUpdate(1, 3, len(liked)-buckets.Skipped, buckets.Skipped))

	e.sendProgress(progress, fetchPlaylistsUpdate(2, 3))

	playlists, err := e.service.Playlists(ctx)
	if err != nil {
		return nil, err
	}

	// Map existing playlists to months by recognizing month-shaped names.
	// The first playlist recognized for a month wins.
	byMonth := make(map[months.Key]services.Playlist)
	for _, pl := range playlists {
		key, ok := months.FromPlaylistName(pl.Name)
		if !ok {
			continue
		}
		if _, taken := byMonth[key]; !taken {
			byMonth[key] = pl
		}
	}

	keys := buckets.Months()
	plan := &Plan{
		TotalLiked:    len(liked),
		SkippedTracks: buckets.Skipped,
	}

	for i, key := range keys {
		name := months.FormatName(key, layout)

		var (
			playlist *services.Playlist
			current  []services.Track
		)

		if pl, ok := byMonth[key]; ok {
			playlist = &pl

			e.sendProgress(progress, fetchPlaylistTracksUpdate(i+1, len(keys), pl.Name))
			current, err = e.service.PlaylistTracks(ctx, pl.ID)
			if err != nil {
				return nil, err
			}

			// An existing playlist keeps its own name; only new
			// playlists use the configured layout.
			name = pl.Name
		}

		e.sendProgress(progress, compareUpdate(i+1, len(keys), key))
		plan.Diffs = append(plan.Diffs, ComputeDiff(key, name, playlist, buckets.Buckets[key], current))
	}

	return plan, nil
}

// Apply executes the plan. Each month is handled independently so one failed
// month does not abandon the rest; failures are recorded in the result.
func (e *MonthlyEngine) Apply(ctx context.Context, progress chan<- ProgressUpdate, plan *Plan, opts ApplyOptions) (*ApplyResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable)
	}

	result := &ApplyResult{}
	total := len(plan.Diffs)

	for i, diff := range plan.Diffs {
		res := MonthResult{Month: diff.Month, Name: diff.Name}

		// Months with nothing liked and no playlist have nothing to do;
		// creating an empty playlist would just add clutter.
		if diff.Playlist == nil && diff.Desired == 0 {
			result.Results = append(result.Results, res)
			continue
		}

		res.Err = e.applyMonth(ctx, progress, i+1, total, diff, opts, &res)
		result.Results = append(result.Results, res)
	}

	return result, nil
}

func (e *MonthlyEngine) applyMonth(ctx context.Context, progress chan<- ProgressUpdate, step, total int, diff Diff, opts ApplyOptions, res *MonthResult) error {
	playlist := diff.Playlist

	if playlist == nil {
		e.sendProgress(progress, createPlaylistUpdate(step, total, diff.Name))

		created, err := e.service.CreatePlaylist(ctx, diff.Name, playlistDescription(diff.Name), opts.Public)
		if err != nil {
			return err
		}

		playlist = &created
		res.Created = true
	}

	if len(diff.ToAdd) > 0 {
		e.sendProgress(progress, addTracksUpdate(step, total, len(diff.ToAdd), *playlist))

		if err := e.service.AddTracks(ctx, playlist.ID, trackIDs(diff.ToAdd)); err != nil {
			return err
		}
		res.Added = len(diff.ToAdd)
	}

	if len(diff.ToRemove) > 0 {
		e.sendProgress(progress, removeTracksUpdate(step, total, len(diff.ToRemove), *playlist))

		if err := e.service.RemoveTracks(ctx, playlist.ID, trackIDs(diff.ToRemove)); err != nil {
			return err
		}
		res.Removed = len(diff.ToRemove)
	}

	return nil
}

func playlistDescription(name string) string {
	return fmt.Sprintf("Songs liked during %s", name)
}

func trackIDs(tracks []services.Track) []string {
	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	return ids
}
