package formatter

import (
	"monthlify/internal/services"
	"monthlify/internal/tasks"
)

// TrackDocument is the JSON shape for a single track.
type TrackDocument struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist,omitempty"`
}

// DiffDocument is the JSON shape for one month's diff.
type DiffDocument struct {
	Month    string          `json:"month"`
	Playlist string          `json:"playlist"`
	Exists   bool            `json:"exists"`
	InSync   bool            `json:"in_sync"`
	ToAdd    []TrackDocument `json:"to_add"`
	ToRemove []TrackDocument `json:"to_remove"`
}

// PlanDocument is the JSON shape for a full sync plan.
type PlanDocument struct {
	TotalLiked    int            `json:"total_liked"`
	SkippedTracks int            `json:"skipped_tracks,omitempty"`
	InSync        bool           `json:"in_sync"`
	Diffs         []DiffDocument `json:"diffs"`
}

// MonthResultDocument is the JSON shape for one applied month.
type MonthResultDocument struct {
	Month    string `json:"month"`
	Playlist string `json:"playlist"`
	Created  bool   `json:"created,omitempty"`
	Added    int    `json:"added"`
	Removed  int    `json:"removed"`
	Error    string `json:"error,omitempty"`
}

// ApplyDocument is the JSON shape for a full apply run.
type ApplyDocument struct {
	Added   int                   `json:"added"`
	Removed int                   `json:"removed"`
	Failed  int                   `json:"failed"`
	Results []MonthResultDocument `json:"results"`
}

// NewPlanDocument converts a plan into its JSON document form.
func NewPlanDocument(plan *tasks.Plan) PlanDocument {
	doc := PlanDocument{
		TotalLiked:    plan.TotalLiked,
		SkippedTracks: plan.SkippedTracks,
		InSync:        plan.InSync(),
		Diffs:         []DiffDocument{},
	}

	for _, diff := range plan.Diffs {
		doc.Diffs = append(doc.Diffs, DiffDocument{
			Month:    diff.Month.String(),
			Playlist: diff.Name,
			Exists:   diff.Playlist != nil,
			InSync:   diff.InSync(),
			ToAdd:    trackDocuments(diff.ToAdd),
			ToRemove: trackDocuments(diff.ToRemove),
		})
	}

	return doc
}

// NewApplyDocument converts an apply result into its JSON document form.
func NewApplyDocument(result *tasks.ApplyResult) ApplyDocument {
	doc := ApplyDocument{
		Added:   result.Added(),
		Removed: result.Removed(),
		Failed:  result.Failed(),
		Results: []MonthResultDocument{},
	}

	for _, res := range result.Results {
		item := MonthResultDocument{
			Month:    res.Month.String(),
			Playlist: res.Name,
			Created:  res.Created,
			Added:    res.Added,
			Removed:  res.Removed,
		}
		if res.Err != nil {
			item.Error = res.Err.Error()
		}
		doc.Results = append(doc.Results, item)
	}

	return doc
}

func trackDocuments(tracks []services.Track) []TrackDocument {
	docs := make([]TrackDocument, 0, len(tracks))
	for _, track := range tracks {
		docs = append(docs, TrackDocument{ID: track.ID, Title: track.Title, Artist: track.Artist})
	}
	return docs
}
