package tasks

import (
	"monthlify/internal/months"
	"monthlify/internal/services"
)

// BucketResult groups liked tracks by the month they were liked in.
type BucketResult struct {
	Buckets map[months.Key][]services.LikedTrack
	// Skipped counts tracks dropped for lacking a usable timestamp.
	Skipped int
}

// Months returns the bucket keys, oldest first.
func (r BucketResult) Months() []months.Key {
	keys := make([]months.Key, 0, len(r.Buckets))
	for k := range r.Buckets {
		keys = append(keys, k)
	}

	months.Sort(keys)
	return keys
}

// BucketByMonth groups tracks by liked month. When filter is non-empty only
// those months are kept; a month present in filter but absent from the
// library still gets an empty bucket, so callers can report it as empty
// rather than silently dropping it. Tracks with a zero timestamp cannot be
// placed and are counted in Skipped.
func BucketByMonth(tracks []services.LikedTrack, filter []months.Key) BucketResult {
	result := BucketResult{
		Buckets: make(map[months.Key][]services.LikedTrack),
	}

	wanted := make(map[months.Key]bool, len(filter))
	for _, k := range filter {
		wanted[k] = true
		result.Buckets[k] = nil
	}

	for _, track := range tracks {
		if track.LikedAt.IsZero() {
			result.Skipped++
			continue
		}

		key := months.KeyOf(track.LikedAt)
		if len(wanted) > 0 && !wanted[key] {
			continue
		}

		result.Buckets[key] = append(result.Buckets[key], track)
	}

	return result
}
