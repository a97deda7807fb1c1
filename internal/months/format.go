package months

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/itchyny/timefmt-go"
)

// DefaultPlaylistFormat renders March 2025 as "[2025] March".
const DefaultPlaylistFormat = "[%Y] %B"

// FormatName renders a playlist display name for the month using a
// strftime-style template, evaluated on the first day of the month.
func FormatName(k Key, layout string) string {
	return timefmt.Format(k.Time(), layout)
}

// Playlist name patterns, most specific first. Recognition is deliberately
// generous: the user's existing playlists may predate the current
// playlist_format setting.
var playlistNameRes = []*regexp.Regexp{
	regexp.MustCompile(`\[(\d{4})\]\s*([a-zA-Z]+)`), // [2025] March
	regexp.MustCompile(`([a-zA-Z]+)\s+(\d{4})`),     // March 2025
	regexp.MustCompile(`(\d{4})[/\-]\s*([a-zA-Z]+)`), // 2025/March
	regexp.MustCompile(`(\d{1,2})[/\-\s]+(\d{4})`),  // 03-2025
	regexp.MustCompile(`(\d{4})[/\-](\d{1,2})`),     // 2025-03
}

// FromPlaylistName extracts the month a playlist name refers to.
//
// Returns false when the name does not look like a monthly playlist.
func FromPlaylistName(name string) (Key, bool) {
	for _, re := range playlistNameRes {
		m := re.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if k, ok := keyFromGroups(m[1], m[2]); ok {
			return k, true
		}
	}
	return Key{}, false
}

// keyFromGroups decides which captured group is the year and which the month.
func keyFromGroups(a, b string) (Key, bool) {
	yearOf := func(s string) (int, bool) {
		if len(s) != 4 {
			return 0, false
		}
		y, err := strconv.Atoi(s)
		return y, err == nil
	}
	monthOf := func(s string) (int, bool) {
		if n, err := strconv.Atoi(s); err == nil {
			return n, n >= 1 && n <= 12
		}
		if m, ok := monthNames[strings.ToLower(s)]; ok {
			return int(m), true
		}
		return 0, false
	}

	if y, ok := yearOf(a); ok {
		if m, ok := monthOf(b); ok {
			return Key{Year: y, Month: time.Month(m)}, true
		}
		return Key{}, false
	}
	if y, ok := yearOf(b); ok {
		if m, ok := monthOf(a); ok {
			return Key{Year: y, Month: time.Month(m)}, true
		}
	}
	return Key{}, false
}
