// package months defines the calendar-month key used to group liked tracks,
// along with parsing of user-supplied month selectors and playlist name
// rendering/recognition.
//
// A [Key] is a plain comparable value so grouping and sorting stay independent
// of display formatting.
package months

import (
	"fmt"
	"sort"
	"time"
)

// Key identifies a calendar month. The zero value is not a valid month.
type Key struct {
	Year  int
	Month time.Month
}

// KeyOf returns the Key for the month containing t, evaluated in t's location.
func KeyOf(t time.Time) Key {
	return Key{Year: t.Year(), Month: t.Month()}
}

// IsZero reports whether k is the zero Key.
func (k Key) IsZero() bool {
	return k.Year == 0 && k.Month == 0
}

// Before reports whether k is strictly earlier than other in calendar order.
func (k Key) Before(other Key) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// Next returns the month immediately after k.
func (k Key) Next() Key {
	if k.Month == time.December {
		return Key{Year: k.Year + 1, Month: time.January}
	}
	return Key{Year: k.Year, Month: k.Month + 1}
}

// Time returns midnight UTC on the first day of the month.
func (k Key) Time() time.Time {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC)
}

// String formats the key as "YYYY-MM".
func (k Key) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Sort orders keys chronologically in place.
func Sort(keys []Key) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
}

// Oldest returns the earliest key in keys, or a zero Key for an empty slice.
func Oldest(keys []Key) Key {
	var oldest Key
	for _, k := range keys {
		if oldest.IsZero() || k.Before(oldest) {
			oldest = k
		}
	}
	return oldest
}
