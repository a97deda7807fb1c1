package months

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"monthlify/internal/shared"
)

// monthNames maps lowercase full month names and three-letter abbreviations to
// their month number. "sept" is included because people type it.
var monthNames = buildMonthNames()

func buildMonthNames() map[string]time.Month {
	names := make(map[string]time.Month, 25)
	for m := time.January; m <= time.December; m++ {
		full := strings.ToLower(m.String())
		names[full] = m
		names[full[:3]] = m
	}
	names["sept"] = time.September
	return names
}

var (
	yearMonthRe = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})$`)  // 2025-03, 2025/3
	monthYearRe = regexp.MustCompile(`^(\d{1,2})[-/](\d{4})$`)  // 03-2025
	shortYearRe = regexp.MustCompile(`^(\d{1,2})[-/](\d{2})$`)  // 03-25
)

// ParseSelector parses a single month or an inclusive range into the list of
// months it covers.
//
// Accepted single forms: "March 2025", "mar 2025", "march 25", "2025-03",
// "2025/3", "03-2025", "03-25". Ranges join two single forms with " - ":
// "Oct 2023 - Mar 2024". Malformed selectors are an error; the caller is
// expected to fail fast before touching the network.
func ParseSelector(s string) ([]Key, error) {
	if start, end, ok := strings.Cut(s, " - "); ok {
		from, err := parseSingle(strings.TrimSpace(start))
		if err != nil {
			return nil, fmt.Errorf("%w: bad range %q: %v", shared.ErrInvalidSelector, s, err)
		}
		to, err := parseSingle(strings.TrimSpace(end))
		if err != nil {
			return nil, fmt.Errorf("%w: bad range %q: %v", shared.ErrInvalidSelector, s, err)
		}
		if to.Before(from) {
			return nil, fmt.Errorf("%w: range %q starts after it ends", shared.ErrInvalidSelector, s)
		}

		var keys []Key
		for k := from; !to.Before(k); k = k.Next() {
			keys = append(keys, k)
		}
		return keys, nil
	}

	k, err := parseSingle(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidSelector, err)
	}
	return []Key{k}, nil
}

// ParseSelectors parses every selector and returns the union of months,
// deduplicated and sorted chronologically.
func ParseSelectors(selectors []string) ([]Key, error) {
	seen := make(map[Key]bool)
	var keys []Key

	for _, s := range selectors {
		parsed, err := ParseSelector(s)
		if err != nil {
			return nil, err
		}
		for _, k := range parsed {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}

	Sort(keys)
	return keys, nil
}

func parseSingle(s string) (Key, error) {
	if s == "" {
		return Key{}, fmt.Errorf("empty month selector")
	}

	if m := yearMonthRe.FindStringSubmatch(s); m != nil {
		return numericKey(m[2], m[1])
	}
	if m := monthYearRe.FindStringSubmatch(s); m != nil {
		return numericKey(m[1], m[2])
	}
	if m := shortYearRe.FindStringSubmatch(s); m != nil {
		return numericKey(m[1], m[2])
	}

	// Name forms: "March 2025", "mar 25".
	fields := strings.Fields(s)
	if len(fields) == 2 {
		month, ok := monthNames[strings.ToLower(fields[0])]
		if ok {
			year, err := parseYear(fields[1])
			if err != nil {
				return Key{}, err
			}
			return Key{Year: year, Month: month}, nil
		}
	}

	return Key{}, fmt.Errorf("could not parse %q as a month/year; try formats like 'March 2025', '03-25', '2024-03'", s)
}

func numericKey(monthStr, yearStr string) (Key, error) {
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return Key{}, fmt.Errorf("month %q out of range 1-12", monthStr)
	}
	year, err := parseYear(yearStr)
	if err != nil {
		return Key{}, err
	}
	return Key{Year: year, Month: time.Month(month)}, nil
}

// parseYear accepts four-digit years as-is and two-digit years as 2000-2099.
func parseYear(s string) (int, error) {
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	switch {
	case len(s) == 4:
		return year, nil
	case len(s) <= 2:
		return 2000 + year, nil
	default:
		return 0, fmt.Errorf("invalid year %q", s)
	}
}
