package extract

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// maxExperienceYears caps the estimate; anything above it is a parsing
// artifact, not a career.
const maxExperienceYears = 50.0

var (
	// "jan 2019 - mar 2022", "february 2021 – present"
	monthRangeRe = regexp.MustCompile(`([a-z]{3,9}\s+\d{4})\s*[-–—]\s*(present|now|current|[a-z]{3,9}\s+\d{4})`)
	// "2018-2021", "2020 – present"
	yearRangeRe  = regexp.MustCompile(`(\d{4})\s*[-–—]\s*(present|now|current|\d{4})`)
	monthYearRe  = regexp.MustCompile(`^([a-z]{3,9})\s+(\d{4})$`)
	openEndedSet = map[string]struct{}{"present": {}, "now": {}, "current": {}}
)

var monthIndex = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

type dateRange struct {
	start time.Time
	end   time.Time
}

// experienceYears estimates cumulative professional experience from date
// ranges in the text. Overlapping ranges are merged before summing, since a
// candidate may list the same role under several headings. Text with no
// date-range patterns yields exactly 0.
func (e *Extractor) experienceYears(text string) float64 {
	now := e.now()
	var ranges []dateRange

	for _, m := range monthRangeRe.FindAllStringSubmatch(text, -1) {
		start, ok := parseMonthYear(m[1])
		if !ok {
			continue
		}
		end, ok := resolveEnd(m[2], now, parseMonthYear)
		if !ok || end.Before(start) {
			continue
		}
		ranges = append(ranges, dateRange{start: start, end: end})
	}

	for _, m := range yearRangeRe.FindAllStringSubmatch(text, -1) {
		startYear, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		start := time.Date(startYear, time.January, 1, 0, 0, 0, 0, time.UTC)
		end, ok := resolveEnd(m[2], now, parseYearEnd)
		if !ok || end.Before(start) {
			continue
		}
		ranges = append(ranges, dateRange{start: start, end: end})
	}

	if len(ranges) == 0 {
		return 0
	}

	total := 0.0
	for _, r := range mergeRanges(ranges) {
		total += r.end.Sub(r.start).Hours() / 24 / 365.25
	}
	return math.Round(math.Min(total, maxExperienceYears)*10) / 10
}

func resolveEnd(raw string, now time.Time, parse func(string) (time.Time, bool)) (time.Time, bool) {
	if _, open := openEndedSet[raw]; open {
		return now, true
	}
	return parse(raw)
}

// parseMonthYear parses "jan 2019" or "january 2019". Unrecognized month
// names fall back to January, matching the lenient contract of the rest of
// the extractor.
func parseMonthYear(s string) (time.Time, bool) {
	m := monthYearRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(m[2])
	if err != nil {
		return time.Time{}, false
	}
	month := time.January
	if len(m[1]) >= 3 {
		if idx, ok := monthIndex[m[1][:3]]; ok {
			month = idx
		}
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
}

// parseYearEnd treats a bare end year as running through December 31.
func parseYearEnd(s string) (time.Time, bool) {
	year, err := strconv.Atoi(s)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC), true
}

// mergeRanges unions overlapping or touching intervals so duplicate listings
// of the same role are never double-counted.
func mergeRanges(ranges []dateRange) []dateRange {
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].start.Before(ranges[j].start) })

	merged := []dateRange{ranges[0]}
	for _, cur := range ranges[1:] {
		last := &merged[len(merged)-1]
		if !cur.start.After(last.end) {
			if cur.end.After(last.end) {
				last.end = cur.end
			}
			continue
		}
		merged = append(merged, cur)
	}
	return merged
}
