package marketplace

import (
	"sort"
)

// FilterAndRank applies query filters and the marketplace ordering:
// pulse score descending, ties broken by most recent update first.
// This is pure domain logic - no I/O, no side effects.
func FilterAndRank(listings []Listing, q Query) []Listing {
	filtered := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if q.Industry != "" && l.Industry != q.Industry {
			continue
		}
		if l.PulseScore < q.MinPulseScore {
			continue
		}
		if l.ProfitScore < q.MinProfitScore {
			continue
		}
		filtered = append(filtered, l)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].PulseScore != filtered[j].PulseScore {
			return filtered[i].PulseScore > filtered[j].PulseScore
		}
		return filtered[i].LastUpdated.After(filtered[j].LastUpdated)
	})
	return filtered
}

// BuildFacets summarizes the full filtered result set: industries
// present with their counts, and pulse score range buckets.
func BuildFacets(listings []Listing) Facets {
	facets := Facets{
		Industries:  make(map[string]int),
		ScoreRanges: make(map[string]int),
	}
	for _, l := range listings {
		if l.Industry != "" {
			facets.Industries[l.Industry]++
		}
		facets.ScoreRanges[scoreRange(l.PulseScore)]++
	}
	return facets
}

func scoreRange(pulse int) string {
	switch {
	case pulse > 90:
		return "90+"
	case pulse > 80:
		return "81-90"
	default:
		return "75-80"
	}
}

// Paginate slices one page out of the ranked set.
func Paginate(listings []Listing, page, pageSize int) (items []Listing, hasMore bool) {
	start := (page - 1) * pageSize
	if start >= len(listings) {
		return []Listing{}, false
	}
	end := start + pageSize
	if end > len(listings) {
		end = len(listings)
	}
	return listings[start:end], end < len(listings)
}
