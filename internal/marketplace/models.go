package marketplace

import (
	"time"

	id "pulsemarket/pkg/domain"
)

// Listing is a verified business as presented to lenders. Listings are
// maintained by score commits; only verified businesses appear.
type Listing struct {
	BusinessID     id.BusinessID
	Name           string
	Industry       string
	Address        string
	EmployeeCount  int
	PulseScore     int
	ProfitScore    int
	ProfitComputed bool
	RiskLabel      string
	LastUpdated    time.Time
}

// Query carries browse filters and pagination state. A non-empty
// SnapshotToken pins the result set to a previously captured snapshot.
type Query struct {
	Industry       string
	MinPulseScore  int
	MinProfitScore int
	Page           int
	PageSize       int
	SnapshotToken  string
}

// Facets summarize the filtered result set before pagination.
type Facets struct {
	Industries  map[string]int `json:"industries"`
	ScoreRanges map[string]int `json:"score_ranges"`
}

// Page is one page of browse results plus the snapshot token that pins
// subsequent pages to the same result set.
type Page struct {
	Listings      []Listing
	Total         int
	Facets        Facets
	PageNumber    int
	PageSize      int
	SnapshotToken string
	HasMore       bool
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Normalize applies pagination defaults and bounds.
func (q *Query) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
}
