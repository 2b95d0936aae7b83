package handler

import (
	"time"

	"pulsemarket/internal/marketplace"
)

// ListingResponse is the wire form of one marketplace listing.
type ListingResponse struct {
	BusinessID     string    `json:"business_id"`
	Name           string    `json:"name"`
	Industry       string    `json:"industry"`
	Address        string    `json:"address,omitempty"`
	EmployeeCount  int       `json:"employee_count"`
	PulseScore     int       `json:"pulse_score"`
	ProfitScore    int       `json:"profit_score"`
	ProfitComputed bool      `json:"profit_computed"`
	RiskLabel      string    `json:"risk_label"`
	LastUpdated    time.Time `json:"last_updated"`
}

func FromListing(listing marketplace.Listing) ListingResponse {
	return ListingResponse{
		BusinessID:     listing.BusinessID.String(),
		Name:           listing.Name,
		Industry:       listing.Industry,
		Address:        listing.Address,
		EmployeeCount:  listing.EmployeeCount,
		PulseScore:     listing.PulseScore,
		ProfitScore:    listing.ProfitScore,
		ProfitComputed: listing.ProfitComputed,
		RiskLabel:      listing.RiskLabel,
		LastUpdated:    listing.LastUpdated,
	}
}

// PageResponse is one page of browse results.
type PageResponse struct {
	Listings      []ListingResponse  `json:"listings"`
	Total         int                `json:"total"`
	Facets        marketplace.Facets `json:"facets"`
	Page          int                `json:"page"`
	PageSize      int                `json:"page_size"`
	SnapshotToken string             `json:"snapshot_token"`
	HasMore       bool               `json:"has_more"`
}

func FromPage(page *marketplace.Page) PageResponse {
	listings := make([]ListingResponse, 0, len(page.Listings))
	for _, listing := range page.Listings {
		listings = append(listings, FromListing(listing))
	}
	return PageResponse{
		Listings:      listings,
		Total:         page.Total,
		Facets:        page.Facets,
		Page:          page.PageNumber,
		PageSize:      page.PageSize,
		SnapshotToken: page.SnapshotToken,
		HasMore:       page.HasMore,
	}
}
