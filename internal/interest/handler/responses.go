package handler

import (
	"time"

	"pulsemarket/internal/interest"
)

// EdgeResponse is the wire form of one interest edge.
type EdgeResponse struct {
	LenderID   string    `json:"lender_id"`
	BusinessID string    `json:"business_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func FromEdge(edge interest.Edge) EdgeResponse {
	return EdgeResponse{
		LenderID:   edge.LenderID.String(),
		BusinessID: edge.BusinessID.String(),
		Status:     string(edge.Status),
		CreatedAt:  edge.CreatedAt,
		UpdatedAt:  edge.UpdatedAt,
	}
}

// ListResponse is a paginated edge listing.
type ListResponse struct {
	Interests []EdgeResponse `json:"interests"`
	Total     int            `json:"total"`
}

func FromEdges(edges []interest.Edge, total int) ListResponse {
	items := make([]EdgeResponse, 0, len(edges))
	for _, edge := range edges {
		items = append(items, FromEdge(edge))
	}
	return ListResponse{Interests: items, Total: total}
}

// DashboardResponse is the lender portfolio summary.
type DashboardResponse struct {
	PortfolioCounts map[string]int `json:"portfolio_counts"`
	TotalListings   int            `json:"total_listings"`
}

func FromDashboard(dashboard *interest.Dashboard) DashboardResponse {
	counts := make(map[string]int, len(dashboard.PortfolioCounts))
	for status, count := range dashboard.PortfolioCounts {
		counts[string(status)] = count
	}
	return DashboardResponse{
		PortfolioCounts: counts,
		TotalListings:   dashboard.TotalListings,
	}
}
