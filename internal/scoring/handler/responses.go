package handler

import (
	"time"

	"pulsemarket/internal/scoring"
)

// ScoreResponse is the wire form of a committed score.
type ScoreResponse struct {
	BusinessID     string         `json:"business_id"`
	PulseScore     int            `json:"pulse_score"`
	ProfitScore    int            `json:"profit_score"`
	ProfitComputed bool           `json:"profit_computed"`
	Status         string         `json:"status"`
	FailureReason  string         `json:"failure_reason,omitempty"`
	RiskLabel      string         `json:"risk_label"`
	Breakdown      map[string]int `json:"breakdown"`
	LastUpdated    time.Time      `json:"last_updated"`
}

func FromRecord(record *scoring.ScoreRecord) ScoreResponse {
	return ScoreResponse{
		BusinessID:     record.BusinessID.String(),
		PulseScore:     record.PulseScore,
		ProfitScore:    record.ProfitScore,
		ProfitComputed: record.ProfitComputed,
		Status:         string(record.Status),
		FailureReason:  record.FailureReason,
		RiskLabel:      scoring.RiskLabel(record.PulseScore),
		Breakdown:      record.Breakdown,
		LastUpdated:    record.LastUpdated,
	}
}
