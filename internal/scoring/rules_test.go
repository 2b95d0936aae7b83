package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allPassing() Verdicts {
	return Verdicts{
		DocumentVerified:  true,
		VideoVerified:     true,
		BankMatch:         true,
		ProfileConsistent: true,
		FinancialSignal:   50,
		HasBankSignal:     true,
	}
}

func TestComputeScore_AllChannelsVerified(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	record := ComputeScore(allPassing(), nil, 100, now)

	assert.Equal(t, 87, record.PulseScore)
	assert.Equal(t, StatusVerified, record.Status)
	assert.Empty(t, record.FailureReason)
	assert.True(t, record.ProfitComputed)
	assert.Equal(t, 50, record.ProfitScore)
	assert.Equal(t, now, record.LastUpdated)

	assert.Equal(t, map[string]int{
		ComponentDocument: 25,
		ComponentVideo:    22,
		ComponentBank:     20,
		ComponentProfile:  20,
		ComponentReserved: 0,
	}, record.Breakdown)
}

func TestComputeScore_SingleMissingComponentFails(t *testing.T) {
	verdicts := allPassing()
	verdicts.VideoVerified = false

	record := ComputeScore(verdicts, nil, 100, time.Now())

	assert.Equal(t, 65, record.PulseScore)
	assert.Equal(t, StatusFailed, record.Status)
	assert.Equal(t, ComponentVideo, record.FailureReason)
	assert.False(t, record.ProfitComputed)
}

func TestComputeScore_FailureReasonListsAllLowestInWeightOrder(t *testing.T) {
	verdicts := Verdicts{DocumentVerified: true}

	record := ComputeScore(verdicts, nil, 100, time.Now())

	assert.Equal(t, 25, record.PulseScore)
	assert.Equal(t, StatusFailed, record.Status)
	assert.Equal(t, "video,bank_match,profile_consistency", record.FailureReason)
}

func TestComputeScore_NothingVerified(t *testing.T) {
	record := ComputeScore(Verdicts{}, nil, 100, time.Now())

	assert.Equal(t, 0, record.PulseScore)
	assert.Equal(t, StatusFailed, record.Status)
	assert.Equal(t, "document,video,bank_match,profile_consistency", record.FailureReason)
}

func TestComputeScore_FailedRunRetainsPriorProfitScore(t *testing.T) {
	prior := &ScoreRecord{ProfitScore: 61, ProfitComputed: true}
	verdicts := allPassing()
	verdicts.BankMatch = false

	record := ComputeScore(verdicts, prior, 100, time.Now())

	assert.Equal(t, StatusFailed, record.Status)
	assert.Equal(t, 61, record.ProfitScore)
	assert.False(t, record.ProfitComputed, "retained profit score must be marked stale")
}

func TestComputeScore_VerifiedWithoutBankSignalSkipsProfit(t *testing.T) {
	verdicts := allPassing()
	verdicts.HasBankSignal = false

	record := ComputeScore(verdicts, nil, 100, time.Now())

	assert.Equal(t, StatusVerified, record.Status)
	assert.False(t, record.ProfitComputed)
	assert.Zero(t, record.ProfitScore)
}

func TestComputeScore_ProfitScoreMapping(t *testing.T) {
	tests := []struct {
		name     string
		signal   float64
		scaleMax float64
		want     int
	}{
		{"zero signal", 0, 100, 0},
		{"negative signal", -5, 100, 0},
		{"midpoint", 50, 100, 50},
		{"at scale max", 100, 100, 100},
		{"above scale max", 250, 100, 100},
		{"rounded", 33.4, 100, 33},
		{"custom scale", 500, 1000, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdicts := allPassing()
			verdicts.FinancialSignal = tt.signal

			record := ComputeScore(verdicts, nil, tt.scaleMax, time.Now())

			require.Equal(t, StatusVerified, record.Status)
			assert.Equal(t, tt.want, record.ProfitScore)
		})
	}
}

func TestComputeScore_Deterministic(t *testing.T) {
	now := time.Now()
	verdicts := allPassing()

	first := ComputeScore(verdicts, nil, 100, now)
	second := ComputeScore(verdicts, nil, 100, now)

	assert.Equal(t, first, second)
}

func TestRiskLabel(t *testing.T) {
	assert.Equal(t, "low", RiskLabel(81))
	assert.Equal(t, "low", RiskLabel(87))
	assert.Equal(t, "medium", RiskLabel(80))
	assert.Equal(t, "medium", RiskLabel(0))
}

func TestNameMatches(t *testing.T) {
	assert.True(t, nameMatches("Lagos Textiles Ltd", "lagos textiles ltd"))
	assert.True(t, nameMatches("  Lagos Textiles Ltd  ", "Lagos Textiles Ltd"))
	assert.False(t, nameMatches("Lagos Textiles Ltd", "Abuja Textiles Ltd"))
	assert.False(t, nameMatches("", "Lagos Textiles Ltd"))
	assert.False(t, nameMatches("Lagos Textiles Ltd", ""))
	assert.False(t, nameMatches("", ""))
}
