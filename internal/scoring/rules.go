package scoring

import (
	"math"
	"strings"
	"time"
)

// ComputeScore turns oracle verdicts into a ScoreRecord.
// This is pure domain logic - no I/O, no side effects. Identical
// verdicts always reproduce identical output.
//
// Weight table: document 25, video 22, bank match 20, profile
// consistency 20; 13 points reserved for future signals. Missing or
// unverified channels contribute 0 (explicit zero-credit policy).
func ComputeScore(verdicts Verdicts, prior *ScoreRecord, profitScaleMax float64, evalTime time.Time) ScoreRecord {
	breakdown := make(map[string]int, len(weightTable)+1)
	sum := 0
	for _, c := range weightTable {
		earned := 0
		if componentEarned(c.name, verdicts) {
			earned = c.weight
		}
		breakdown[c.name] = earned
		sum += earned
	}
	breakdown[ComponentReserved] = 0

	record := ScoreRecord{
		PulseScore: clamp(sum, 0, 100),
		Breakdown:  breakdown,
	}

	if record.PulseScore >= VerificationThreshold {
		record.Status = StatusVerified
		if verdicts.HasBankSignal {
			record.ProfitScore = profitScore(verdicts.FinancialSignal, profitScaleMax)
			record.ProfitComputed = true
		}
	} else {
		record.Status = StatusFailed
		record.FailureReason = failureReason(breakdown)
		// Profit score keeps its previous value but is marked stale.
		if prior != nil {
			record.ProfitScore = prior.ProfitScore
		}
	}

	record.LastUpdated = evalTime
	return record
}

func componentEarned(name string, verdicts Verdicts) bool {
	switch name {
	case ComponentDocument:
		return verdicts.DocumentVerified
	case ComponentVideo:
		return verdicts.VideoVerified
	case ComponentBank:
		return verdicts.BankMatch
	case ComponentProfile:
		return verdicts.ProfileConsistent
	}
	return false
}

// failureReason names every component at the minimum earned value,
// comma-joined in weight table order.
func failureReason(breakdown map[string]int) string {
	minValue := math.MaxInt
	for _, c := range weightTable {
		if breakdown[c.name] < minValue {
			minValue = breakdown[c.name]
		}
	}

	var lowest []string
	for _, c := range weightTable {
		if breakdown[c.name] == minValue {
			lowest = append(lowest, c.name)
		}
	}
	return strings.Join(lowest, ",")
}

// profitScore maps the bank financial signal linearly into [0,100]:
// signal <= 0 scores 0, signal >= scaleMax scores 100.
func profitScore(signal, scaleMax float64) int {
	if signal <= 0 {
		return 0
	}
	if signal >= scaleMax {
		return 100
	}
	return int(math.Round(signal / scaleMax * 100))
}

func clamp(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

// nameMatches compares the bank account holder name against the
// declared business name, ignoring case and surrounding whitespace.
func nameMatches(accountHolder, businessName string) bool {
	a := strings.TrimSpace(accountHolder)
	b := strings.TrimSpace(businessName)
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}
