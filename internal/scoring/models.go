package scoring

import (
	"time"

	id "pulsemarket/pkg/domain"
)

// ScoreStatus is the outcome of the latest scoring run.
type ScoreStatus string

const (
	StatusPending  ScoreStatus = "pending"
	StatusVerified ScoreStatus = "verified"
	StatusFailed   ScoreStatus = "failed"
)

// VerificationThreshold is the minimum pulse score required for
// verified status and marketplace listing eligibility.
const VerificationThreshold = 75

// Score component names, also used as breakdown keys and in failure
// reasons. Order matters: failure reasons list components in weight
// table order.
const (
	ComponentDocument = "document"
	ComponentVideo    = "video"
	ComponentBank     = "bank_match"
	ComponentProfile  = "profile_consistency"
	ComponentReserved = "reserved"
)

// component pairs a name with its weight. The weight table is fixed:
// 25+22+20+20 earned, 13 reserved for future signals.
type component struct {
	name   string
	weight int
}

var weightTable = []component{
	{ComponentDocument, 25},
	{ComponentVideo, 22},
	{ComponentBank, 20},
	{ComponentProfile, 20},
}

const reservedPoints = 13

// ScoreRecord is the committed scoring outcome for one business.
// Overwritten in place on each run; the audit stream retains history.
type ScoreRecord struct {
	BusinessID  id.BusinessID
	PulseScore  int
	ProfitScore int
	// ProfitComputed marks whether ProfitScore reflects the latest run.
	// False whenever the run did not verify.
	ProfitComputed bool
	Status         ScoreStatus
	FailureReason  string
	Breakdown      map[string]int
	// EvidenceVersion records which evidence version produced this score.
	EvidenceVersion int64
	LastUpdated     time.Time
}

// Verdicts are the oracle outputs a scoring run evaluates. Building
// them involves I/O; evaluating them is pure.
type Verdicts struct {
	DocumentVerified  bool
	VideoVerified     bool
	BankMatch         bool
	ProfileConsistent bool
	// FinancialSignal feeds the profit score mapping. Only meaningful
	// when bank evidence was gathered.
	FinancialSignal float64
	HasBankSignal   bool
}

// RiskLabel derives the display risk label from a pulse score. All
// call sites go through here so the label can never drift.
func RiskLabel(pulseScore int) string {
	if pulseScore > 80 {
		return "low"
	}
	return "medium"
}
