// Package ports defines the oracle interfaces the score engine
// consumes. Real implementations live outside this core; adapters and
// generated mocks satisfy them.
package ports

import "context"

//go:generate mockgen -source=ports.go -destination=mocks/ports_mock.go -package=mocks

// DocumentResult is the document oracle's verdict on one artifact.
type DocumentResult struct {
	Verified      bool
	ExtractedName string
	Fields        map[string]string
}

// DocumentVerifier answers whether a registration document is genuine.
type DocumentVerifier interface {
	Verify(ctx context.Context, artifactRef string) (*DocumentResult, error)
}

// VideoResult is the video oracle's verdict on one artifact.
type VideoResult struct {
	Verified bool
	Summary  string
}

// VideoVerifier answers whether a premises video shows a real business.
type VideoVerifier interface {
	Verify(ctx context.Context, artifactRef string) (*VideoResult, error)
}

// BankResult is the bank aggregator's summary of linked transactions.
type BankResult struct {
	AccountHolderName string
	// FinancialSignal feeds the profit score mapping.
	FinancialSignal float64
}

// BankAggregator fetches the linked account summary for an auth token.
type BankAggregator interface {
	FetchSummary(ctx context.Context, authToken string) (*BankResult, error)
}
