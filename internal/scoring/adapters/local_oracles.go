package adapters

import (
	"context"
	"strconv"
	"strings"

	"pulsemarket/internal/scoring/ports"
)

// Local oracles back development and test environments where no real
// verification providers are configured. Outcomes are derived from the
// artifact reference itself so scenarios stay deterministic.

type LocalDocumentVerifier struct{}

func (LocalDocumentVerifier) Verify(_ context.Context, artifactRef string) (*ports.DocumentResult, error) {
	return &ports.DocumentResult{
		Verified:      !strings.Contains(artifactRef, "reject"),
		ExtractedName: "",
	}, nil
}

type LocalVideoVerifier struct{}

func (LocalVideoVerifier) Verify(_ context.Context, artifactRef string) (*ports.VideoResult, error) {
	return &ports.VideoResult{
		Verified: !strings.Contains(artifactRef, "reject"),
	}, nil
}

// LocalBankAggregator reads the holder name and financial signal out of
// the auth token, expected as "<holder name>:<signal>". A token without
// a signal suffix yields no financial signal.
type LocalBankAggregator struct{}

func (LocalBankAggregator) FetchSummary(_ context.Context, authToken string) (*ports.BankResult, error) {
	holder, raw, found := strings.Cut(authToken, ":")
	result := &ports.BankResult{AccountHolderName: strings.TrimSpace(holder)}
	if found {
		if signal, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			result.FinancialSignal = signal
		}
	}
	return result, nil
}
