package scoring

import (
	"context"
	"time"

	"pulsemarket/internal/business"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// gatherVerdicts orchestrates parallel oracle calls with shared context
// cancellation. Missing evidence channels are skipped, not errors: the
// zero-credit policy scores them 0. Any oracle failure aborts the whole
// gather so no partial verdict set is ever evaluated.
func (s *Service) gatherVerdicts(ctx context.Context, snapshot *business.EvidenceSnapshot, identity *business.BusinessIdentity) (*Verdicts, error) {
	ctx, cancel := context.WithTimeout(ctx, s.oracleTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "scoring.gather_verdicts",
		trace.WithAttributes(attribute.String("business_id", snapshot.BusinessID.String())))
	defer span.End()

	g, ctx := errgroup.WithContext(ctx)

	verdicts := &Verdicts{
		ProfileConsistent: identity.ProfileConsistent(),
	}

	if record, ok := snapshot.Record(business.ChannelDocument); ok {
		g.Go(func() error {
			start := time.Now()
			result, err := s.documents.Verify(ctx, record.ArtifactRef)
			s.metrics.ObserveOracleLatency("document", time.Since(start))
			if err != nil {
				return err
			}
			verdicts.DocumentVerified = result.Verified
			return nil
		})
	}

	if record, ok := snapshot.Record(business.ChannelVideo); ok {
		g.Go(func() error {
			start := time.Now()
			result, err := s.videos.Verify(ctx, record.ArtifactRef)
			s.metrics.ObserveOracleLatency("video", time.Since(start))
			if err != nil {
				return err
			}
			verdicts.VideoVerified = result.Verified
			return nil
		})
	}

	if record, ok := snapshot.Record(business.ChannelBank); ok {
		g.Go(func() error {
			start := time.Now()
			result, err := s.bank.FetchSummary(ctx, record.ArtifactRef)
			s.metrics.ObserveOracleLatency("bank", time.Since(start))
			if err != nil {
				return err
			}
			verdicts.BankMatch = nameMatches(result.AccountHolderName, identity.Name)
			verdicts.FinancialSignal = result.FinancialSignal
			verdicts.HasBankSignal = true
			return nil
		})
	}

	// Wait for all goroutines with early cancellation on first failure
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	return verdicts, nil
}
