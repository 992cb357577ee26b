package usecase

import (
	"context"
	"log/slog"

	"pesacore/internal/domain"
)

// VerificationPipeline runs the pre-transfer party lookup against Pesacore.
type VerificationPipeline struct {
	dispatcher domain.Dispatcher
	ids        domain.TransactionIDGenerator
	metrics    *PipelineMetrics
}

func NewVerificationPipeline(
	dispatcher domain.Dispatcher,
	ids domain.TransactionIDGenerator,
	metrics *PipelineMetrics,
) *VerificationPipeline {
	if metrics == nil {
		metrics = NewPipelineMetrics()
	}
	return &VerificationPipeline{
		dispatcher: dispatcher,
		ids:        ids,
		metrics:    metrics,
	}
}

// Start creates a context with a fresh transaction id and runs the pipeline.
func (p *VerificationPipeline) Start(ctx context.Context, req domain.ChannelRequest) (domain.TransactionContext, error) {
	transactionID, err := p.ids.NextTransactionID(ctx)
	if err != nil {
		p.metrics.recordRejected(domain.PhaseVerification)
		slog.Error("failed to allocate transaction id", "phase", domain.PhaseVerification, "err", err)
		return domain.TransactionContext{}, domain.NewStageError(domain.StageIntake, domain.ErrTransactionID, err)
	}
	return p.Run(ctx, req, domain.NewTransactionContext(transactionID))
}

// Run maps req, posts it to the verification endpoint and records
// partyLookupFailed on the returned context. Only a malformed request yields
// an error; transport problems are a failed lookup.
func (p *VerificationPipeline) Run(ctx context.Context, req domain.ChannelRequest, tc domain.TransactionContext) (domain.TransactionContext, error) {
	const phase = domain.PhaseVerification

	tc = tc.Advance(phase, domain.StageIntake)
	slog.Info("starting transfer validation", "transactionId", tc.TransactionID())

	if err := checkTransactionID(p.metrics, phase, tc); err != nil {
		slog.Error("validation request rejected", "err", err)
		return tc.Advance(phase, domain.StageFailed), err
	}

	payload, err := domain.MapProviderRequest(req, tc.TransactionID())
	if err != nil {
		p.metrics.recordRejected(phase)
		slog.Error("validation request rejected", "transactionId", tc.TransactionID(), "err", err)
		return tc.Advance(phase, domain.StageFailed), err
	}
	tc = tc.Advance(phase, domain.StageMapped)
	slog.Debug("validation request", "transactionId", tc.TransactionID(), "request", payload)

	res, err := dispatch(ctx, p.dispatcher, p.metrics, phase, payload)
	tc = tc.Advance(phase, domain.StageDispatched)

	failed := true
	if err != nil {
		slog.Error("pesacore verification call failed", "transactionId", tc.TransactionID(), "err", err)
	} else {
		slog.Debug("pesacore verification response", "transactionId", tc.TransactionID(),
			"status", res.StatusCode, "body", string(res.Body))
		failed = domain.ClassifyVerification(res.StatusCode)
	}

	tc = tc.WithPartyLookupOutcome(failed)
	p.metrics.recordOutcome(phase, failed)

	if failed {
		slog.Error("validation unsuccessful", "transactionId", tc.TransactionID(), "status", res.StatusCode)
	} else {
		slog.Info("validation successful", "transactionId", tc.TransactionID())
	}

	return tc, nil
}
