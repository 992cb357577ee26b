package usecase

import (
	"context"
	"log/slog"

	"pesacore/internal/domain"
)

// SettlementPipeline confirms a transfer that the payment network has
// already settled, identified by the context's external id.
type SettlementPipeline struct {
	dispatcher domain.Dispatcher
	ids        domain.TransactionIDGenerator
	metrics    *PipelineMetrics
	// lenient folds a malformed 200 body into settlementFailed instead of
	// returning ErrMalformedResponse.
	lenient bool
}

func NewSettlementPipeline(
	dispatcher domain.Dispatcher,
	ids domain.TransactionIDGenerator,
	metrics *PipelineMetrics,
	lenient bool,
) *SettlementPipeline {
	if metrics == nil {
		metrics = NewPipelineMetrics()
	}
	return &SettlementPipeline{
		dispatcher: dispatcher,
		ids:        ids,
		metrics:    metrics,
		lenient:    lenient,
	}
}

// Start creates a context carrying a fresh transaction id and externalID,
// then runs the pipeline.
func (p *SettlementPipeline) Start(ctx context.Context, req domain.ChannelRequest, externalID string) (domain.TransactionContext, error) {
	transactionID, err := p.ids.NextTransactionID(ctx)
	if err != nil {
		p.metrics.recordRejected(domain.PhaseSettlement)
		slog.Error("failed to allocate transaction id", "phase", domain.PhaseSettlement, "err", err)
		return domain.TransactionContext{}, domain.NewStageError(domain.StageIntake, domain.ErrTransactionID, err)
	}
	tc := domain.NewTransactionContext(transactionID).WithExternalID(externalID)
	return p.Run(ctx, req, tc)
}

// CheckReference rejects a settlement with no external id. Callers holding an
// unparsed body use it to reject before decoding; Run applies it again.
func (p *SettlementPipeline) CheckReference(externalID string) error {
	if externalID != "" {
		return nil
	}
	p.metrics.recordRejected(domain.PhaseSettlement)
	return domain.NewStageError(domain.StageIntake, domain.ErrMissingReference, nil)
}

func (p *SettlementPipeline) intake(tc domain.TransactionContext) error {
	if err := checkTransactionID(p.metrics, domain.PhaseSettlement, tc); err != nil {
		return err
	}
	return p.CheckReference(tc.ExternalID())
}

func (p *SettlementPipeline) Run(ctx context.Context, req domain.ChannelRequest, tc domain.TransactionContext) (domain.TransactionContext, error) {
	const phase = domain.PhaseSettlement

	tc = tc.Advance(phase, domain.StageIntake)
	slog.Info("starting transfer settlement", "transactionId", tc.TransactionID(), "externalId", tc.ExternalID())

	if err := p.intake(tc); err != nil {
		slog.Error("settlement request rejected", "transactionId", tc.TransactionID(), "err", err)
		return tc.Advance(phase, domain.StageFailed), err
	}

	mapped, err := domain.MapProviderRequest(req, tc.ExternalID())
	if err != nil {
		p.metrics.recordRejected(phase)
		slog.Error("settlement request rejected", "transactionId", tc.TransactionID(), "err", err)
		return tc.Advance(phase, domain.StageFailed), err
	}
	payload := mapped.ForSettlement(tc.ExternalID())
	tc = tc.Advance(phase, domain.StageMapped)
	slog.Debug("confirmation request", "transactionId", tc.TransactionID(), "request", payload)

	res, err := dispatch(ctx, p.dispatcher, p.metrics, phase, payload)
	tc = tc.Advance(phase, domain.StageDispatched)

	failed := true
	if err != nil {
		slog.Error("pesacore confirmation call failed", "transactionId", tc.TransactionID(), "err", err)
	} else {
		slog.Debug("pesacore confirmation response", "transactionId", tc.TransactionID(),
			"status", res.StatusCode, "body", string(res.Body))

		var classifyErr error
		failed, classifyErr = domain.ClassifySettlement(res.StatusCode, res.Body)
		if classifyErr != nil {
			if !p.lenient {
				p.metrics.recordErrored(phase)
				slog.Error("unreadable confirmation response", "transactionId", tc.TransactionID(), "err", classifyErr)
				return tc.Advance(phase, domain.StageFailed), classifyErr
			}
			slog.Warn("unreadable confirmation response, treating as failed", "transactionId", tc.TransactionID(), "err", classifyErr)
			failed = true
		}
	}

	tc = tc.WithSettlementOutcome(failed)
	p.metrics.recordOutcome(phase, failed)

	if failed {
		slog.Error("settlement unsuccessful", "transactionId", tc.TransactionID(), "externalId", tc.ExternalID(), "status", res.StatusCode)
	} else {
		slog.Info("settlement successful", "transactionId", tc.TransactionID(), "externalId", tc.ExternalID())
	}

	return tc, nil
}
