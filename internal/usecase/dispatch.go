package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"pesacore/internal/domain"
)

var errEmptyTransactionID = errors.New("transaction id is empty")

// checkTransactionID rejects a context that was never given an id, so no
// payload goes out with an empty remoteTransactionId.
func checkTransactionID(metrics *PipelineMetrics, phase domain.Phase, tc domain.TransactionContext) error {
	if tc.TransactionID() != "" {
		return nil
	}
	metrics.recordRejected(phase)
	return domain.NewStageError(domain.StageIntake, domain.ErrTransactionID, errEmptyTransactionID)
}

// dispatch serializes req and hands it to d. Any error it returns is a
// TransportFailure; callers turn it into a failed outcome.
func dispatch(ctx context.Context, d domain.Dispatcher, metrics *PipelineMetrics, phase domain.Phase, req domain.ProviderRequest) (domain.DispatchResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return domain.DispatchResponse{}, domain.NewStageError(domain.StageDispatched, domain.ErrTransportFailure,
			fmt.Errorf("failed to marshal request: %w", err))
	}

	start := time.Now()
	res, err := d.Dispatch(ctx, phase, payload)
	metrics.recordDispatchTime(phase, time.Since(start))
	if err != nil {
		metrics.recordTransportError(phase)
		return domain.DispatchResponse{}, domain.NewStageError(domain.StageDispatched, domain.ErrTransportFailure, err)
	}

	return res, nil
}
