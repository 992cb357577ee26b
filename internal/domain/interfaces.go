package domain

import "context"

// Dispatcher performs the outbound call for a phase. A returned error means
// the exchange did not complete (timeout, refused connection, unreadable
// body); any HTTP status, including 5xx, is a response and not an error.
type Dispatcher interface {
	Dispatch(ctx context.Context, phase Phase, payload []byte) (DispatchResponse, error)
}

type TransactionIDGenerator interface {
	NextTransactionID(ctx context.Context) (string, error)
}

type OutcomePublisher interface {
	PublishOutcome(ctx context.Context, outcome Outcome) error
}
