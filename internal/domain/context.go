package domain

import "time"

type Stage string

const (
	StageIntake     Stage = "intake"
	StageMapped     Stage = "mapped"
	StageDispatched Stage = "dispatched"
	StageClassified Stage = "classified"
	StageFailed     Stage = "failed"
)

// TransactionContext carries identifiers and outcome flags between pipeline
// stages. It is a value: every transition returns a new copy and leaves the
// receiver untouched, so a stage can never observe a later stage's writes.
type TransactionContext struct {
	transactionID string
	externalID    string

	phase Phase
	stage Stage

	partyLookupFailed  bool
	partyLookupDecided bool
	settlementFailed   bool
	settlementDecided  bool
}

func NewTransactionContext(transactionID string) TransactionContext {
	return TransactionContext{transactionID: transactionID, stage: StageIntake}
}

func (tc TransactionContext) TransactionID() string { return tc.transactionID }

// ExternalID is the downstream settlement reference (for example an M-Pesa
// receipt number). It must be set before the settlement pipeline runs.
func (tc TransactionContext) ExternalID() string { return tc.externalID }

func (tc TransactionContext) WithExternalID(externalID string) TransactionContext {
	tc.externalID = externalID
	return tc
}

// Phase and Stage describe the last pipeline that produced this context.
func (tc TransactionContext) Phase() Phase { return tc.phase }
func (tc TransactionContext) Stage() Stage { return tc.stage }

// Decided reports whether the pipeline for phase has classified a response.
func (tc TransactionContext) Decided(phase Phase) bool {
	switch phase {
	case PhaseVerification:
		return tc.partyLookupDecided
	case PhaseSettlement:
		return tc.settlementDecided
	}
	return false
}

// PartyLookupFailed is only meaningful once the verification pipeline has
// classified its response; check Decided(PhaseVerification) first. Reading it
// earlier returns false, which is not an outcome.
func (tc TransactionContext) PartyLookupFailed() bool { return tc.partyLookupFailed }

// SettlementFailed has the same precondition as PartyLookupFailed, for the
// settlement pipeline.
func (tc TransactionContext) SettlementFailed() bool { return tc.settlementFailed }

func (tc TransactionContext) Advance(phase Phase, stage Stage) TransactionContext {
	tc.phase = phase
	tc.stage = stage
	return tc
}

func (tc TransactionContext) WithPartyLookupOutcome(failed bool) TransactionContext {
	tc = tc.Advance(PhaseVerification, StageClassified)
	tc.partyLookupFailed = failed
	tc.partyLookupDecided = true
	return tc
}

func (tc TransactionContext) WithSettlementOutcome(failed bool) TransactionContext {
	tc = tc.Advance(PhaseSettlement, StageClassified)
	tc.settlementFailed = failed
	tc.settlementDecided = true
	return tc
}

// Outcome snapshots the decided flag for phase.
func (tc TransactionContext) Outcome(phase Phase, decidedAt time.Time) Outcome {
	failed := tc.partyLookupFailed
	if phase == PhaseSettlement {
		failed = tc.settlementFailed
	}
	return Outcome{
		TransactionID: tc.transactionID,
		ExternalID:    tc.externalID,
		Phase:         phase,
		Failed:        failed,
		DecidedAt:     decidedAt,
	}
}
