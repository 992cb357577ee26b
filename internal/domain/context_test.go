package domain

import (
	"errors"
	"testing"
	"time"
)

func TestTransactionContextTransitionsReturnCopies(t *testing.T) {
	original := NewTransactionContext("txn-1")

	withRef := original.WithExternalID("RCP1")
	if original.ExternalID() != "" {
		t.Errorf("Expected original externalId to stay empty, got %q", original.ExternalID())
	}
	if withRef.ExternalID() != "RCP1" {
		t.Errorf("Expected externalId RCP1, got %q", withRef.ExternalID())
	}

	decided := withRef.WithPartyLookupOutcome(true)
	if withRef.Decided(PhaseVerification) {
		t.Error("Expected earlier copy to stay undecided")
	}
	if !decided.Decided(PhaseVerification) || !decided.PartyLookupFailed() {
		t.Errorf("Expected decided failed lookup, got %+v", decided)
	}
	if decided.Decided(PhaseSettlement) {
		t.Error("Expected settlement to stay undecided")
	}
	if decided.Stage() != StageClassified || decided.Phase() != PhaseVerification {
		t.Errorf("Expected classified verification, got %s/%s", decided.Phase(), decided.Stage())
	}
}

func TestTransactionContextKeepsBothOutcomes(t *testing.T) {
	tc := NewTransactionContext("txn-2").
		WithPartyLookupOutcome(false).
		WithExternalID("RCP2").
		WithSettlementOutcome(true)

	if tc.PartyLookupFailed() {
		t.Error("Expected party lookup to have succeeded")
	}
	if !tc.SettlementFailed() {
		t.Error("Expected settlement to have failed")
	}

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	outcome := tc.Outcome(PhaseSettlement, now)
	want := Outcome{TransactionID: "txn-2", ExternalID: "RCP2", Phase: PhaseSettlement, Failed: true, DecidedAt: now}
	if outcome != want {
		t.Errorf("Expected %+v, got %+v", want, outcome)
	}
	if tc.Outcome(PhaseVerification, now).Failed {
		t.Error("Expected verification outcome to be successful")
	}
}

func TestStageErrorMatching(t *testing.T) {
	cause := errors.New("boom")
	err := NewStageError(StageDispatched, ErrTransportFailure, cause)

	if !errors.Is(err, ErrTransportFailure) {
		t.Error("Expected error to match its kind")
	}
	if !errors.Is(err, cause) {
		t.Error("Expected error to match its cause")
	}
	if errors.Is(err, ErrMalformedResponse) {
		t.Error("Expected error not to match another kind")
	}
	if got := err.Error(); got != "dispatched stage: transport failure: boom" {
		t.Errorf("unexpected message %q", got)
	}

	if _, ok := StageOf(cause); ok {
		t.Error("Expected plain error to carry no stage")
	}
	if got := NewStageError(StageIntake, ErrMissingReference, nil).Error(); got != "intake stage: missing settlement reference" {
		t.Errorf("unexpected message %q", got)
	}
}
