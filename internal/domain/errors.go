package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRequest  = errors.New("malformed request")
	ErrMissingReference  = errors.New("missing settlement reference")
	ErrTransportFailure  = errors.New("transport failure")
	ErrMalformedResponse = errors.New("malformed response")
	ErrTransactionID     = errors.New("transaction id unavailable")
)

// StageError reports which pipeline stage stopped and why. Kind is one of the
// sentinel errors above, so callers can match with errors.Is.
type StageError struct {
	Stage Stage
	Kind  error
	Err   error
}

func NewStageError(stage Stage, kind, cause error) *StageError {
	return &StageError{Stage: stage, Kind: kind, Err: cause}
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s stage: %v", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s stage: %v: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// StageOf returns the stage recorded on err, if err carries one.
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if !errors.As(err, &se) {
		return "", false
	}
	return se.Stage, true
}
