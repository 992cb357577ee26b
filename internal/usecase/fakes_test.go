package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-json"

	"pesacore/internal/domain"
)

const validBody = `{"payer":{"partyIdInfo":{"partyIdentifier":"254700000000"}},"payee":{"partyIdInfo":{"partyIdentifier":"ACC123"}},"amount":{"amount":500,"currency":"KES"}}`

var ErrMockTransport = errors.New("connection refused")

type dispatchCall struct {
	Phase   domain.Phase
	Payload []byte
}

// MockDispatcher records every call and answers with DispatchFunc.
type MockDispatcher struct {
	DispatchFunc func(ctx context.Context, phase domain.Phase, payload []byte) (domain.DispatchResponse, error)
	Calls        []dispatchCall
}

func (m *MockDispatcher) Dispatch(ctx context.Context, phase domain.Phase, payload []byte) (domain.DispatchResponse, error) {
	m.Calls = append(m.Calls, dispatchCall{Phase: phase, Payload: payload})
	if m.DispatchFunc != nil {
		return m.DispatchFunc(ctx, phase, payload)
	}
	return domain.DispatchResponse{StatusCode: 200}, nil
}

func respondWith(status int, body string) *MockDispatcher {
	return &MockDispatcher{
		DispatchFunc: func(context.Context, domain.Phase, []byte) (domain.DispatchResponse, error) {
			return domain.DispatchResponse{StatusCode: status, Body: []byte(body)}, nil
		},
	}
}

func failWith(err error) *MockDispatcher {
	return &MockDispatcher{
		DispatchFunc: func(context.Context, domain.Phase, []byte) (domain.DispatchResponse, error) {
			return domain.DispatchResponse{}, err
		},
	}
}

type MockIDGenerator struct {
	ID  string
	Err error
}

func (m MockIDGenerator) NextTransactionID(context.Context) (string, error) {
	return m.ID, m.Err
}

func mustParse(t *testing.T, body string) domain.ChannelRequest {
	t.Helper()
	req, err := domain.ParseChannelRequest([]byte(body))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return req
}

func decodePayload(t *testing.T, payload []byte) domain.ProviderRequest {
	t.Helper()
	var req domain.ProviderRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		t.Fatalf("unexpected payload %s: %v", payload, err)
	}
	return req
}
