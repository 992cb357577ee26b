package infrastructure

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"pesacore/internal/domain"
)

const maxResponseBody = 1 << 20

type HTTPDispatcher struct {
	httpClient *http.Client
	endpoints  map[domain.Phase]string
	authToken  string
}

func NewHTTPDispatcher(baseURL, verificationPath, confirmationPath, authToken string, timeout time.Duration) *HTTPDispatcher {
	transport := &http.Transport{
		MaxIdleConns:        128,
		MaxIdleConnsPerHost: 32,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2: true,
	}

	return NewHTTPDispatcherWithClient(&http.Client{Timeout: timeout, Transport: transport},
		baseURL, verificationPath, confirmationPath, authToken)
}

func NewHTTPDispatcherWithClient(client *http.Client, baseURL, verificationPath, confirmationPath, authToken string) *HTTPDispatcher {
	return &HTTPDispatcher{
		httpClient: client,
		endpoints: map[domain.Phase]string{
			domain.PhaseVerification: baseURL + verificationPath,
			domain.PhaseSettlement:   baseURL + confirmationPath,
		},
		authToken: authToken,
	}
}

func (d *HTTPDispatcher) Endpoint(phase domain.Phase) string {
	return d.endpoints[phase]
}

func (d *HTTPDispatcher) Dispatch(ctx context.Context, phase domain.Phase, payload []byte) (domain.DispatchResponse, error) {
	endpoint, ok := d.endpoints[phase]
	if !ok {
		return domain.DispatchResponse{}, fmt.Errorf("no endpoint configured for %s", phase)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return domain.DispatchResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+d.authToken)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return domain.DispatchResponse{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return domain.DispatchResponse{}, fmt.Errorf("failed to read response body: %w", err)
	}

	return domain.DispatchResponse{StatusCode: resp.StatusCode, Body: body}, nil
}
