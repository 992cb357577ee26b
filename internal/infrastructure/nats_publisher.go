package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bytedance/sonic"
	"github.com/nats-io/nats.go"

	"pesacore/internal/domain"
)

// NatsOutcomePublisher lets a workflow engine pick up terminal flags from
// <prefix>.<phase>.outcome.
type NatsOutcomePublisher struct {
	conn   *nats.Conn
	prefix string
}

func NewNatsOutcomePublisher(url, prefix string) (*NatsOutcomePublisher, error) {
	conn, err := nats.Connect(
		url,
		nats.Name("pesacore-connector"),
		nats.ReconnectWait(3*time.Second),
		nats.MaxReconnects(-1),
		nats.PingInterval(10*time.Second),
		nats.MaxPingsOutstanding(5),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats at %s: %w", url, err)
	}

	slog.Info("connected to nats", "url", url, "prefix", prefix)
	return &NatsOutcomePublisher{conn: conn, prefix: prefix}, nil
}

func (p *NatsOutcomePublisher) PublishOutcome(_ context.Context, outcome domain.Outcome) error {
	data, err := sonic.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("failed to encode outcome: %w", err)
	}

	subject := OutcomeSubject(p.prefix, outcome.Phase)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

func (p *NatsOutcomePublisher) Close() error {
	return p.conn.Drain()
}

func OutcomeSubject(prefix string, phase domain.Phase) string {
	return prefix + "." + string(phase) + ".outcome"
}

type NoopOutcomePublisher struct{}

func (NoopOutcomePublisher) PublishOutcome(context.Context, domain.Outcome) error { return nil }
