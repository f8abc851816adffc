package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"NewsIntake/internal/domain"
	"NewsIntake/internal/ports"
)

// NATSChannel publishes completion events for downstream consumers
// (feeds, search indexing) on a configured subject.
type NATSChannel struct {
	conn    *nats.Conn
	subject string
}

var _ ports.NotifyChannel = (*NATSChannel)(nil)

// NewNATSChannel connects to the broker. The connection reconnects
// automatically; publish failures stay best-effort like every channel.
func NewNATSChannel(url, subject string) (*NATSChannel, error) {
	conn, err := nats.Connect(url, nats.RetryOnFailedConnect(true))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSChannel{conn: conn, subject: subject}, nil
}

// Name identifies the channel in logs and metrics.
func (n *NATSChannel) Name() string { return "nats" }

// Send publishes the event as JSON.
func (n *NATSChannel) Send(_ context.Context, event domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Close drains the underlying connection.
func (n *NATSChannel) Close() {
	if n.conn != nil {
		n.conn.Close()
	}
}
