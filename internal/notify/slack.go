package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"NewsIntake/internal/domain"
	"NewsIntake/internal/ports"
)

// SlackChannel posts completion messages to an incoming webhook.
type SlackChannel struct {
	webhookURL string
	client     *http.Client
}

var _ ports.NotifyChannel = (*SlackChannel)(nil)

// NewSlackChannel registers the incoming-webhook URL.
func NewSlackChannel(webhookURL string) *SlackChannel {
	return &SlackChannel{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

// Name identifies the channel in logs and metrics.
func (s *SlackChannel) Name() string { return "slack" }

// Send posts a formatted message for the event.
func (s *SlackChannel) Send(ctx context.Context, event domain.Event) error {
	if s.webhookURL == "" {
		return fmt.Errorf("slack channel misconfigured")
	}

	text := fmt.Sprintf("*New Import*\n\n*Submission:* %s - %s\n*Status:* Draft Generated\n*Edit in Studio:* <%s|Open Editor>",
		event.ExternalID, event.Title, event.EditURL)
	if len(event.Degraded) > 0 {
		text += fmt.Sprintf("\n*Degraded stages:* %v", event.Degraded)
	}

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack error: %s", resp.Status)
	}

	return nil
}
