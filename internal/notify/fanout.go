// Package notify fans completion events out to best-effort channels.
// Channel failures are logged and counted, never propagated: one outage
// must not suppress another channel's delivery or the pipeline's result.
package notify

import (
	"context"
	"log/slog"

	"NewsIntake/internal/domain"
	"NewsIntake/internal/metrics"
	"NewsIntake/internal/ports"
)

// Fanout delivers events to every configured channel independently.
type Fanout struct {
	channels []ports.NotifyChannel
	logger   *slog.Logger
}

// NewFanout wires the configured channels; an empty list is valid.
func NewFanout(logger *slog.Logger, channels ...ports.NotifyChannel) *Fanout {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fanout{channels: channels, logger: logger}
}

// Notify sends the event on every channel, swallowing failures.
func (f *Fanout) Notify(ctx context.Context, event domain.Event) {
	for _, ch := range f.channels {
		if err := ch.Send(ctx, event); err != nil {
			nerr := &domain.NotificationError{Channel: ch.Name(), Err: err}
			f.logger.Error("notification delivery failed", "channel", ch.Name(), "item", event.ItemID, "error", nerr)
			metrics.NotificationsSent.WithLabelValues(ch.Name(), "error").Inc()
			continue
		}
		metrics.NotificationsSent.WithLabelValues(ch.Name(), "ok").Inc()
	}
}
