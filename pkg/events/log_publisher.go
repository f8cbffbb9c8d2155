package events

import (
	"context"
	"fmt"
	"log/slog"
)

const logPublisherLogPrefix = "events:log_publisher"

// LogPublisher writes route events to a slog.Logger.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a LogPublisher. A nil logger uses slog.Default().
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs the event at debug level, or at warn level for failed calls.
func (p *LogPublisher) Publish(ctx context.Context, event *RouteEvent) error {
	if event.Failed() {
		p.logger.WarnContext(ctx, fmt.Sprintf("%s - %s/%s failed after %dms id=%s: %s",
			logPublisherLogPrefix, event.Service, event.Method, event.DurationMs, event.ID, event.Error))
		return nil
	}
	p.logger.DebugContext(ctx, fmt.Sprintf("%s - %s/%s -> %s.%s in %dms id=%s",
		logPublisherLogPrefix, event.Service, event.Method, event.Module, event.Function, event.DurationMs, event.ID))
	return nil
}
