package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger.
// Useful for development when you want to see policy activity in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("device_id", event.DeviceID),
		slog.String("category", event.Category.String()),
	}

	if event.AttachmentID != "" {
		attrs = append(attrs, slog.String("attachment_id", event.AttachmentID))
	}
	if event.Policy != "" {
		attrs = append(attrs, slog.String("policy", event.Policy))
	}

	switch {
	case event.Transition != nil:
		attrs = append(attrs,
			slog.String("kind", event.Transition.Kind.String()),
			slog.String("from", event.Transition.From),
			slog.String("to", event.Transition.To),
		)
		if event.Transition.Duration > 0 {
			attrs = append(attrs, slog.Duration("duration", event.Transition.Duration))
		}
		if event.Transition.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.Transition.Reason))
		}
	case event.Dispatch != nil:
		attrs = append(attrs,
			slog.String("signal", event.Dispatch.Signal),
			slog.Bool("handled", event.Dispatch.Handled),
		)
	case event.Property != nil:
		attrs = append(attrs,
			slog.String("path", event.Property.Path),
			slog.String("value", event.Property.Value),
			slog.Bool("applied", event.Property.Applied),
		)
	case event.Error != nil:
		attrs = append(attrs, slog.String("error_msg", event.Error.Message))
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "pwrscale", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
