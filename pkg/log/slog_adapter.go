package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger. Useful for
// development when protocol traffic should show up in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter that writes to the given
// slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger. Errors log at Warn level,
// everything else at Debug.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}
	if event.ConnectionID != "" {
		attrs = append(attrs, slog.String("conn_id", event.ConnectionID))
	}
	if event.Device != "" {
		attrs = append(attrs, slog.String("device", event.Device))
	}

	level := slog.LevelDebug

	switch {
	case event.Frame != nil:
		attrs = append(attrs,
			slog.Int("size", event.Frame.Size),
			slog.Bool("truncated", event.Frame.Truncated),
		)
	case event.Command != nil:
		attrs = append(attrs, slog.Uint64("command", uint64(event.Command.Command)))
		if event.Command.Addr != nil {
			attrs = append(attrs, slog.Uint64("addr", uint64(*event.Command.Addr)))
		}
		if event.Command.Value != nil {
			attrs = append(attrs, slog.Uint64("value", uint64(*event.Command.Value)))
		}
		if event.Command.Words != nil {
			attrs = append(attrs, slog.Int("words", *event.Command.Words))
		}
		if event.Command.Status != nil {
			attrs = append(attrs, slog.Uint64("status", uint64(*event.Command.Status)))
		}
		if event.Command.Elapsed != nil {
			attrs = append(attrs, slog.Duration("elapsed", *event.Command.Elapsed))
		}
	case event.State != nil:
		attrs = append(attrs, slog.String("state", event.State.NewState))
		if event.State.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.State.Reason))
		}
	case event.Discovery != nil:
		attrs = append(attrs, slog.String("stage", event.Discovery.Stage.String()))
		if event.Discovery.Interface != "" {
			attrs = append(attrs, slog.String("interface", event.Discovery.Interface))
		}
		if event.Discovery.Location != "" {
			attrs = append(attrs, slog.String("location", event.Discovery.Location))
		}
		if event.Discovery.Endpoint != "" {
			attrs = append(attrs, slog.String("endpoint", event.Discovery.Endpoint))
		}
	case event.Error != nil:
		level = slog.LevelWarn
		attrs = append(attrs,
			slog.String("op", event.Error.Op),
			slog.String("code", event.Error.Code.String()),
			slog.String("error", event.Error.Message),
		)
	}

	a.logger.LogAttrs(context.Background(), level, "protocol", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
