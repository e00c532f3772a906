package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gigex-project/gigex-go/pkg/log"
	"github.com/gigex-project/gigex-go/pkg/wire"
)

// eventSink mirrors board events into the console log. The board only
// emits command, state and error events; frames stay in the capture
// file.
type eventSink struct {
	logger zerolog.Logger
}

// Log implements log.Logger.
func (s *eventSink) Log(ev log.Event) {
	switch {
	case ev.Error != nil:
		s.logger.Warn().
			Str("op", ev.Error.Op).
			Str("code", ev.Error.Code.String()).
			Msg(ev.Error.Message)

	case ev.Command != nil:
		e := s.logger.Info().
			Str("conn", shortID(ev.ConnectionID)).
			Str("peer", ev.Device).
			Str("command", wire.Command(ev.Command.Command).String())
		if ev.Command.Addr != nil {
			e = e.Uint8("addr", *ev.Command.Addr)
		}
		if ev.Command.Value != nil {
			e = e.Str("value", fmt.Sprintf("%#04x", *ev.Command.Value))
		}
		if ev.Command.Words != nil {
			e = e.Int("words", *ev.Command.Words)
		}
		if ev.Command.Status != nil {
			e = e.Str("status", wire.Status(*ev.Command.Status).String())
		}
		e.Msg("command")

	case ev.State != nil:
		s.logger.Info().
			Str("conn", shortID(ev.ConnectionID)).
			Str("peer", ev.Device).
			Str("state", ev.State.NewState).
			Msg("connection")
	}
}

func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// Compile-time interface satisfaction check.
var _ log.Logger = (*eventSink)(nil)
