package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gigex-project/gigex-go/pkg/log"
	"github.com/gigex-project/gigex-go/pkg/wire"
)

// consoleSink renders protocol events through the operator logger so
// --verbose shows the conversation as it happens.
type consoleSink struct {
	logger zerolog.Logger
}

func newConsoleSink(logger zerolog.Logger) *consoleSink {
	return &consoleSink{logger: logger.With().Str("component", "events").Logger()}
}

func (s *consoleSink) Log(ev log.Event) {
	switch {
	case ev.Error != nil:
		s.logger.Error().
			Str("op", ev.Error.Op).
			Str("code", ev.Error.Code.String()).
			Str("device", ev.Device).
			Msg(ev.Error.Message)

	case ev.Command != nil:
		e := s.logger.Info().
			Str("conn", shortConnID(ev.ConnectionID)).
			Str("device", ev.Device).
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
		if ev.Command.Elapsed != nil {
			e = e.Dur("elapsed", *ev.Command.Elapsed)
		}
		e.Msg("command")

	case ev.Discovery != nil:
		e := s.logger.Info().Str("stage", ev.Discovery.Stage.String())
		if ev.Discovery.Interface != "" {
			e = e.Str("interface", ev.Discovery.Interface)
		}
		if ev.Discovery.Location != "" {
			e = e.Str("location", ev.Discovery.Location)
		}
		if ev.Discovery.Endpoint != "" {
			e = e.Str("endpoint", ev.Discovery.Endpoint)
		}
		e.Msg("discovery")

	case ev.Frame != nil:
		s.logger.Debug().
			Str("conn", shortConnID(ev.ConnectionID)).
			Str("dir", ev.Direction.String()).
			Int("size", ev.Frame.Size).
			Hex("data", ev.Frame.Data).
			Msg("frame")

	case ev.State != nil:
		s.logger.Debug().
			Str("conn", shortConnID(ev.ConnectionID)).
			Str("device", ev.Device).
			Str("state", ev.State.NewState).
			Msg("connection")
	}
}

// shortConnID returns the first eight characters of a connection ID.
func shortConnID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
