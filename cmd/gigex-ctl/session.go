package main

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/gigex-project/gigex-go/pkg/client"
	"github.com/gigex-project/gigex-go/pkg/device"
	"github.com/gigex-project/gigex-go/pkg/discovery"
	"github.com/gigex-project/gigex-go/pkg/log"
)

// session bundles the client stack one command invocation uses: the
// event sinks, the command client and the scanner wired to it.
type session struct {
	client  *client.Client
	scanner *discovery.Scanner
	events  log.Logger
	closers []func() error
}

func newSession() (*session, error) {
	s := &session{}

	var sinks []log.Logger
	logPath := opts.logFile
	if logPath == "" {
		logPath = cfg.Log.File
	}
	if logPath != "" {
		fl, err := log.NewFileLogger(logPath)
		if err != nil {
			return nil, fmt.Errorf("open event log: %w", err)
		}
		sinks = append(sinks, fl)
		s.closers = append(s.closers, fl.Close)
	}
	if opts.verbose || cfg.Log.Verbose {
		sinks = append(sinks, newConsoleSink(console))
	}

	switch len(sinks) {
	case 0:
		s.events = log.NoopLogger{}
	case 1:
		s.events = sinks[0]
	default:
		s.events = log.NewMultiLogger(sinks...)
	}

	s.client = client.New(client.Config{Logger: s.events})

	scannerCfg := discovery.Config{
		Settings: s.client,
		Logger:   s.events,
	}
	if addrs := cfg.Discovery.Addrs(); addrs != nil {
		scannerCfg.Interfaces = fixedInterfaces(addrs)
	}
	s.scanner = discovery.New(scannerCfg)

	return s, nil
}

// Close flushes and closes the event sinks.
func (s *session) Close() {
	for _, c := range s.closers {
		c()
	}
}

// resolveCard picks the board to talk to: --addr wins, then --card
// from the configuration, then the first board discovery finds.
func (s *session) resolveCard(ctx context.Context) (*device.Card, error) {
	var card *device.Card
	switch {
	case opts.addr != "":
		c, err := cardFromAddr(opts.addr)
		if err != nil {
			return nil, err
		}
		card = c
	case opts.cardName != "":
		c, ok := cfg.Lookup(opts.cardName)
		if !ok {
			return nil, fmt.Errorf("card %q is not in the configuration", opts.cardName)
		}
		card = c
	default:
		console.Info().Msg("no card given, searching the network")
		c, err := s.scanner.FindFirst(ctx)
		if err != nil {
			return nil, err
		}
		console.Info().Str("card", c.Endpoint()).Msg("using first discovered board")
		card = c
	}

	if opts.timeout > 0 {
		card.Timeout = opts.timeout
	}
	return card, nil
}

// cardFromAddr parses "ip" or "ip:port" into a card on the default or
// given control port.
func cardFromAddr(s string) (*device.Card, error) {
	if ap, err := netip.ParseAddrPort(s); err == nil {
		return device.NewCard(ap.Addr(), ap.Port()), nil
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return nil, fmt.Errorf("bad --addr %q: %w", s, err)
	}
	return device.NewCard(addr, 0), nil
}

// fixedInterfaces probes only the configured addresses instead of the
// host's interface list.
type fixedInterfaces []netip.Addr

func (f fixedInterfaces) InterfaceAddrs() ([]netip.Addr, error) {
	return f, nil
}

// Compile-time interface satisfaction check.
var _ discovery.InterfaceLister = fixedInterfaces(nil)
