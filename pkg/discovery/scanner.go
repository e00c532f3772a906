package discovery

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"time"

	"github.com/gigex-project/gigex-go/pkg/device"
	"github.com/gigex-project/gigex-go/pkg/log"
	"github.com/gigex-project/gigex-go/pkg/status"
)

// Config configures a Scanner.
type Config struct {
	// Settings queries each discovered board's settings. Required.
	Settings SettingsReader

	// Interfaces enumerates the local addresses to probe from.
	// Defaults to the operating system's interface list.
	Interfaces InterfaceLister

	// HTTPClient fetches device descriptors. Defaults to a plain
	// client; per-request deadlines come from the scan's wait budget.
	HTTPClient *http.Client

	// Logger receives discovery events. Defaults to a no-op logger.
	Logger log.Logger
}

// Scanner finds boards by multicast search. A Scanner is stateless
// between scans and safe to reuse.
type Scanner struct {
	settings SettingsReader
	ifaces   InterfaceLister
	httpc    *http.Client
	logger   log.Logger
}

// New returns a Scanner for the given configuration.
func New(cfg Config) *Scanner {
	s := &Scanner{
		settings: cfg.Settings,
		ifaces:   cfg.Interfaces,
		httpc:    cfg.HTTPClient,
		logger:   cfg.Logger,
	}
	if s.ifaces == nil {
		s.ifaces = systemInterfaces{}
	}
	if s.httpc == nil {
		s.httpc = &http.Client{}
	}
	if s.logger == nil {
		s.logger = log.NoopLogger{}
	}
	return s
}

// FindCards scans all local interfaces once and returns the inventory
// of boards that answered within the wait budget. Interfaces that fail
// to probe are skipped; the scan only fails when the interface list
// itself cannot be read. A zero wait selects DefaultWait.
func (s *Scanner) FindCards(ctx context.Context, wait time.Duration) (*device.List, error) {
	const op = "FindCards"
	if wait <= 0 {
		wait = DefaultWait
	}

	addrs, err := s.ifaces.InterfaceAddrs()
	if err != nil {
		return nil, s.fail(op, status.InternalError, err)
	}

	list := &device.List{}
	for _, addr := range addrs {
		if ctx.Err() != nil {
			break
		}
		s.probe(ctx, addr, wait, list)
	}
	return list, nil
}

// FindFirst scans repeatedly with growing wait budgets until a board
// answers, covering boards that are still powering up. It returns the
// first card of the first non-empty scan, or ErrNoCards once the
// ladder is exhausted.
func (s *Scanner) FindFirst(ctx context.Context) (*device.Card, error) {
	for _, wait := range findFirstWaits {
		list, err := s.FindCards(ctx, wait)
		if err != nil {
			return nil, err
		}
		if list.Len() > 0 {
			return list.Cards()[0], nil
		}
		if err := ctx.Err(); err != nil {
			return nil, s.fail("FindFirst", status.Timeout, err)
		}
	}
	return nil, ErrNoCards
}

// fail emits an error event and returns the coded error.
func (s *Scanner) fail(op string, code status.Code, cause error) error {
	err := &status.Error{Op: op, Code: code, Err: cause}
	s.logger.Log(log.Event{
		Timestamp: time.Now(),
		Layer:     log.LayerDiscovery,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Op:      op,
			Code:    code,
			Message: err.Error(),
		},
	})
	return err
}

// probeError reports a per-interface failure without aborting the scan.
func (s *Scanner) probeError(op string, local netip.Addr, cause error) {
	s.logger.Log(log.Event{
		Timestamp: time.Now(),
		Layer:     log.LayerDiscovery,
		Category:  log.CategoryError,
		Device:    local.String(),
		Error: &log.ErrorEventData{
			Op:      op,
			Code:    status.SocketError,
			Message: cause.Error(),
		},
	})
}

// stage emits a discovery pipeline event.
func (s *Scanner) stage(ev *log.DiscoveryEvent) {
	s.logger.Log(log.Event{
		Timestamp: time.Now(),
		Layer:     log.LayerDiscovery,
		Category:  log.CategoryMessage,
		Direction: log.DirectionIn,
		Discovery: ev,
	})
}

// systemInterfaces lists the host's IPv4 addresses, loopback included:
// boards and simulators on the local host answer via loopback.
type systemInterfaces struct{}

func (systemInterfaces) InterfaceAddrs() ([]netip.Addr, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil, err
	}
	var out []netip.Addr
	for _, a := range addrs {
		ipn, ok := a.(*net.IPNet)
		if !ok {
			continue
		}
		ip, ok := netip.AddrFromSlice(ipn.IP)
		if !ok {
			continue
		}
		ip = ip.Unmap()
		if !ip.Is4() {
			continue
		}
		out = append(out, ip)
	}
	return out, nil
}

// Compile-time interface satisfaction check.
var _ InterfaceLister = systemInterfaces{}
