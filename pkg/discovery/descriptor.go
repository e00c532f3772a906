package discovery

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/gigex-project/gigex-go/pkg/device"
	"github.com/gigex-project/gigex-go/pkg/log"
)

// fetchCard follows a LOCATION URL to the board's descriptor, extracts
// the control endpoint and appends the board to the inventory. The
// append is speculative: it is rolled back when the settings query
// fails, so a half-reachable board never lands in the result.
func (s *Scanner) fetchCard(ctx context.Context, loc string, wait time.Duration, list *device.List) {
	host, port, path, ok := splitLocation(loc)
	if !ok {
		return
	}

	body, err := s.fetchDescriptor(ctx, host, port, path, wait)
	if err != nil {
		return
	}

	addr, ctrlPort, ok := parseControlURL(body)
	if !ok {
		return
	}
	endpoint := net.JoinHostPort(addr.String(), strconv.Itoa(int(ctrlPort)))
	s.stage(&log.DiscoveryEvent{Stage: log.StageDescriptor, Location: loc, Endpoint: endpoint})

	if list.Contains(addr, ctrlPort) {
		return
	}

	// The parsed port is taken verbatim, without the default-port
	// substitution NewCard applies.
	card := &device.Card{Addr: addr, ControlPort: ctrlPort, Timeout: wait}
	list.Add(card)
	if err := s.settings.ReadSettings(ctx, card); err != nil {
		list.RemoveLast()
		s.stage(&log.DiscoveryEvent{Stage: log.StageRollback, Endpoint: endpoint})
		return
	}
	card.Timeout = device.DefaultTimeout
	s.stage(&log.DiscoveryEvent{Stage: log.StageCardAdded, Endpoint: card.Endpoint()})
}

// fetchDescriptor issues the secondary HTTP GET for the XML
// descriptor, bounded by the scan's wait budget.
func (s *Scanner) fetchDescriptor(ctx context.Context, host, port, path string, wait time.Duration) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	url := "http://" + net.JoinHostPort(host, port) + "/" + path
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errBadStatus
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDescriptorSize))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// splitLocation breaks an "http://host[:port]/path" URL into its
// parts. The port defaults to 80. URLs without a path are rejected;
// the boards always publish one.
func splitLocation(loc string) (host, port, path string, ok bool) {
	const prefix = "http://"
	if !strings.HasPrefix(loc, prefix) {
		return "", "", "", false
	}
	rest := loc[len(prefix):]

	slash := strings.IndexByte(rest, '/')
	if slash < 0 {
		return "", "", "", false
	}
	host, path = rest[:slash], rest[slash+1:]

	port = "80"
	if colon := strings.IndexByte(host, ':'); colon >= 0 {
		host, port = host[:colon], host[colon+1:]
	}
	if host == "" {
		return "", "", "", false
	}
	return host, port, path, true
}

// parseControlURL finds the <controlURL> element and reads the
// "a.b.c.d:port" endpoint immediately following it. The descriptor is
// scanned literally; the boards emit a fixed layout and full XML
// parsing would accept strictly less than the hardware sends.
func parseControlURL(body string) (netip.Addr, uint16, bool) {
	i := strings.Index(body, controlURLTag)
	if i < 0 {
		return netip.Addr{}, 0, false
	}
	return parseEndpoint(body[i+len(controlURLTag):])
}

// parseEndpoint reads a dotted quad, a colon and a port from the start
// of s. Trailing characters after the port are ignored. Octet and port
// values wrap like the 8- and 16-bit fields they land in.
func parseEndpoint(s string) (netip.Addr, uint16, bool) {
	var quad [4]byte
	for i := range quad {
		v, rest, ok := scanUint(s)
		if !ok {
			return netip.Addr{}, 0, false
		}
		quad[i] = uint8(v)
		s = rest

		sep := byte('.')
		if i == len(quad)-1 {
			sep = ':'
		}
		if len(s) == 0 || s[0] != sep {
			return netip.Addr{}, 0, false
		}
		s = s[1:]
	}
	port, _, ok := scanUint(s)
	if !ok {
		return netip.Addr{}, 0, false
	}
	return netip.AddrFrom4(quad), uint16(port), true
}

// scanUint reads a run of decimal digits from the start of s.
func scanUint(s string) (uint64, string, bool) {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	if n == 0 {
		return 0, s, false
	}
	v, err := strconv.ParseUint(s[:n], 10, 64)
	if err != nil {
		return 0, s, false
	}
	return v, s[n:], true
}
