package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"strings"
	"time"

	"golang.org/x/net/ipv4"

	"github.com/gigex-project/gigex-go/pkg/device"
	"github.com/gigex-project/gigex-go/pkg/log"
)

// probe runs the search pipeline on one local interface address. All
// failures are reported as events and abandon this interface only.
func (s *Scanner) probe(ctx context.Context, local netip.Addr, wait time.Duration, list *device.List) {
	lc := net.ListenConfig{Control: reuseAddr}
	pc, err := lc.ListenPacket(ctx, "udp4", net.JoinHostPort(local.String(), "0"))
	if err != nil {
		s.probeError("probe", local, err)
		return
	}
	conn := pc.(*net.UDPConn)
	defer conn.Close()

	group := &net.UDPAddr{IP: net.IPv4(239, 255, 255, 250)}
	p := ipv4.NewPacketConn(conn)
	if err := p.JoinGroup(nil, group); err != nil {
		s.probeError("probe", local, err)
		return
	}
	defer p.LeaveGroup(nil, group)

	dst := &net.UDPAddr{IP: group.IP, Port: MulticastPort}
	query := []byte(fmt.Sprintf(searchTemplate, mxSeconds(wait)))
	for i := 0; i < SearchRepeats; i++ {
		if _, err := conn.WriteToUDP(query, dst); err != nil {
			s.probeError("probe", local, err)
			return
		}
	}
	s.stage(&log.DiscoveryEvent{Stage: log.StageSearch, Interface: local.String()})

	s.collect(ctx, conn, local, wait, list)
}

// collect reads search responses until the wait budget is spent. Only
// time spent blocked on the socket is charged against the budget, so a
// slow descriptor fetch does not swallow the remaining listen window.
// Unqualified datagrams never extend the budget.
func (s *Scanner) collect(ctx context.Context, conn *net.UDPConn, local netip.Addr, wait time.Duration, list *device.List) {
	buf := make([]byte, maxResponseSize)
	remaining := wait
	for remaining > 0 && ctx.Err() == nil {
		conn.SetReadDeadline(time.Now().Add(remaining))
		start := time.Now()
		n, _, err := conn.ReadFromUDP(buf)
		remaining -= time.Since(start)
		if err != nil {
			if !errors.Is(err, os.ErrDeadlineExceeded) {
				s.probeError("collect", local, err)
			}
			return
		}
		if n == 0 {
			return
		}
		s.handleResponse(ctx, string(buf[:n]), wait, list)
	}
}

// handleResponse qualifies one search response and follows its
// descriptor. Anything malformed is dropped silently; boards on other
// networks chatter on this group too.
func (s *Scanner) handleResponse(ctx context.Context, resp string, wait time.Duration, list *device.List) {
	if !qualifies(resp) {
		return
	}
	loc, ok := locationValue(resp)
	if !ok {
		return
	}
	s.stage(&log.DiscoveryEvent{Stage: log.StageResponse, Location: loc})
	s.fetchCard(ctx, loc, wait, list)
}

// qualifies reports whether a datagram is a search response from one
// of our boards: a push notification or HTTP 200 status line carrying
// the board marker.
func qualifies(resp string) bool {
	if len(resp) >= 6 && strings.EqualFold(resp[:6], "NOTIFY") {
		return strings.Contains(resp, BoardMarker)
	}
	if len(resp) >= 15 && strings.EqualFold(resp[:15], "HTTP/1.1 200 OK") {
		return strings.Contains(resp, BoardMarker)
	}
	return false
}

// locationValue extracts the LOCATION header's URL, cut at the end of
// its line.
func locationValue(resp string) (string, bool) {
	i := strings.Index(resp, locationHeader)
	if i < 0 {
		return "", false
	}
	v := resp[i+len(locationHeader):]
	v = strings.TrimLeft(v, ": \t")
	if j := strings.IndexAny(v, "\r\n"); j >= 0 {
		v = v[:j]
	}
	if v == "" {
		return "", false
	}
	return v, true
}

// mxSeconds converts the wait budget to the whole-second MX hint,
// rounding up.
func mxSeconds(wait time.Duration) int {
	return int((wait + time.Second - 1) / time.Second)
}
