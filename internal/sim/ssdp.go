package sim

import (
	"fmt"
	"net"
	"strings"
	"time"

	"golang.org/x/net/ipv4"

	"github.com/gigex-project/gigex-go/pkg/discovery"
	"github.com/gigex-project/gigex-go/pkg/log"
	"github.com/gigex-project/gigex-go/pkg/status"
)

// startResponder binds the search socket and joins the discovery
// group. A failed join is reported but not fatal: the responder keeps
// answering searches sent to its socket directly, which is what tests
// on hosts without multicast routing do.
func (b *Board) startResponder() error {
	addr := b.cfg.SSDPAddr
	if addr == "" {
		addr = fmt.Sprintf(":%d", discovery.MulticastPort)
	}
	lc := net.ListenConfig{Control: reuseAddr}
	pc, err := lc.ListenPacket(b.ctx, "udp4", addr)
	if err != nil {
		return fmt.Errorf("search listen: %w", err)
	}
	conn := pc.(*net.UDPConn)

	group := &net.UDPAddr{IP: net.ParseIP(discovery.MulticastAddr)}
	if err := ipv4.NewPacketConn(conn).JoinGroup(nil, group); err != nil {
		b.logger.Log(log.Event{
			Timestamp: time.Now(),
			Layer:     log.LayerDiscovery,
			Category:  log.CategoryError,
			Error: &log.ErrorEventData{
				Op:      "JoinGroup",
				Code:    status.SocketError,
				Message: err.Error(),
			},
		})
	}

	b.ssdp = conn
	b.wg.Add(1)
	go b.respondLoop(conn)
	return nil
}

func (b *Board) respondLoop(conn *net.UDPConn) {
	defer b.wg.Done()

	buf := make([]byte, 1024)
	for b.running.Load() {
		n, sender, err := conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		if !isSearch(string(buf[:n])) {
			continue
		}
		conn.WriteToUDP([]byte(b.searchResponse()), sender)
	}
}

// isSearch reports whether a datagram is a discovery search.
func isSearch(req string) bool {
	return strings.HasPrefix(req, "M-SEARCH") && strings.Contains(req, "ssdp:discover")
}

func (b *Board) searchResponse() string {
	return "HTTP/1.1 200 OK\r\n" +
		"CACHE-CONTROL: max-age=1800\r\n" +
		"EXT:\r\n" +
		"LOCATION: " + b.DescriptorURL() + "\r\n" +
		"SERVER: GigEx/1.0 UPnP/1.0 " + discovery.BoardMarker + "\r\n" +
		"ST: upnp:rootdevice\r\n" +
		"USN: uuid:" + b.usn + "::upnp:rootdevice\r\n" +
		"\r\n"
}
