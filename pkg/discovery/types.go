package discovery

import (
	"context"
	"errors"
	"net/netip"
	"time"

	"github.com/gigex-project/gigex-go/pkg/device"
)

// UPnP search constants.
const (
	// MulticastAddr is the well-known UPnP multicast group.
	MulticastAddr = "239.255.255.250"

	// MulticastPort is the well-known UPnP search port.
	MulticastPort = 1900

	// SearchRepeats is how many times the search query is sent per
	// interface. Multicast datagrams are lossy.
	SearchRepeats = 3

	// BoardMarker is the token a response must carry to count as one
	// of our boards.
	BoardMarker = "GigExpedite2"

	// DefaultWait is the per-scan wait budget used when the caller
	// passes zero.
	DefaultWait = 2 * time.Second
)

// searchTemplate is the M-SEARCH query. The MX field carries the wait
// budget rounded up to whole seconds, hinting how long responders may
// spread their replies.
const searchTemplate = "M-SEARCH * HTTP/1.1\r\n" +
	"ST: upnp:rootdevice\r\n" +
	"MX: %d\r\n" +
	"MAN: \"ssdp:discover\"\r\n" +
	"HOST: 239.255.255.250:1900\r\n"

// locationHeader names the response header carrying the descriptor URL.
const locationHeader = "LOCATION"

// controlURLTag opens the descriptor element that embeds the board's
// control endpoint.
const controlURLTag = "<controlURL>"

// Limits.
const (
	// maxResponseSize bounds one search response datagram.
	maxResponseSize = 1024

	// maxDescriptorSize bounds the descriptor fetch.
	maxDescriptorSize = 64 * 1024
)

// findFirstWaits is the ladder of scan budgets FindFirst walks while a
// board is still powering up.
var findFirstWaits = []time.Duration{
	2 * time.Second,
	3 * time.Second,
	5 * time.Second,
	6 * time.Second,
	7 * time.Second,
	7 * time.Second,
}

// Discovery errors.
var (
	// ErrNoCards indicates that no board answered any scan.
	ErrNoCards = errors.New("no cards found")

	// errBadStatus indicates a descriptor fetch that did not return
	// 200 OK.
	errBadStatus = errors.New("descriptor fetch returned a non-OK status")
)

// SettingsReader queries a board's settings over its control
// connection and fills the card's metadata in place. The client
// satisfies this.
type SettingsReader interface {
	ReadSettings(ctx context.Context, card *device.Card) error
}

// InterfaceLister enumerates the local IPv4 addresses to probe from.
// The default implementation asks the operating system; tests inject
// fixed lists.
type InterfaceLister interface {
	InterfaceAddrs() ([]netip.Addr, error)
}
