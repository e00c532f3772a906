package device

import (
	"net"
	"net/netip"
	"strconv"
	"time"
)

const (
	// DefaultControlPort is the TCP port the boards listen on for
	// command connections unless reconfigured.
	DefaultControlPort uint16 = 20482

	// DefaultTimeout is the per-operation time budget stamped onto
	// cards that do not carry an explicit one.
	DefaultTimeout = 10 * time.Second

	// FirmwareFallbackFlag is set in FirmwareVersion when the board is
	// running its factory fallback image rather than the main firmware.
	FirmwareFallbackFlag uint16 = 0x8000
)

// Card identifies one board and carries its per-operation settings.
type Card struct {
	// Addr is the board's IPv4 address.
	Addr netip.Addr

	// ControlPort is the TCP port accepting command connections.
	ControlPort uint16

	// Timeout bounds each send and receive issued against this card.
	Timeout time.Duration

	// Metadata below is filled in by the settings query and is
	// read-only for callers.

	// FirmwareVersion is the running firmware revision. Mask with
	// FirmwareFallbackFlag before interpreting the numeric value.
	FirmwareVersion uint16

	// HardwareVersion is the board hardware revision.
	HardwareVersion uint16

	// SerialNumber is the board's factory serial number.
	SerialNumber uint32

	// Gateway and Subnet describe the board's IP configuration.
	Gateway netip.Addr
	Subnet  netip.Addr

	// MAC is the board's Ethernet address.
	MAC net.HardwareAddr

	// HTTPPort serves the board's configuration pages and the
	// discovery descriptor.
	HTTPPort uint16
}

// NewCard returns a Card for a known address. A zero port selects
// DefaultControlPort. The card starts with DefaultTimeout.
func NewCard(addr netip.Addr, controlPort uint16) *Card {
	if controlPort == 0 {
		controlPort = DefaultControlPort
	}
	return &Card{
		Addr:        addr,
		ControlPort: controlPort,
		Timeout:     DefaultTimeout,
	}
}

// Endpoint returns the card's control endpoint as "ip:port".
func (c *Card) Endpoint() string {
	return net.JoinHostPort(c.Addr.String(), strconv.Itoa(int(c.ControlPort)))
}

// FirmwareFallback reports whether the board is running its fallback
// firmware image.
func (c *Card) FirmwareFallback() bool {
	return c.FirmwareVersion&FirmwareFallbackFlag != 0
}

// String returns the card's control endpoint.
func (c *Card) String() string {
	if c == nil {
		return "<nil>"
	}
	return c.Endpoint()
}
