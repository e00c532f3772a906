package transport

import (
	"context"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gigex-project/gigex-go/pkg/device"
	"github.com/gigex-project/gigex-go/pkg/log"
	"github.com/gigex-project/gigex-go/pkg/status"
)

// Kind selects the transport for a connection.
type Kind uint8

const (
	// KindTCP is a connected stream socket, used for control
	// transactions and stream data transfer.
	KindTCP Kind = iota

	// KindUDP is an unconnected datagram socket with an explicit
	// per-send target, used for datagram data transfer.
	KindUDP
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindTCP:
		return "TCP"
	case KindUDP:
		return "UDP"
	default:
		return "UNKNOWN"
	}
}

// Transport constants.
const (
	// PollInterval caps one readiness wait. Send and Recv wait in
	// slices of this length so cumulative timeouts stay responsive.
	PollInterval = time.Second

	// DefaultMaxDatagramSize is the largest UDP payload sent in one
	// datagram where the platform offers no better figure.
	DefaultMaxDatagramSize = 65507

	// MaxLogFrameDataSize is the maximum transfer size to include in
	// log events. Larger transfers are truncated in the event data.
	MaxLogFrameDataSize = 4096
)

// Config configures connections opened by Open.
type Config struct {
	// Logger receives transport events and every transport failure.
	// Nil disables logging.
	Logger log.Logger

	// MaxDatagramSize caps one datagram send. Zero selects
	// DefaultMaxDatagramSize.
	MaxDatagramSize int
}

// Conn is an open transport session to one card. A Conn carries one
// transaction and is then closed; it is not safe for concurrent use.
type Conn struct {
	id          string
	kind        Kind
	device      string
	stream      net.Conn
	packet      *net.UDPConn
	target      *net.UDPAddr
	localPort   uint16
	maxDatagram int
	logger      log.Logger
	alive       atomic.Bool
}

// Open opens a transport session to the card. For KindTCP it connects
// to the card's address at remotePort, trying each resolved candidate
// in order. For KindUDP it binds an unconnected socket to localPort
// (zero selects an ephemeral port) and records the target for
// per-send addressing. The context bounds connection establishment
// only; later sends and receives are bounded by their own timeouts.
func Open(ctx context.Context, cfg Config, card *device.Card, kind Kind, remotePort, localPort uint16) (*Conn, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NoopLogger{}
	}

	c := &Conn{
		id:          uuid.NewString(),
		kind:        kind,
		localPort:   localPort,
		maxDatagram: cfg.MaxDatagramSize,
		logger:      logger,
	}
	if c.maxDatagram == 0 {
		c.maxDatagram = DefaultMaxDatagramSize
	}

	if card == nil {
		return nil, c.fail("transport.Open", status.NullParameter, nil)
	}
	c.device = card.String()
	if !card.Addr.Is4() {
		return nil, c.fail("transport.Open", status.IllegalParameter, nil)
	}

	ip := card.Addr.As4()
	switch kind {
	case KindTCP:
		dialer := &net.Dialer{}
		if localPort != 0 {
			dialer.LocalAddr = &net.TCPAddr{Port: int(localPort)}
		}
		addr := net.JoinHostPort(card.Addr.String(), strconv.Itoa(int(remotePort)))
		stream, err := dialer.DialContext(ctx, "tcp4", addr)
		if err != nil {
			return nil, c.fail("transport.Open", status.SocketError, err)
		}
		c.stream = stream

	case KindUDP:
		packet, err := net.ListenUDP("udp4", &net.UDPAddr{Port: int(localPort)})
		if err != nil {
			return nil, c.fail("transport.Open", status.SocketError, err)
		}
		c.packet = packet
		c.target = &net.UDPAddr{IP: net.IP(ip[:]), Port: int(remotePort)}

	default:
		return nil, c.fail("transport.Open", status.InvalidConnectionType, nil)
	}

	c.alive.Store(true)
	c.stateEvent("open", kind.String())
	return c, nil
}

// ID returns the connection's unique identifier, used to correlate
// log events.
func (c *Conn) ID() string {
	return c.id
}

// Kind returns the connection's transport kind.
func (c *Conn) Kind() Kind {
	return c.kind
}

// LocalAddr returns the local socket address.
func (c *Conn) LocalAddr() net.Addr {
	if c.stream != nil {
		return c.stream.LocalAddr()
	}
	if c.packet != nil {
		return c.packet.LocalAddr()
	}
	return nil
}

// Close releases the connection's socket. Closing an already-closed
// Conn fails with an IllegalConnection status; the socket itself is
// released exactly once.
func (c *Conn) Close() error {
	if !c.alive.CompareAndSwap(true, false) {
		return c.fail("transport.Close", status.IllegalConnection, nil)
	}

	var err error
	if c.stream != nil {
		err = c.stream.Close()
	}
	if c.packet != nil {
		err = c.packet.Close()
	}
	c.stateEvent("closed", "")
	if err != nil {
		return c.fail("transport.Close", status.SocketError, err)
	}
	return nil
}

// fail builds the status error for a failure and reports it to the
// event sink.
func (c *Conn) fail(op string, code status.Code, cause error) error {
	c.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.id,
		Layer:        log.LayerTransport,
		Category:     log.CategoryError,
		Device:       c.device,
		Error: &log.ErrorEventData{
			Op:      op,
			Code:    code,
			Message: code.Message(),
		},
	})
	return &status.Error{Op: op, Device: c.device, Code: code, Err: cause}
}

// stateEvent reports a connection lifecycle change.
func (c *Conn) stateEvent(state, reason string) {
	c.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.id,
		Layer:        log.LayerTransport,
		Category:     log.CategoryState,
		Device:       c.device,
		State: &log.StateChangeEvent{
			NewState: state,
			Reason:   reason,
		},
	})
}

// frameEvent reports one completed transfer.
func (c *Conn) frameEvent(direction log.Direction, data []byte) {
	size := len(data)
	truncated := false
	if len(data) > MaxLogFrameDataSize {
		data = data[:MaxLogFrameDataSize]
		truncated = true
	}
	c.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.id,
		Direction:    direction,
		Layer:        log.LayerTransport,
		Category:     log.CategoryMessage,
		Device:       c.device,
		Frame: &log.FrameEvent{
			Size:      size,
			Data:      data,
			Truncated: truncated,
		},
	})
}
