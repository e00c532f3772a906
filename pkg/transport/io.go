package transport

import (
	"errors"
	"io"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/gigex-project/gigex-go/pkg/log"
	"github.com/gigex-project/gigex-go/pkg/status"
)

// Send writes all of p to the card within the timeout. It waits for
// write readiness in slices of at most PollInterval and checks the
// cumulative elapsed time against the budget. Datagram connections
// split p into sends of at most the maximum datagram size. The byte
// count actually transferred is returned even on failure.
func (c *Conn) Send(p []byte, timeout time.Duration) (int, error) {
	if !c.alive.Load() {
		return 0, c.fail("transport.Send", status.IllegalConnection, nil)
	}

	deadline := time.Now().Add(timeout)
	sent := 0
	for sent < len(p) {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return sent, c.fail("transport.Send", status.Timeout, nil)
		}
		slice := remaining
		if slice > PollInterval {
			slice = PollInterval
		}

		var n int
		var err error
		switch c.kind {
		case KindTCP:
			c.stream.SetWriteDeadline(time.Now().Add(slice))
			n, err = c.stream.Write(p[sent:])
		case KindUDP:
			chunk := p[sent:]
			if len(chunk) > c.maxDatagram {
				chunk = chunk[:c.maxDatagram]
			}
			c.packet.SetWriteDeadline(time.Now().Add(slice))
			n, err = c.packet.WriteToUDP(chunk, c.target)
		}
		sent += n
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			return sent, c.fail("transport.Send", ioErrCode(err), err)
		}
	}

	c.frameEvent(log.DirectionOut, p)
	return sent, nil
}

// Recv reads exactly len(p) bytes from the card within the timeout,
// with the same slice discipline as Send. On a datagram connection
// bound to a non-zero local port, datagrams whose sender port differs
// from that local port are dropped without advancing the byte count
// or the deadline. The byte count actually received is returned even
// on failure.
func (c *Conn) Recv(p []byte, timeout time.Duration) (int, error) {
	if !c.alive.Load() {
		return 0, c.fail("transport.Recv", status.IllegalConnection, nil)
	}

	deadline := time.Now().Add(timeout)
	received := 0
	for received < len(p) {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return received, c.fail("transport.Recv", status.Timeout, nil)
		}
		slice := remaining
		if slice > PollInterval {
			slice = PollInterval
		}

		var n int
		var err error
		switch c.kind {
		case KindTCP:
			c.stream.SetReadDeadline(time.Now().Add(slice))
			n, err = c.stream.Read(p[received:])
		case KindUDP:
			var sender *net.UDPAddr
			c.packet.SetReadDeadline(time.Now().Add(slice))
			n, sender, err = c.packet.ReadFromUDP(p[received:])
			if err == nil && c.localPort != 0 && sender.Port != int(c.localPort) {
				continue
			}
		}
		received += n
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			return received, c.fail("transport.Recv", ioErrCode(err), err)
		}
	}

	c.frameEvent(log.DirectionIn, p[:received])
	return received, nil
}

// ioErrCode maps a socket failure to its status code. A closed peer
// surfaces as SocketClosed, everything else as SocketError.
func ioErrCode(err error) status.Code {
	switch {
	case errors.Is(err, io.EOF),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, syscall.ECONNRESET):
		return status.SocketClosed
	default:
		return status.SocketError
	}
}
