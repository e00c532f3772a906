package transport

import (
	"time"

	"github.com/gigex-project/gigex-go/pkg/status"
)

// Exchange performs one request/response transaction: it sends all of
// req, then receives exactly len(resp) bytes into resp. A short send
// fails with InternalError since the protocol cannot resume a partial
// command. When waitForResponse is false the response phase is skipped
// (fire-and-forget commands). The send and receive phases are each
// bounded by timeout.
func (c *Conn) Exchange(req, resp []byte, waitForResponse bool, timeout time.Duration) error {
	n, err := c.Send(req, timeout)
	if err != nil {
		return err
	}
	if n != len(req) {
		return c.fail("transport.Exchange", status.InternalError, nil)
	}

	if !waitForResponse {
		return nil
	}

	n, err = c.Recv(resp, timeout)
	if err != nil {
		return err
	}
	if n != len(resp) {
		return c.fail("transport.Exchange", status.InternalError, nil)
	}
	return nil
}
