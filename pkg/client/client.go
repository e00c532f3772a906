package client

import (
	"context"
	"time"

	"github.com/gigex-project/gigex-go/pkg/device"
	"github.com/gigex-project/gigex-go/pkg/log"
	"github.com/gigex-project/gigex-go/pkg/status"
	"github.com/gigex-project/gigex-go/pkg/transport"
)

// Config configures a Client.
type Config struct {
	// Logger receives protocol events and every failure. Nil disables
	// logging.
	Logger log.Logger
}

// Client issues control commands to GigEx cards. A Client holds no
// connection state; each operation opens and closes its own control
// connection, so one Client may be used for any number of cards.
type Client struct {
	logger log.Logger
}

// New creates a Client.
func New(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Client{logger: logger}
}

// OpenData opens a raw data connection to the card, outside the
// command protocol, for bulk transfer applications. The returned Conn
// shares the client's event logger.
func (c *Client) OpenData(ctx context.Context, card *device.Card, kind transport.Kind, remotePort, localPort uint16) (*transport.Conn, error) {
	return transport.Open(ctx, transport.Config{Logger: c.logger}, card, kind, remotePort, localPort)
}

// transact runs one control exchange against the card: open, send req,
// receive exactly len(resp) bytes, close. The connection is closed on
// every path; a close failure surfaces only when the exchange itself
// succeeded. The returned ID correlates log events for the exchange.
func (c *Client) transact(ctx context.Context, card *device.Card, req, resp []byte) (string, error) {
	conn, err := transport.Open(ctx, transport.Config{Logger: c.logger}, card, transport.KindTCP, card.ControlPort, 0)
	if err != nil {
		return "", err
	}

	exchErr := conn.Exchange(req, resp, resp != nil, timeoutFor(card))
	closeErr := conn.Close()
	if exchErr != nil {
		return conn.ID(), exchErr
	}
	return conn.ID(), closeErr
}

// timeoutFor resolves the per-operation time budget of a card.
func timeoutFor(card *device.Card) time.Duration {
	if card.Timeout > 0 {
		return card.Timeout
	}
	return device.DefaultTimeout
}

// fail reports a failure of op to the event sink and returns the
// matching status error.
func (c *Client) fail(op string, card *device.Card, connID string, code status.Code, cause error) error {
	endpoint := ""
	if card != nil {
		endpoint = card.String()
	}
	c.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Layer:        log.LayerProtocol,
		Category:     log.CategoryError,
		Device:       endpoint,
		Error: &log.ErrorEventData{
			Op:      op,
			Code:    code,
			Message: code.Message(),
		},
	})
	return &status.Error{Op: op, Device: endpoint, Code: code, Err: cause}
}

// failFrom rewraps a lower-layer failure under the public operation
// name, preserving its status code.
func (c *Client) failFrom(op string, card *device.Card, connID string, err error) error {
	return c.fail(op, card, connID, status.CodeOf(err), err)
}

// commandEvent reports one successfully completed exchange.
func (c *Client) commandEvent(card *device.Card, connID string, ev *log.CommandEvent) {
	c.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    log.DirectionOut,
		Layer:        log.LayerProtocol,
		Category:     log.CategoryMessage,
		Device:       card.String(),
		Command:      ev,
	})
}
