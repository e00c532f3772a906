package client

import (
	"context"
	"time"

	"github.com/gigex-project/gigex-go/pkg/device"
	"github.com/gigex-project/gigex-go/pkg/log"
	"github.com/gigex-project/gigex-go/pkg/status"
	"github.com/gigex-project/gigex-go/pkg/wire"
)

// SPIRate selects the clock rate of an SPI transfer.
type SPIRate uint8

const (
	// SPIRate35MHz clocks the transfer at 35 MHz.
	SPIRate35MHz SPIRate = 0
	// SPIRate17_5MHz clocks the transfer at 17.5 MHz.
	SPIRate17_5MHz SPIRate = 1
	// SPIRate8_75MHz clocks the transfer at 8.75 MHz.
	SPIRate8_75MHz SPIRate = 2
)

// String returns the rate name.
func (r SPIRate) String() string {
	switch r {
	case SPIRate35MHz:
		return "35MHz"
	case SPIRate17_5MHz:
		return "17.5MHz"
	case SPIRate8_75MHz:
		return "8.75MHz"
	default:
		return "UNKNOWN"
	}
}

// userDeviceID selects the user SPI device on the board's bridge. The
// upper nibble of the device byte carries the clock-rate code.
const userDeviceID = 1

// deviceByte builds the device-selector byte for a rate. Unknown rates
// fall back to the slowest clock.
func deviceByte(r SPIRate) uint8 {
	switch r {
	case SPIRate35MHz:
		return userDeviceID | 0<<4
	case SPIRate17_5MHz:
		return userDeviceID | 1<<4
	default:
		return userDeviceID | 2<<4
	}
}

// SPITransfer describes one transfer through the board's SPI bridge.
// At least one of Write and ReadCount must be set; when both are, they
// must describe the same number of words because the transfer clocks
// both directions simultaneously.
type SPITransfer struct {
	// Rate is the SPI clock rate.
	Rate SPIRate

	// WordLength is the number of bits per SPI word, 1 to 32.
	WordLength int

	// Write is the data to clock out, nil for a read-only transfer.
	Write []uint32

	// ReadCount is the number of words to clock in, zero for a
	// write-only transfer.
	ReadCount int

	// ReleaseCS releases the chip select when the transfer completes,
	// ending the SPI operation. Leave false to hold the device selected
	// across consecutive transfers.
	ReleaseCS bool
}

// words returns the transfer length in words.
func (x *SPITransfer) words() int {
	if len(x.Write) > x.ReadCount {
		return len(x.Write)
	}
	return x.ReadCount
}

// TransferSPI performs one transfer through the board's SPI bridge and
// returns the words clocked in, if any. Transfers are limited to 16384
// words per side.
func (c *Client) TransferSPI(ctx context.Context, card *device.Card, xfer SPITransfer) ([]uint32, error) {
	const op = "TransferSPI"
	if card == nil {
		return nil, c.fail(op, nil, "", status.NullParameter, nil)
	}
	if xfer.Write == nil && xfer.ReadCount == 0 {
		return nil, c.fail(op, card, "", status.NullParameter, nil)
	}
	if xfer.WordLength < wire.MinWordLength || xfer.WordLength > wire.MaxWordLength {
		return nil, c.fail(op, card, "", status.IllegalParameter, nil)
	}
	if len(xfer.Write) > wire.MaxSPIWords || xfer.ReadCount > wire.MaxSPIWords || xfer.ReadCount < 0 {
		return nil, c.fail(op, card, "", status.IllegalParameter, nil)
	}
	if xfer.Write != nil && xfer.ReadCount != 0 && xfer.ReadCount != len(xfer.Write) {
		return nil, c.fail(op, card, "", status.IllegalParameter, nil)
	}

	req := wire.SPIRequest{
		Device:     deviceByte(xfer.Rate),
		WordLength: uint8(xfer.WordLength),
		ReleaseCS:  xfer.ReleaseCS,
		WriteWords: xfer.Write,
		ReadCount:  xfer.ReadCount,
	}

	start := time.Now()
	resp := make([]byte, req.ResponseSize())
	connID, err := c.transact(ctx, card, req.Encode(), resp)
	if err != nil {
		return nil, c.failFrom(op, card, connID, err)
	}

	var sr wire.SPIResponse
	if err := sr.Decode(resp); err != nil || !sr.Status.OK() {
		return nil, c.fail(op, card, connID, status.InternalError, err)
	}

	stByte := uint8(sr.Status)
	words := xfer.words()
	elapsed := time.Since(start)
	c.commandEvent(card, connID, &log.CommandEvent{
		Command: uint8(wire.CmdSPI),
		Words:   &words,
		Status:  &stByte,
		Elapsed: &elapsed,
	})
	return sr.ReadWords, nil
}
