package client

import (
	"context"
	"time"

	"github.com/gigex-project/gigex-go/pkg/device"
	"github.com/gigex-project/gigex-go/pkg/log"
	"github.com/gigex-project/gigex-go/pkg/status"
	"github.com/gigex-project/gigex-go/pkg/wire"
)

// WriteRegister writes a 16-bit value to one of the board's user
// registers. Valid addresses are 0 to 127.
func (c *Client) WriteRegister(ctx context.Context, card *device.Card, addr uint8, value uint16) error {
	const op = "WriteRegister"
	if card == nil {
		return c.fail(op, nil, "", status.NullParameter, nil)
	}
	if addr > wire.MaxRegisterAddr {
		return c.fail(op, card, "", status.IllegalParameter, nil)
	}

	start := time.Now()
	resp := make([]byte, wire.HeaderSize)
	connID, err := c.transact(ctx, card, wire.EncodeWriteRegister(addr, value), resp)
	if err != nil {
		return c.failFrom(op, card, connID, err)
	}

	st, err := wire.DecodeAck(resp, wire.CmdWriteRegister)
	if err != nil || !st.OK() {
		return c.fail(op, card, connID, status.InternalError, err)
	}

	stByte := uint8(st)
	elapsed := time.Since(start)
	c.commandEvent(card, connID, &log.CommandEvent{
		Command: uint8(wire.CmdWriteRegister),
		Addr:    &addr,
		Value:   &value,
		Status:  &stByte,
		Elapsed: &elapsed,
	})
	return nil
}

// ReadRegister reads a 16-bit value from one of the board's user
// registers. Valid addresses are 0 to 127.
func (c *Client) ReadRegister(ctx context.Context, card *device.Card, addr uint8) (uint16, error) {
	const op = "ReadRegister"
	if card == nil {
		return 0, c.fail(op, nil, "", status.NullParameter, nil)
	}
	if addr > wire.MaxRegisterAddr {
		return 0, c.fail(op, card, "", status.IllegalParameter, nil)
	}

	start := time.Now()
	resp := make([]byte, wire.HeaderSize)
	connID, err := c.transact(ctx, card, wire.EncodeReadRegister(addr), resp)
	if err != nil {
		return 0, c.failFrom(op, card, connID, err)
	}

	st, value, err := wire.DecodeReadRegister(resp)
	if err != nil || !st.OK() {
		return 0, c.fail(op, card, connID, status.InternalError, err)
	}

	stByte := uint8(st)
	elapsed := time.Since(start)
	c.commandEvent(card, connID, &log.CommandEvent{
		Command: uint8(wire.CmdReadRegister),
		Addr:    &addr,
		Value:   &value,
		Status:  &stByte,
		Elapsed: &elapsed,
	})
	return value, nil
}

// SetInterrupt raises the board's mailbox interrupt, signalling the
// FPGA application that host data is waiting.
func (c *Client) SetInterrupt(ctx context.Context, card *device.Card) error {
	const op = "SetInterrupt"
	if card == nil {
		return c.fail(op, nil, "", status.NullParameter, nil)
	}

	start := time.Now()
	resp := make([]byte, wire.HeaderSize)
	connID, err := c.transact(ctx, card, wire.EncodeMailboxInterrupt(), resp)
	if err != nil {
		return c.failFrom(op, card, connID, err)
	}

	st, err := wire.DecodeAck(resp, wire.CmdMailboxInterrupt)
	if err != nil || !st.OK() {
		return c.fail(op, card, connID, status.InternalError, err)
	}

	stByte := uint8(st)
	elapsed := time.Since(start)
	c.commandEvent(card, connID, &log.CommandEvent{
		Command: uint8(wire.CmdMailboxInterrupt),
		Status:  &stByte,
		Elapsed: &elapsed,
	})
	return nil
}

// ReadSettings queries the card's flash settings and stores the
// returned metadata on the card: firmware and hardware versions,
// serial number, gateway, subnet, MAC address and the two service
// ports. The card's address itself is left untouched.
func (c *Client) ReadSettings(ctx context.Context, card *device.Card) error {
	const op = "ReadSettings"
	if card == nil {
		return c.fail(op, nil, "", status.NullParameter, nil)
	}

	start := time.Now()
	resp := make([]byte, wire.SettingsResponseSize)
	connID, err := c.transact(ctx, card, wire.EncodeSettingsQuery(), resp)
	if err != nil {
		return c.failFrom(op, card, connID, err)
	}

	settings, err := wire.DecodeSettings(resp)
	if err != nil || !settings.Status.OK() {
		return c.fail(op, card, connID, status.InternalError, err)
	}

	card.FirmwareVersion = settings.FirmwareVersion
	card.HardwareVersion = settings.HardwareVersion
	card.SerialNumber = settings.SerialNumber
	card.Gateway = settings.Gateway
	card.Subnet = settings.Subnet
	card.MAC = settings.MAC
	card.HTTPPort = settings.HTTPPort
	card.ControlPort = settings.ControlPort

	stByte := uint8(settings.Status)
	elapsed := time.Since(start)
	c.commandEvent(card, connID, &log.CommandEvent{
		Command: uint8(wire.CmdSettings),
		Status:  &stByte,
		Elapsed: &elapsed,
	})
	return nil
}
