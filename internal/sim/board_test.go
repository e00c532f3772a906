package sim

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigex-project/gigex-go/pkg/client"
	"github.com/gigex-project/gigex-go/pkg/status"
	"github.com/gigex-project/gigex-go/pkg/wire"
)

func startBoard(t *testing.T, cfg Config) *Board {
	t.Helper()
	b := NewBoard(cfg)
	require.NoError(t, b.Start(context.Background()))
	t.Cleanup(func() { b.Stop() })
	return b
}

func TestRegisterRoundTrip(t *testing.T) {
	b := startBoard(t, Config{})
	c := client.New(client.Config{})
	ctx := context.Background()
	card := b.Card()

	require.NoError(t, c.WriteRegister(ctx, card, 5, 0xBEEF))
	assert.Equal(t, uint16(0xBEEF), b.Register(5))

	v, err := c.ReadRegister(ctx, card, 5)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), v)

	v, err = c.ReadRegister(ctx, card, 6)
	require.NoError(t, err)
	assert.Equal(t, uint16(0), v, "untouched register reads zero")
}

func TestMailboxInterrupts(t *testing.T) {
	b := startBoard(t, Config{})
	c := client.New(client.Config{})
	ctx := context.Background()
	card := b.Card()

	require.NoError(t, c.SetInterrupt(ctx, card))
	require.NoError(t, c.SetInterrupt(ctx, card))
	assert.Equal(t, 2, b.Interrupts())

	b.FailNext(wire.CmdMailboxInterrupt, 0x01)
	err := c.SetInterrupt(ctx, card)
	require.Error(t, err)
	assert.Equal(t, status.InternalError, status.CodeOf(err))
	assert.Equal(t, 2, b.Interrupts(), "rejected interrupt must not count")
}

func TestSettings(t *testing.T) {
	b := startBoard(t, Config{
		FirmwareVersion: 0x0301,
		HardwareVersion: 0x0004,
		SerialNumber:    777,
	})
	c := client.New(client.Config{})
	card := b.Card()

	require.NoError(t, c.ReadSettings(context.Background(), card))
	assert.Equal(t, uint16(0x0301), card.FirmwareVersion)
	assert.Equal(t, uint16(0x0004), card.HardwareVersion)
	assert.Equal(t, uint32(777), card.SerialNumber)
	assert.Equal(t, b.Addr().Port(), card.ControlPort)
	assert.Equal(t, boardMAC.String(), card.MAC.String())
	assert.False(t, card.FirmwareFallback())
}

func TestSPIEcho(t *testing.T) {
	b := startBoard(t, Config{})
	c := client.New(client.Config{})

	words, err := c.TransferSPI(context.Background(), b.Card(), client.SPITransfer{
		WordLength: 16,
		Write:      []uint32{0x1234, 0x5678},
		ReadCount:  2,
		ReleaseCS:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, []uint32{0x1234, 0x5678}, words)
}

func TestSPIQueuedReads(t *testing.T) {
	b := startBoard(t, Config{})
	b.QueueSPIRead(0xDEADBEEF)
	c := client.New(client.Config{})

	words, err := c.TransferSPI(context.Background(), b.Card(), client.SPITransfer{
		WordLength: 32,
		ReadCount:  3,
	})
	require.NoError(t, err)
	assert.Equal(t, []uint32{0xDEADBEEF, 0, 0}, words, "queue first, zeros past the write side")
}

func TestFailNext(t *testing.T) {
	b := startBoard(t, Config{})
	b.SetRegister(9, 0x1111)
	b.FailNext(wire.CmdWriteRegister, 0x07)
	c := client.New(client.Config{})
	ctx := context.Background()
	card := b.Card()

	err := c.WriteRegister(ctx, card, 9, 0x2222)
	require.Error(t, err)
	assert.Equal(t, status.InternalError, status.CodeOf(err))
	assert.Equal(t, uint16(0x1111), b.Register(9), "failed write must not change the register")

	// The fault is one-shot.
	require.NoError(t, c.WriteRegister(ctx, card, 9, 0x2222))
	assert.Equal(t, uint16(0x2222), b.Register(9))
}

func TestUnknownCommandDropsConnection(t *testing.T) {
	b := startBoard(t, Config{})

	conn, err := net.Dial("tcp", b.Card().Endpoint())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte{0x42, 0, 0, 0})
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err = conn.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF)
}

func TestDescriptorEndpoint(t *testing.T) {
	b := startBoard(t, Config{})

	resp, err := http.Get(b.DescriptorURL())
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "<controlURL>"+b.Card().Endpoint()+"/control</controlURL>")
}

func TestStopIsIdempotent(t *testing.T) {
	b := NewBoard(Config{})
	require.NoError(t, b.Start(context.Background()))
	require.NoError(t, b.Stop())
	require.NoError(t, b.Stop())
}
