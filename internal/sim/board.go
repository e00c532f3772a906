// Package sim implements a software board for development and tests: a
// TCP control server speaking the command protocol, an HTTP server
// publishing the discovery descriptor, and a search responder answering
// on the discovery multicast group.
package sim

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gigex-project/gigex-go/pkg/device"
	"github.com/gigex-project/gigex-go/pkg/log"
	"github.com/gigex-project/gigex-go/pkg/wire"
)

// Config configures a simulated board.
type Config struct {
	// Addr is the control listener address. Empty selects a loopback
	// ephemeral port.
	Addr string

	// HTTPAddr is the descriptor listener address. Empty selects a
	// loopback ephemeral port.
	HTTPAddr string

	// SSDP enables the search responder.
	SSDP bool

	// SSDPAddr is the search responder's listen address. Empty selects
	// the standard search port on all interfaces.
	SSDPAddr string

	// FirmwareVersion, HardwareVersion and SerialNumber seed the
	// settings block. Zero values select the defaults.
	FirmwareVersion uint16
	HardwareVersion uint16
	SerialNumber    uint32

	// Logger receives board-side events. Optional.
	Logger log.Logger
}

// Settings defaults for boards that do not override them.
const (
	DefaultFirmwareVersion uint16 = 0x0206
	DefaultHardwareVersion uint16 = 0x0003
	DefaultSerialNumber    uint32 = 100042
)

// boardStatusIllegal is the status byte the board answers with when a
// request addresses a register it does not have.
const boardStatusIllegal wire.Status = 0x02

// boardMAC is the locally administered address every simulated board
// reports.
var boardMAC = net.HardwareAddr{0x02, 0x67, 0x69, 0x67, 0x65, 0x78}

// Board is a software card. It keeps a 128-register file, a mailbox
// interrupt counter and an SPI read queue, and serves the command
// protocol on its control port. Faults can be injected per command for
// error-path tests.
type Board struct {
	cfg    Config
	logger log.Logger
	usn    string

	firmware uint16
	hardware uint16
	serial   uint32

	listener net.Listener
	control  netip.AddrPort
	httpSrv  *http.Server
	httpPort uint16
	ssdp     *net.UDPConn

	mu         sync.Mutex
	registers  [wire.MaxRegisterAddr + 1]uint16
	interrupts int
	spiQueue   []uint32
	failNext   map[wire.Command]wire.Status
	conns      map[net.Conn]struct{}

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewBoard creates a board. Call Start to bring its servers up.
func NewBoard(cfg Config) *Board {
	b := &Board{
		cfg:      cfg,
		logger:   cfg.Logger,
		usn:      uuid.New().String(),
		firmware: cfg.FirmwareVersion,
		hardware: cfg.HardwareVersion,
		serial:   cfg.SerialNumber,
		failNext: make(map[wire.Command]wire.Status),
		conns:    make(map[net.Conn]struct{}),
	}
	if b.logger == nil {
		b.logger = log.NoopLogger{}
	}
	if b.firmware == 0 {
		b.firmware = DefaultFirmwareVersion
	}
	if b.hardware == 0 {
		b.hardware = DefaultHardwareVersion
	}
	if b.serial == 0 {
		b.serial = DefaultSerialNumber
	}
	return b
}

// Start brings up the control listener, the descriptor server and,
// when enabled, the search responder.
func (b *Board) Start(ctx context.Context) error {
	if b.running.Load() {
		return fmt.Errorf("board already running")
	}
	b.ctx, b.cancel = context.WithCancel(ctx)

	addr := b.cfg.Addr
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	ln, err := net.Listen("tcp4", addr)
	if err != nil {
		return fmt.Errorf("control listen: %w", err)
	}
	b.listener = ln
	b.control = ln.Addr().(*net.TCPAddr).AddrPort()

	if err := b.startDescriptor(); err != nil {
		ln.Close()
		return err
	}
	if b.cfg.SSDP {
		if err := b.startResponder(); err != nil {
			b.httpSrv.Close()
			ln.Close()
			return err
		}
	}

	b.running.Store(true)
	b.wg.Add(1)
	go b.acceptLoop()
	return nil
}

// Stop shuts all servers down and waits for their goroutines.
func (b *Board) Stop() error {
	if !b.running.Load() {
		return nil
	}
	b.running.Store(false)
	b.cancel()

	b.listener.Close()
	if b.ssdp != nil {
		b.ssdp.Close()
	}
	if b.httpSrv != nil {
		b.httpSrv.Close()
	}

	b.mu.Lock()
	for conn := range b.conns {
		conn.Close()
	}
	b.mu.Unlock()

	b.wg.Wait()
	return nil
}

// Addr returns the control endpoint the board is listening on.
func (b *Board) Addr() netip.AddrPort {
	return netip.AddrPortFrom(b.advertisedIP(), b.control.Port())
}

// Card returns a card pointing at the running board.
func (b *Board) Card() *device.Card {
	return device.NewCard(b.advertisedIP(), b.control.Port())
}

// Register returns the current value of one register.
func (b *Board) Register(addr uint8) uint16 {
	if int(addr) >= len(b.registers) {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.registers[addr]
}

// SetRegister seeds one register.
func (b *Board) SetRegister(addr uint8, value uint16) {
	if int(addr) >= len(b.registers) {
		return
	}
	b.mu.Lock()
	b.registers[addr] = value
	b.mu.Unlock()
}

// Interrupts returns the number of mailbox interrupts raised so far.
func (b *Board) Interrupts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.interrupts
}

// QueueSPIRead appends words to the SPI read queue. Transfers consume
// the queue first; past its end the read side echoes the written words
// and then zeros.
func (b *Board) QueueSPIRead(words ...uint32) {
	b.mu.Lock()
	b.spiQueue = append(b.spiQueue, words...)
	b.mu.Unlock()
}

// FailNext arms a one-shot fault: the next request of the given
// command is answered with the status byte and leaves board state
// untouched.
func (b *Board) FailNext(cmd wire.Command, st wire.Status) {
	b.mu.Lock()
	b.failNext[cmd] = st
	b.mu.Unlock()
}

// advertisedIP is the address the board publishes in its settings
// block and discovery descriptor. An unspecified bind address falls
// back to loopback; bind a concrete address to be reachable from other
// hosts.
func (b *Board) advertisedIP() netip.Addr {
	ip := b.control.Addr().Unmap()
	if ip.IsUnspecified() || !ip.Is4() {
		return netip.AddrFrom4([4]byte{127, 0, 0, 1})
	}
	return ip
}

func (b *Board) takeInjected(cmd wire.Command) (wire.Status, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.failNext[cmd]
	if ok {
		delete(b.failNext, cmd)
	}
	return st, ok
}

func (b *Board) acceptLoop() {
	defer b.wg.Done()

	for b.running.Load() {
		conn, err := b.listener.Accept()
		if err != nil {
			if b.running.Load() {
				continue
			}
			return
		}
		b.wg.Add(1)
		go b.handleConn(conn)
	}
}

func (b *Board) handleConn(conn net.Conn) {
	defer b.wg.Done()

	connID := uuid.New().String()
	b.mu.Lock()
	b.conns[conn] = struct{}{}
	b.mu.Unlock()
	b.stateEvent(connID, conn, "open")

	defer func() {
		conn.Close()
		b.mu.Lock()
		delete(b.conns, conn)
		b.mu.Unlock()
		b.stateEvent(connID, conn, "closed")
	}()

	header := make([]byte, wire.HeaderSize)
	for {
		if _, err := io.ReadFull(conn, header); err != nil {
			return
		}
		resp, err := b.dispatch(conn, connID, header)
		if err != nil || resp == nil {
			return
		}
		if _, err := conn.Write(resp); err != nil {
			return
		}
	}
}

// dispatch answers one request. A nil response without an error drops
// the connection; the board has no reply for commands it does not
// know.
func (b *Board) dispatch(conn net.Conn, connID string, header []byte) ([]byte, error) {
	cmd := wire.Command(header[0])
	var resp []byte
	var err error
	switch cmd {
	case wire.CmdWriteRegister:
		resp = b.writeRegister(header)
	case wire.CmdReadRegister:
		resp = b.readRegister(header)
	case wire.CmdMailboxInterrupt:
		resp = b.mailboxInterrupt()
	case wire.CmdSettings:
		resp = b.settingsResponse()
	case wire.CmdSPI:
		resp, err = b.transferSPI(conn, header)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	b.commandEvent(connID, conn, cmd, wire.Status(resp[1]))
	return resp, nil
}

func (b *Board) writeRegister(req []byte) []byte {
	resp := []byte{byte(wire.CmdWriteRegister), 0, 0, 0}
	if st, ok := b.takeInjected(wire.CmdWriteRegister); ok {
		resp[1] = byte(st)
		return resp
	}
	addr := req[1]
	if int(addr) >= len(b.registers) {
		resp[1] = byte(boardStatusIllegal)
		return resp
	}
	value := binary.BigEndian.Uint16(req[2:4])
	b.mu.Lock()
	b.registers[addr] = value
	b.mu.Unlock()
	return resp
}

func (b *Board) readRegister(req []byte) []byte {
	resp := []byte{byte(wire.CmdReadRegister), 0, 0, 0}
	if st, ok := b.takeInjected(wire.CmdReadRegister); ok {
		resp[1] = byte(st)
		return resp
	}
	addr := req[1]
	if int(addr) >= len(b.registers) {
		resp[1] = byte(boardStatusIllegal)
		return resp
	}
	b.mu.Lock()
	value := b.registers[addr]
	b.mu.Unlock()
	binary.BigEndian.PutUint16(resp[2:], value)
	return resp
}

func (b *Board) mailboxInterrupt() []byte {
	resp := []byte{byte(wire.CmdMailboxInterrupt), 0, 0, 0}
	if st, ok := b.takeInjected(wire.CmdMailboxInterrupt); ok {
		resp[1] = byte(st)
		return resp
	}
	b.mu.Lock()
	b.interrupts++
	b.mu.Unlock()
	return resp
}

func (b *Board) settingsResponse() []byte {
	resp := make([]byte, wire.SettingsResponseSize)
	resp[0] = byte(wire.CmdSettings)
	if st, ok := b.takeInjected(wire.CmdSettings); ok {
		resp[1] = byte(st)
		return resp
	}
	binary.BigEndian.PutUint16(resp[4:], b.firmware)
	binary.BigEndian.PutUint16(resp[6:], b.hardware)
	binary.BigEndian.PutUint32(resp[8:], b.serial)
	ip := b.advertisedIP().As4()
	copy(resp[12:16], ip[:])
	gw := ip
	gw[3] = 1
	copy(resp[16:20], gw[:])
	copy(resp[20:24], []byte{255, 255, 255, 0})
	binary.BigEndian.PutUint16(resp[24:], b.httpPort)
	binary.BigEndian.PutUint16(resp[26:], b.control.Port())
	copy(resp[28:34], boardMAC)
	return resp
}

func (b *Board) transferSPI(conn net.Conn, header []byte) ([]byte, error) {
	rest := make([]byte, wire.SPIRequestHeaderSize-wire.HeaderSize)
	if _, err := io.ReadFull(conn, rest); err != nil {
		return nil, err
	}
	writeCount := int(wire.MirrorWord(binary.LittleEndian.Uint32(rest[0:4])))
	readCount := int(wire.MirrorWord(binary.LittleEndian.Uint32(rest[4:8])))
	if writeCount > wire.MaxSPIWords || readCount > wire.MaxSPIWords {
		return nil, fmt.Errorf("word count out of range: write %d read %d", writeCount, readCount)
	}

	payload := make([]byte, 4*writeCount)
	if _, err := io.ReadFull(conn, payload); err != nil {
		return nil, err
	}
	written := make([]uint32, writeCount)
	for i := range written {
		written[i] = wire.MirrorWord(binary.LittleEndian.Uint32(payload[4*i:]))
	}

	resp := make([]byte, wire.SPIResponseHeaderSize+4*readCount)
	resp[0] = byte(wire.CmdSPI)
	if st, ok := b.takeInjected(wire.CmdSPI); ok {
		resp[1] = byte(st)
		return resp, nil
	}
	for i, w := range b.spiRead(written, readCount) {
		binary.LittleEndian.PutUint32(resp[wire.SPIResponseHeaderSize+4*i:], wire.MirrorWord(w))
	}
	return resp, nil
}

// spiRead produces the read side of a transfer: queued words first,
// then an echo of the written words, then zeros.
func (b *Board) spiRead(written []uint32, n int) []uint32 {
	out := make([]uint32, n)

	b.mu.Lock()
	take := n
	if take > len(b.spiQueue) {
		take = len(b.spiQueue)
	}
	copy(out, b.spiQueue[:take])
	b.spiQueue = b.spiQueue[take:]
	b.mu.Unlock()

	for i := take; i < n && i < len(written); i++ {
		out[i] = written[i]
	}
	return out
}

func (b *Board) stateEvent(connID string, conn net.Conn, state string) {
	b.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Layer:        log.LayerTransport,
		Category:     log.CategoryState,
		Device:       conn.RemoteAddr().String(),
		State:        &log.StateChangeEvent{NewState: state},
	})
}

func (b *Board) commandEvent(connID string, conn net.Conn, cmd wire.Command, st wire.Status) {
	stb := uint8(st)
	b.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    log.DirectionOut,
		Layer:        log.LayerProtocol,
		Category:     log.CategoryMessage,
		Device:       conn.RemoteAddr().String(),
		Command: &log.CommandEvent{
			Command: uint8(cmd),
			Status:  &stb,
		},
	})
}
