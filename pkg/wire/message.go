package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Frame size constants.
const (
	// HeaderSize is the size of every fixed request and of the
	// acknowledgement and register responses.
	HeaderSize = 4

	// SettingsResponseSize is the size of a settings-query response.
	SettingsResponseSize = 36

	// SPIRequestHeaderSize is the SPI request layout before the write
	// words.
	SPIRequestHeaderSize = 12

	// SPIResponseHeaderSize is the SPI response layout before the read
	// words.
	SPIResponseHeaderSize = 4
)

// Parameter limits enforced by the client before encoding.
const (
	// MaxRegisterAddr is the highest addressable user register.
	MaxRegisterAddr = 127

	// MinWordLength and MaxWordLength bound the bits-per-word setting
	// of an SPI transfer.
	MinWordLength = 1
	MaxWordLength = 32

	// MaxSPIWords caps the 32-bit word count of one SPI transfer.
	MaxSPIWords = 16384
)

// Sentinel errors returned by the decoders.
var (
	// ErrFrameTooShort indicates a buffer shorter than the frame's
	// fixed layout.
	ErrFrameTooShort = errors.New("frame too short")

	// ErrCommandMismatch indicates a response that echoes a different
	// command than the request.
	ErrCommandMismatch = errors.New("echoed command does not match request")
)

// EncodeWriteRegister builds a register-write request. The value goes
// out big-endian so that a subsequent read of the same register decodes
// to the value written.
func EncodeWriteRegister(addr uint8, value uint16) []byte {
	buf := make([]byte, HeaderSize)
	buf[0] = byte(CmdWriteRegister)
	buf[1] = addr
	binary.BigEndian.PutUint16(buf[2:], value)
	return buf
}

// EncodeReadRegister builds a register-read request.
func EncodeReadRegister(addr uint8) []byte {
	buf := make([]byte, HeaderSize)
	buf[0] = byte(CmdReadRegister)
	buf[1] = addr
	return buf
}

// EncodeMailboxInterrupt builds a mailbox-interrupt request.
func EncodeMailboxInterrupt() []byte {
	buf := make([]byte, HeaderSize)
	buf[0] = byte(CmdMailboxInterrupt)
	return buf
}

// EncodeSettingsQuery builds a settings-query request.
func EncodeSettingsQuery() []byte {
	buf := make([]byte, HeaderSize)
	buf[0] = byte(CmdSettings)
	return buf
}

// DecodeAck decodes the four-byte acknowledgement frame shared by the
// register-write and mailbox-interrupt commands and returns its status
// byte.
func DecodeAck(p []byte, want Command) (Status, error) {
	if len(p) < HeaderSize {
		return 0, fmt.Errorf("%w: ack is %d bytes", ErrFrameTooShort, len(p))
	}
	if Command(p[0]) != want {
		return 0, fmt.Errorf("%w: got %s, want %s", ErrCommandMismatch, Command(p[0]), want)
	}
	return Status(p[1]), nil
}

// DecodeReadRegister decodes a register-read response, returning the
// status byte and the register value converted from wire order.
func DecodeReadRegister(p []byte) (Status, uint16, error) {
	if len(p) < HeaderSize {
		return 0, 0, fmt.Errorf("%w: response is %d bytes", ErrFrameTooShort, len(p))
	}
	if Command(p[0]) != CmdReadRegister {
		return 0, 0, fmt.Errorf("%w: got %s, want %s", ErrCommandMismatch, Command(p[0]), CmdReadRegister)
	}
	return Status(p[1]), binary.BigEndian.Uint16(p[2:]), nil
}
