package wire

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// MirrorWord reverses the byte order of one 32-bit SPI cell. The boards
// transfer SPI word counts and payload words with their four bytes
// mirrored; the mirror is its own inverse.
func MirrorWord(v uint32) uint32 {
	return bits.ReverseBytes32(v)
}

// putSPIWord stores a 32-bit cell in wire order: mirrored, low byte
// first, which puts the most significant byte of the original value on
// the wire first.
func putSPIWord(p []byte, v uint32) {
	binary.LittleEndian.PutUint32(p, MirrorWord(v))
}

// spiWord loads a 32-bit cell from wire order.
func spiWord(p []byte) uint32 {
	return MirrorWord(binary.LittleEndian.Uint32(p))
}

// SPIRequest describes one SPI transfer through the board's bridge.
type SPIRequest struct {
	// Device is the device-selector byte, carrying the target SPI
	// device ID and the clock-rate bits.
	Device uint8

	// WordLength is the number of bits per SPI word, 1 to 32.
	WordLength uint8

	// ReleaseCS releases the chip select when the transfer completes.
	ReleaseCS bool

	// WriteWords is the data clocked out, nil when the write side is
	// unused.
	WriteWords []uint32

	// ReadCount is the number of words to clock in, zero when the read
	// side is unused.
	ReadCount int
}

// Encode builds the request frame.
func (r *SPIRequest) Encode() []byte {
	buf := make([]byte, SPIRequestHeaderSize+4*len(r.WriteWords))
	buf[0] = byte(CmdSPI)
	buf[1] = r.Device
	buf[2] = r.WordLength
	if r.ReleaseCS {
		buf[3] = 1
	}
	putSPIWord(buf[4:], uint32(len(r.WriteWords)))
	putSPIWord(buf[8:], uint32(r.ReadCount))
	for i, w := range r.WriteWords {
		putSPIWord(buf[SPIRequestHeaderSize+4*i:], w)
	}
	return buf
}

// ResponseSize returns the exact size of the response this request
// produces.
func (r *SPIRequest) ResponseSize() int {
	return SPIResponseHeaderSize + 4*r.ReadCount
}

// SPIResponse is the decoded response of an SPI transfer.
type SPIResponse struct {
	// Status is the board's status byte.
	Status Status

	// ReadWords is the data clocked in, empty when the read side was
	// unused.
	ReadWords []uint32
}

// Decode parses a response frame. The word count is derived from the
// frame length; the transaction layer has already enforced the exact
// expected size.
func (r *SPIResponse) Decode(p []byte) error {
	if len(p) < SPIResponseHeaderSize {
		return fmt.Errorf("%w: SPI response is %d bytes", ErrFrameTooShort, len(p))
	}
	if Command(p[0]) != CmdSPI {
		return fmt.Errorf("%w: got %s, want %s", ErrCommandMismatch, Command(p[0]), CmdSPI)
	}
	r.Status = Status(p[1])
	n := (len(p) - SPIResponseHeaderSize) / 4
	r.ReadWords = make([]uint32, n)
	for i := range r.ReadWords {
		r.ReadWords[i] = spiWord(p[SPIResponseHeaderSize+4*i:])
	}
	return nil
}
