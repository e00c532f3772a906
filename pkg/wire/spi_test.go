package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestMirrorWordSelfInverse(t *testing.T) {
	values := []uint32{0x00000000, 0xFFFFFFFF, 0x12345678, 0xA5C3E1F0, 0x00000001, 0x80000000}
	for _, v := range values {
		if got := MirrorWord(MirrorWord(v)); got != v {
			t.Errorf("MirrorWord(MirrorWord(%#08x)) = %#08x, want the original", v, got)
		}
	}
}

func TestMirrorWord(t *testing.T) {
	if got := MirrorWord(0x12345678); got != 0x78563412 {
		t.Errorf("MirrorWord(0x12345678) = %#08x, want 0x78563412", got)
	}
}

func TestSPIRequestEncode(t *testing.T) {
	req := SPIRequest{
		Device:     0x11,
		WordLength: 16,
		ReleaseCS:  true,
		WriteWords: []uint32{0x12345678},
		ReadCount:  1,
	}

	got := req.Encode()
	want := []byte{
		0xee, 0x11, 0x10, 0x01,
		0x00, 0x00, 0x00, 0x01, // one write word
		0x00, 0x00, 0x00, 0x01, // one read word
		0x12, 0x34, 0x56, 0x78, // mirrored payload lands MSB-first
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode() = % x, want % x", got, want)
	}
	if req.ResponseSize() != 8 {
		t.Errorf("ResponseSize() = %d, want 8", req.ResponseSize())
	}
}

func TestSPIRequestWriteOnly(t *testing.T) {
	req := SPIRequest{
		Device:     0x01,
		WordLength: 32,
		WriteWords: []uint32{0xAABBCCDD, 0x00000001},
	}

	got := req.Encode()
	if len(got) != SPIRequestHeaderSize+8 {
		t.Fatalf("frame is %d bytes, want %d", len(got), SPIRequestHeaderSize+8)
	}
	if !bytes.Equal(got[4:8], []byte{0x00, 0x00, 0x00, 0x02}) {
		t.Errorf("write count bytes = % x, want 00 00 00 02", got[4:8])
	}
	if !bytes.Equal(got[8:12], []byte{0x00, 0x00, 0x00, 0x00}) {
		t.Errorf("read count bytes = % x, want zero", got[8:12])
	}
	if req.ResponseSize() != SPIResponseHeaderSize {
		t.Errorf("ResponseSize() = %d, want %d", req.ResponseSize(), SPIResponseHeaderSize)
	}
}

func TestSPIRequestReadOnly(t *testing.T) {
	req := SPIRequest{
		Device:     0x01,
		WordLength: 8,
		ReadCount:  3,
	}

	got := req.Encode()
	if len(got) != SPIRequestHeaderSize {
		t.Fatalf("frame is %d bytes, want %d (no payload on the read side)", len(got), SPIRequestHeaderSize)
	}
	if !bytes.Equal(got[4:8], []byte{0x00, 0x00, 0x00, 0x00}) {
		t.Errorf("write count bytes = % x, want zero", got[4:8])
	}
	if !bytes.Equal(got[8:12], []byte{0x00, 0x00, 0x00, 0x03}) {
		t.Errorf("read count bytes = % x, want 00 00 00 03", got[8:12])
	}
	if req.ResponseSize() != SPIResponseHeaderSize+12 {
		t.Errorf("ResponseSize() = %d, want %d", req.ResponseSize(), SPIResponseHeaderSize+12)
	}
}

func TestSPIResponseDecode(t *testing.T) {
	frame := []byte{
		0xee, 0x00, 0x00, 0x00,
		0x12, 0x34, 0x56, 0x78,
		0xFF, 0xFF, 0xFF, 0xFF,
	}

	var resp SPIResponse
	if err := resp.Decode(frame); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !resp.Status.OK() {
		t.Errorf("status = %v, want OK", resp.Status)
	}
	want := []uint32{0x12345678, 0xFFFFFFFF}
	if len(resp.ReadWords) != len(want) {
		t.Fatalf("got %d words, want %d", len(resp.ReadWords), len(want))
	}
	for i := range want {
		if resp.ReadWords[i] != want[i] {
			t.Errorf("word %d = %#08x, want %#08x", i, resp.ReadWords[i], want[i])
		}
	}
}

func TestSPIResponseDecodeErrors(t *testing.T) {
	var resp SPIResponse

	err := resp.Decode([]byte{0xee, 0x00})
	if !errors.Is(err, ErrFrameTooShort) {
		t.Errorf("short frame error = %v, want ErrFrameTooShort", err)
	}

	err = resp.Decode([]byte{0xf6, 0x00, 0x00, 0x00})
	if !errors.Is(err, ErrCommandMismatch) {
		t.Errorf("mismatch error = %v, want ErrCommandMismatch", err)
	}
}

func TestSPIWordRoundTrip(t *testing.T) {
	// Words written into a request and read back from a response built
	// of the same bytes must survive unchanged.
	words := []uint32{0x00000000, 0xFFFFFFFF, 0x12345678, 0xDEADBEEF}
	req := SPIRequest{
		Device:     0x01,
		WordLength: 32,
		WriteWords: words,
		ReadCount:  len(words),
	}
	frame := req.Encode()

	echo := make([]byte, SPIResponseHeaderSize+4*len(words))
	echo[0] = byte(CmdSPI)
	copy(echo[SPIResponseHeaderSize:], frame[SPIRequestHeaderSize:])

	var resp SPIResponse
	if err := resp.Decode(echo); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	for i := range words {
		if resp.ReadWords[i] != words[i] {
			t.Errorf("word %d = %#08x, want %#08x", i, resp.ReadWords[i], words[i])
		}
	}
}
