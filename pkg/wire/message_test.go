package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeWriteRegister(t *testing.T) {
	tests := []struct {
		name  string
		addr  uint8
		value uint16
		want  []byte
	}{
		{
			name:  "value with distinct bytes",
			addr:  5,
			value: 0x1234,
			want:  []byte{0xf6, 0x05, 0x12, 0x34},
		},
		{
			name:  "zero value",
			addr:  0,
			value: 0,
			want:  []byte{0xf6, 0x00, 0x00, 0x00},
		},
		{
			name:  "max address max value",
			addr:  127,
			value: 0xffff,
			want:  []byte{0xf6, 0x7f, 0xff, 0xff},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeWriteRegister(tt.addr, tt.value)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("EncodeWriteRegister(%d, %#04x) = % x, want % x", tt.addr, tt.value, got, tt.want)
			}
		})
	}
}

func TestEncodeReadRegister(t *testing.T) {
	got := EncodeReadRegister(7)
	want := []byte{0xf7, 0x07, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeReadRegister(7) = % x, want % x", got, want)
	}
}

func TestEncodeMailboxInterrupt(t *testing.T) {
	got := EncodeMailboxInterrupt()
	want := []byte{0xf8, 0x00, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeMailboxInterrupt() = % x, want % x", got, want)
	}
}

func TestEncodeSettingsQuery(t *testing.T) {
	got := EncodeSettingsQuery()
	want := []byte{0xf0, 0x00, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeSettingsQuery() = % x, want % x", got, want)
	}
}

func TestDecodeAck(t *testing.T) {
	tests := []struct {
		name       string
		frame      []byte
		want       Command
		wantStatus Status
		wantErr    error
	}{
		{
			name:       "write register ok",
			frame:      []byte{0xf6, 0x00, 0x00, 0x00},
			want:       CmdWriteRegister,
			wantStatus: StatusOK,
		},
		{
			name:       "mailbox error status passes through",
			frame:      []byte{0xf8, 0x09, 0x00, 0x00},
			want:       CmdMailboxInterrupt,
			wantStatus: Status(0x09),
		},
		{
			name:    "echoed command mismatch",
			frame:   []byte{0xf7, 0x00, 0x00, 0x00},
			want:    CmdWriteRegister,
			wantErr: ErrCommandMismatch,
		},
		{
			name:    "short frame",
			frame:   []byte{0xf6, 0x00},
			want:    CmdWriteRegister,
			wantErr: ErrFrameTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := DecodeAck(tt.frame, tt.want)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodeAck error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeAck failed: %v", err)
			}
			if status != tt.wantStatus {
				t.Errorf("status = %v, want %v", status, tt.wantStatus)
			}
		})
	}
}

func TestDecodeReadRegister(t *testing.T) {
	tests := []struct {
		name       string
		frame      []byte
		wantStatus Status
		wantValue  uint16
		wantErr    error
	}{
		{
			name:       "value round trip",
			frame:      []byte{0xf7, 0x00, 0x12, 0x34},
			wantStatus: StatusOK,
			wantValue:  0x1234,
		},
		{
			name:       "high byte only",
			frame:      []byte{0xf7, 0x00, 0xab, 0x00},
			wantStatus: StatusOK,
			wantValue:  0xab00,
		},
		{
			name:    "wrong command echoed",
			frame:   []byte{0xf6, 0x00, 0x12, 0x34},
			wantErr: ErrCommandMismatch,
		},
		{
			name:    "truncated",
			frame:   []byte{0xf7},
			wantErr: ErrFrameTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, value, err := DecodeReadRegister(tt.frame)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodeReadRegister error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeReadRegister failed: %v", err)
			}
			if status != tt.wantStatus {
				t.Errorf("status = %v, want %v", status, tt.wantStatus)
			}
			if value != tt.wantValue {
				t.Errorf("value = %#04x, want %#04x", value, tt.wantValue)
			}
		})
	}
}

func TestWriteReadRegisterRoundTrip(t *testing.T) {
	// A write frame for a value followed by a read response carrying the
	// same bytes must yield the original value.
	req := EncodeWriteRegister(5, 0x1234)

	resp := []byte{byte(CmdReadRegister), 0x00, req[2], req[3]}
	_, value, err := DecodeReadRegister(resp)
	if err != nil {
		t.Fatalf("DecodeReadRegister failed: %v", err)
	}
	if value != 0x1234 {
		t.Errorf("round trip value = %#04x, want 0x1234", value)
	}
}

func TestCommandString(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{CmdSPI, "SPI"},
		{CmdSettings, "SETTINGS"},
		{CmdWriteRegister, "WRITE_REGISTER"},
		{CmdReadRegister, "READ_REGISTER"},
		{CmdMailboxInterrupt, "MAILBOX_INTERRUPT"},
		{Command(0x42), "UNKNOWN(0x42)"},
	}

	for _, tt := range tests {
		if got := tt.cmd.String(); got != tt.want {
			t.Errorf("Command(%#02x).String() = %q, want %q", uint8(tt.cmd), got, tt.want)
		}
	}
}

func TestStatusString(t *testing.T) {
	if got := StatusOK.String(); got != "OK" {
		t.Errorf("StatusOK.String() = %q, want OK", got)
	}
	if got := Status(0x09).String(); got != "ERROR(0x09)" {
		t.Errorf("Status(0x09).String() = %q, want ERROR(0x09)", got)
	}
	if !StatusOK.OK() {
		t.Error("StatusOK.OK() = false")
	}
	if Status(1).OK() {
		t.Error("Status(1).OK() = true")
	}
}
