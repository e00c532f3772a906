package wire

import (
	"errors"
	"net/netip"
	"testing"
)

func TestDecodeSettings(t *testing.T) {
	frame := []byte{
		0xf0, 0x00, 0x00, 0x00, // cmd, status, reserved
		0x01, 0x2c, // firmware 300
		0x00, 0x02, // hardware 2
		0x00, 0x00, 0x30, 0x39, // serial 12345
		192, 168, 1, 77, // ip
		192, 168, 1, 1, // gateway
		255, 255, 255, 0, // subnet
		0x00, 0x50, // http port 80
		0x50, 0x02, // control port 20482
		0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff, // mac
		0x00, 0x00, // reserved
	}

	s, err := DecodeSettings(frame)
	if err != nil {
		t.Fatalf("DecodeSettings failed: %v", err)
	}

	if !s.Status.OK() {
		t.Errorf("status = %v, want OK", s.Status)
	}
	if s.FirmwareVersion != 300 {
		t.Errorf("firmware = %d, want 300", s.FirmwareVersion)
	}
	if s.HardwareVersion != 2 {
		t.Errorf("hardware = %d, want 2", s.HardwareVersion)
	}
	if s.SerialNumber != 12345 {
		t.Errorf("serial = %d, want 12345", s.SerialNumber)
	}
	if s.IP != netip.MustParseAddr("192.168.1.77") {
		t.Errorf("ip = %v, want 192.168.1.77", s.IP)
	}
	if s.Gateway != netip.MustParseAddr("192.168.1.1") {
		t.Errorf("gateway = %v, want 192.168.1.1", s.Gateway)
	}
	if s.Subnet != netip.MustParseAddr("255.255.255.0") {
		t.Errorf("subnet = %v, want 255.255.255.0", s.Subnet)
	}
	if s.HTTPPort != 80 {
		t.Errorf("http port = %d, want 80", s.HTTPPort)
	}
	if s.ControlPort != 20482 {
		t.Errorf("control port = %d, want 20482", s.ControlPort)
	}
	if s.MAC.String() != "aa:bb:cc:dd:ee:ff" {
		t.Errorf("mac = %s, want aa:bb:cc:dd:ee:ff", s.MAC)
	}
}

func TestDecodeSettingsStatusPassesThrough(t *testing.T) {
	frame := make([]byte, SettingsResponseSize)
	frame[0] = byte(CmdSettings)
	frame[1] = 0x08

	s, err := DecodeSettings(frame)
	if err != nil {
		t.Fatalf("DecodeSettings failed: %v", err)
	}
	if s.Status != Status(0x08) {
		t.Errorf("status = %v, want ERROR(0x08)", s.Status)
	}
}

func TestDecodeSettingsErrors(t *testing.T) {
	_, err := DecodeSettings(make([]byte, 10))
	if !errors.Is(err, ErrFrameTooShort) {
		t.Errorf("short frame error = %v, want ErrFrameTooShort", err)
	}

	frame := make([]byte, SettingsResponseSize)
	frame[0] = byte(CmdReadRegister)
	_, err = DecodeSettings(frame)
	if !errors.Is(err, ErrCommandMismatch) {
		t.Errorf("mismatch error = %v, want ErrCommandMismatch", err)
	}
}
