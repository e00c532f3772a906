package wire

import (
	"encoding/binary"
	"fmt"
	"net"
	"net/netip"
)

// Settings is the decoded flash configuration of a card as returned by
// the SETTINGS command.
type Settings struct {
	Status          Status
	FirmwareVersion uint16
	HardwareVersion uint16
	SerialNumber    uint32
	IP              netip.Addr
	Gateway         netip.Addr
	Subnet          netip.Addr
	HTTPPort        uint16
	ControlPort     uint16
	MAC             net.HardwareAddr
}

// DecodeSettings parses a settings response frame. Multi-byte scalars
// are big-endian on the wire; addresses arrive in octet order.
func DecodeSettings(p []byte) (Settings, error) {
	if len(p) < SettingsResponseSize {
		return Settings{}, fmt.Errorf("%w: settings response is %d bytes, want %d",
			ErrFrameTooShort, len(p), SettingsResponseSize)
	}
	if Command(p[0]) != CmdSettings {
		return Settings{}, fmt.Errorf("%w: got %s, want %s",
			ErrCommandMismatch, Command(p[0]), CmdSettings)
	}
	s := Settings{
		Status:          Status(p[1]),
		FirmwareVersion: binary.BigEndian.Uint16(p[4:6]),
		HardwareVersion: binary.BigEndian.Uint16(p[6:8]),
		SerialNumber:    binary.BigEndian.Uint32(p[8:12]),
		IP:              netip.AddrFrom4([4]byte(p[12:16])),
		Gateway:         netip.AddrFrom4([4]byte(p[16:20])),
		Subnet:          netip.AddrFrom4([4]byte(p[20:24])),
		HTTPPort:        binary.BigEndian.Uint16(p[24:26]),
		ControlPort:     binary.BigEndian.Uint16(p[26:28]),
		MAC:             net.HardwareAddr(append([]byte(nil), p[28:34]...)),
	}
	return s, nil
}
