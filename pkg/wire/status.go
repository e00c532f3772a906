package wire

import "fmt"

// Command identifies a request frame type. The response's first byte
// echoes the command of the request it answers.
type Command uint8

const (
	// CmdSPI runs a raw SPI transfer through the board's SPI bridge.
	CmdSPI Command = 0xee

	// CmdSettings queries the board's settings block.
	CmdSettings Command = 0xf0

	// CmdWriteRegister writes one 16-bit user register.
	CmdWriteRegister Command = 0xf6

	// CmdReadRegister reads one 16-bit user register.
	CmdReadRegister Command = 0xf7

	// CmdMailboxInterrupt raises the mailbox interrupt on the FPGA.
	CmdMailboxInterrupt Command = 0xf8
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdSPI:
		return "SPI"
	case CmdSettings:
		return "SETTINGS"
	case CmdWriteRegister:
		return "WRITE_REGISTER"
	case CmdReadRegister:
		return "READ_REGISTER"
	case CmdMailboxInterrupt:
		return "MAILBOX_INTERRUPT"
	default:
		return fmt.Sprintf("UNKNOWN(%#04x)", uint8(c))
	}
}

// Status is the status byte the board embeds in every response.
type Status uint8

// StatusOK is the only success value; anything else is a board-side
// failure.
const StatusOK Status = 0

// OK returns true if the status indicates success.
func (s Status) OK() bool {
	return s == StatusOK
}

// String returns "OK" or the numeric error value.
func (s Status) String() string {
	if s == StatusOK {
		return "OK"
	}
	return fmt.Sprintf("ERROR(%#04x)", uint8(s))
}
