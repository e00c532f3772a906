package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func readCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <addr>",
		Short: "Read one 16-bit user register",
		Long: `Read one 16-bit user register.

The address may be decimal or hex (0x prefix). Registers 0 to 127 are
addressable.

Examples:
  gigex-ctl read 5
  gigex-ctl --addr 192.168.1.77 read 0x10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRead(args[0])
		},
	}
}

func runRead(addrArg string) error {
	addr, err := parseRegisterAddr(addrArg)
	if err != nil {
		return err
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signalContext()
	defer stop()

	card, err := s.resolveCard(ctx)
	if err != nil {
		return err
	}

	value, err := s.client.ReadRegister(ctx, card, addr)
	if err != nil {
		return err
	}
	fmt.Printf("%#04x (%d)\n", value, value)
	return nil
}

func writeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "write <addr> <value>",
		Short: "Write one 16-bit user register",
		Long: `Write one 16-bit user register.

Address and value may be decimal or hex (0x prefix).

Examples:
  gigex-ctl write 5 0xBEEF
  gigex-ctl --card bench write 0x10 4660`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWrite(args[0], args[1])
		},
	}
}

func runWrite(addrArg, valueArg string) error {
	addr, err := parseRegisterAddr(addrArg)
	if err != nil {
		return err
	}
	value, err := strconv.ParseUint(valueArg, 0, 16)
	if err != nil {
		return fmt.Errorf("bad value %q: %w", valueArg, err)
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signalContext()
	defer stop()

	card, err := s.resolveCard(ctx)
	if err != nil {
		return err
	}

	if err := s.client.WriteRegister(ctx, card, addr, uint16(value)); err != nil {
		return err
	}
	console.Info().Uint8("addr", addr).Str("value", fmt.Sprintf("%#04x", value)).Msg("register written")
	return nil
}

func interruptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interrupt",
		Short: "Raise the mailbox interrupt on the FPGA",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInterrupt()
		},
	}
}

func runInterrupt() error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signalContext()
	defer stop()

	card, err := s.resolveCard(ctx)
	if err != nil {
		return err
	}

	if err := s.client.SetInterrupt(ctx, card); err != nil {
		return err
	}
	console.Info().Msg("mailbox interrupt raised")
	return nil
}

// parseRegisterAddr parses a register address argument. The range
// check is left to the client so CLI and API agree on the error.
func parseRegisterAddr(s string) (uint8, error) {
	addr, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("bad register address %q: %w", s, err)
	}
	return uint8(addr), nil
}
