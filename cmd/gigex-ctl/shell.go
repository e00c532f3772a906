package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/gigex-project/gigex-go/pkg/client"
	"github.com/gigex-project/gigex-go/pkg/device"
)

func shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Open an interactive session with a board",
		Long: `Open an interactive session with a board.

The board is picked the same way as for the one-shot commands: --addr,
then --card, then a network search. Type 'help' inside the shell for
the command list.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell()
		},
	}
}

// shell holds the interactive session state. The SPI rate and word
// length persist across transfers until changed.
type shell struct {
	session *session
	card    *device.Card
	rl      *readline.Instance

	rate    client.SPIRate
	wordLen int
}

func runShell() error {
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

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          card.Endpoint() + "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}

	sh := &shell{
		session: s,
		card:    card,
		rl:      rl,
		rate:    client.SPIRate35MHz,
		wordLen: 8,
	}
	sh.run(ctx)
	return nil
}

// run starts the interactive command loop.
func (sh *shell) run(ctx context.Context) {
	defer sh.rl.Close()

	sh.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := sh.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(sh.rl.Stdout(), "Exiting...")
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			sh.printHelp()

		case "read", "r":
			sh.cmdRead(ctx, args)

		case "write", "w":
			sh.cmdWrite(ctx, args)

		case "interrupt", "int":
			sh.cmdInterrupt(ctx)

		case "settings", "s":
			sh.cmdSettings(ctx)

		case "spi":
			sh.cmdSPI(ctx, args)

		case "rate":
			sh.cmdRate(args)

		case "wordlen", "wl":
			sh.cmdWordLen(args)

		case "timeout":
			sh.cmdTimeout(args)

		case "quit", "exit", "q":
			fmt.Fprintln(sh.rl.Stdout(), "Exiting...")
			return

		default:
			fmt.Fprintf(sh.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (sh *shell) printHelp() {
	fmt.Fprintln(sh.rl.Stdout(), `
GigEx Board Commands:
  Registers:
    read <addr>        - Read a register (0 to 127)
    write <addr> <val> - Write a register
    interrupt          - Raise the mailbox interrupt

  Board:
    settings           - Show the board settings block

  SPI:
    spi <word>...      - Clock words out and read the same count back
    spi read <n>       - Clock in n words without writing
    rate <mhz>         - Set the SPI clock: 35, 17.5 or 8.75
    wordlen <bits>     - Set bits per SPI word (1 to 32)

  Session:
    timeout <dur>      - Set the per-command timeout (e.g. 500ms, 2s)
    help               - Show this help
    quit               - Exit the shell

  Values accept decimal or hex (0x...) notation.`)
}

// cmdRead handles the read command.
func (sh *shell) cmdRead(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(sh.rl.Stdout(), "Usage: read <addr>")
		return
	}

	addr, err := parseRegisterAddr(args[0])
	if err != nil {
		fmt.Fprintf(sh.rl.Stdout(), "Invalid address: %v\n", err)
		return
	}

	value, err := sh.session.client.ReadRegister(ctx, sh.card, addr)
	if err != nil {
		fmt.Fprintf(sh.rl.Stdout(), "Read failed: %v\n", err)
		return
	}
	fmt.Fprintf(sh.rl.Stdout(), "%#04x (%d)\n", value, value)
}

// cmdWrite handles the write command.
func (sh *shell) cmdWrite(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(sh.rl.Stdout(), "Usage: write <addr> <value>")
		return
	}

	addr, err := parseRegisterAddr(args[0])
	if err != nil {
		fmt.Fprintf(sh.rl.Stdout(), "Invalid address: %v\n", err)
		return
	}
	value, err := strconv.ParseUint(args[1], 0, 16)
	if err != nil {
		fmt.Fprintf(sh.rl.Stdout(), "Invalid value: %v\n", err)
		return
	}

	if err := sh.session.client.WriteRegister(ctx, sh.card, addr, uint16(value)); err != nil {
		fmt.Fprintf(sh.rl.Stdout(), "Write failed: %v\n", err)
		return
	}
	fmt.Fprintln(sh.rl.Stdout(), "OK")
}

// cmdInterrupt raises the mailbox interrupt.
func (sh *shell) cmdInterrupt(ctx context.Context) {
	if err := sh.session.client.SetInterrupt(ctx, sh.card); err != nil {
		fmt.Fprintf(sh.rl.Stdout(), "Interrupt failed: %v\n", err)
		return
	}
	fmt.Fprintln(sh.rl.Stdout(), "Interrupt raised")
}

// cmdSettings queries and prints the settings block.
func (sh *shell) cmdSettings(ctx context.Context) {
	if err := sh.session.client.ReadSettings(ctx, sh.card); err != nil {
		fmt.Fprintf(sh.rl.Stdout(), "Settings query failed: %v\n", err)
		return
	}
	printSettings(sh.rl.Stdout(), sh.card)
}

// cmdSPI handles the spi command. Bare words are written and the same
// count is read back; 'spi read <n>' clocks in without writing.
func (sh *shell) cmdSPI(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(sh.rl.Stdout(), "Usage: spi <word>...")
		fmt.Fprintln(sh.rl.Stdout(), "       spi read <n>")
		return
	}

	transfer := client.SPITransfer{
		Rate:       sh.rate,
		WordLength: sh.wordLen,
		ReleaseCS:  true,
	}

	if strings.ToLower(args[0]) == "read" {
		if len(args) < 2 {
			fmt.Fprintln(sh.rl.Stdout(), "Usage: spi read <n>")
			return
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			fmt.Fprintf(sh.rl.Stdout(), "Invalid word count: %s\n", args[1])
			return
		}
		transfer.ReadCount = n
	} else {
		write, err := parseWords(args)
		if err != nil {
			fmt.Fprintf(sh.rl.Stdout(), "%v\n", err)
			return
		}
		transfer.Write = write
		transfer.ReadCount = len(write)
	}

	words, err := sh.session.client.TransferSPI(ctx, sh.card, transfer)
	if err != nil {
		fmt.Fprintf(sh.rl.Stdout(), "Transfer failed: %v\n", err)
		return
	}
	for _, w := range words {
		fmt.Fprintf(sh.rl.Stdout(), "%#08x\n", w)
	}
}

// cmdRate sets the SPI clock rate for later transfers.
func (sh *shell) cmdRate(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(sh.rl.Stdout(), "Usage: rate <35|17.5|8.75>")
		return
	}
	rate, err := parseRate(args[0])
	if err != nil {
		fmt.Fprintf(sh.rl.Stdout(), "%v\n", err)
		return
	}
	sh.rate = rate
	fmt.Fprintf(sh.rl.Stdout(), "SPI clock set to %s MHz\n", args[0])
}

// cmdWordLen sets the SPI word length for later transfers.
func (sh *shell) cmdWordLen(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(sh.rl.Stdout(), "Usage: wordlen <bits>")
		return
	}
	bits, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(sh.rl.Stdout(), "Invalid word length: %s\n", args[0])
		return
	}
	sh.wordLen = bits
	fmt.Fprintf(sh.rl.Stdout(), "SPI word length set to %d bits\n", bits)
}

// cmdTimeout sets the per-command timeout on the session card.
func (sh *shell) cmdTimeout(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(sh.rl.Stdout(), "Timeout is %s\n", sh.card.Timeout)
		return
	}
	d, err := time.ParseDuration(args[0])
	if err != nil || d <= 0 {
		fmt.Fprintf(sh.rl.Stdout(), "Invalid timeout: %s\n", args[0])
		return
	}
	sh.card.Timeout = d
	fmt.Fprintf(sh.rl.Stdout(), "Timeout set to %s\n", d)
}
