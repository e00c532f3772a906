package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gigex-project/gigex-go/pkg/client"
)

func spiCmd() *cobra.Command {
	var (
		rate      string
		wordLen   int
		writeArgs []string
		readCount int
		holdCS    bool
	)

	cmd := &cobra.Command{
		Use:   "spi",
		Short: "Run an SPI transfer through the board bridge",
		Long: `Run an SPI transfer through the board bridge.

Write words are given with repeated --write flags or one comma
separated list; --read asks for words clocked in. A transfer may
write, read, or do both at once (then the counts must match).

Examples:
  gigex-ctl spi --write 0x9f,0,0,0 --read 4
  gigex-ctl spi --rate 8.75 --word-length 16 --write 0x1234,0x5678
  gigex-ctl spi --read 4 --hold-cs`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSPI(rate, wordLen, writeArgs, readCount, holdCS)
		},
	}

	cmd.Flags().StringVar(&rate, "rate", "35", "SPI clock rate in MHz: 35, 17.5 or 8.75")
	cmd.Flags().IntVar(&wordLen, "word-length", 8, "bits per SPI word (1 to 32)")
	cmd.Flags().StringSliceVar(&writeArgs, "write", nil, "words to clock out (decimal or hex)")
	cmd.Flags().IntVar(&readCount, "read", 0, "number of words to clock in")
	cmd.Flags().BoolVar(&holdCS, "hold-cs", false, "keep chip select asserted after the transfer")

	return cmd
}

func runSPI(rate string, wordLen int, writeArgs []string, readCount int, holdCS bool) error {
	spiRate, err := parseRate(rate)
	if err != nil {
		return err
	}
	write, err := parseWords(writeArgs)
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

	words, err := s.client.TransferSPI(ctx, card, client.SPITransfer{
		Rate:       spiRate,
		WordLength: wordLen,
		Write:      write,
		ReadCount:  readCount,
		ReleaseCS:  !holdCS,
	})
	if err != nil {
		return err
	}
	for _, w := range words {
		fmt.Printf("%#08x\n", w)
	}
	return nil
}

func parseRate(s string) (client.SPIRate, error) {
	switch s {
	case "35":
		return client.SPIRate35MHz, nil
	case "17.5":
		return client.SPIRate17_5MHz, nil
	case "8.75":
		return client.SPIRate8_75MHz, nil
	default:
		return 0, fmt.Errorf("bad rate %q (must be 35, 17.5 or 8.75)", s)
	}
}

func parseWords(args []string) ([]uint32, error) {
	if len(args) == 0 {
		return nil, nil
	}
	words := make([]uint32, 0, len(args))
	for _, a := range args {
		w, err := strconv.ParseUint(a, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("bad word %q: %w", a, err)
		}
		words = append(words, uint32(w))
	}
	return words, nil
}
