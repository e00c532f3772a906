package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gigex-project/gigex-go/pkg/device"
)

func discoverCmd() *cobra.Command {
	var (
		wait  time.Duration
		first bool
	)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Find boards on the local network",
		Long: `Search every local interface for boards and list what answered.

Examples:
  gigex-ctl discover
  gigex-ctl discover --wait 5s
  gigex-ctl discover --first`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscover(wait, first)
		},
	}

	cmd.Flags().DurationVarP(&wait, "wait", "w", 0, "listen window per interface (default from config)")
	cmd.Flags().BoolVar(&first, "first", false, "stop at the first board, retrying with growing waits")

	return cmd
}

func runDiscover(wait time.Duration, first bool) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signalContext()
	defer stop()

	if first {
		card, err := s.scanner.FindFirst(ctx)
		if err != nil {
			return err
		}
		printCards([]*device.Card{card})
		return nil
	}

	if wait == 0 {
		wait = cfg.Discovery.Wait()
	}
	list, err := s.scanner.FindCards(ctx, wait)
	if err != nil {
		return err
	}
	if list.Len() == 0 {
		console.Warn().Msg("no boards answered")
		return nil
	}
	printCards(list.Cards())
	return nil
}

func printCards(cards []*device.Card) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ENDPOINT\tSERIAL\tFIRMWARE\tHARDWARE\tMAC\tHTTP")
	for _, c := range cards {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%d\n",
			c.Endpoint(),
			c.SerialNumber,
			formatFirmware(c),
			formatVersion(c.HardwareVersion),
			c.MAC,
			c.HTTPPort,
		)
	}
	w.Flush()
}

func formatFirmware(c *device.Card) string {
	v := formatVersion(c.FirmwareVersion &^ device.FirmwareFallbackFlag)
	if c.FirmwareFallback() {
		return v + " (fallback)"
	}
	return v
}

func formatVersion(v uint16) string {
	return fmt.Sprintf("%d.%d", v>>8, v&0xff)
}
