package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gigex-project/gigex-go/pkg/device"
)

func settingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Query a board's settings block",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettings()
		},
	}
}

func runSettings() error {
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

	if err := s.client.ReadSettings(ctx, card); err != nil {
		return err
	}
	printSettings(os.Stdout, card)
	return nil
}

func printSettings(out io.Writer, c *device.Card) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Endpoint:\t%s\n", c.Endpoint())
	fmt.Fprintf(w, "Serial:\t%d\n", c.SerialNumber)
	fmt.Fprintf(w, "Firmware:\t%s\n", formatFirmware(c))
	fmt.Fprintf(w, "Hardware:\t%s\n", formatVersion(c.HardwareVersion))
	fmt.Fprintf(w, "MAC:\t%s\n", c.MAC)
	fmt.Fprintf(w, "Gateway:\t%s\n", c.Gateway)
	fmt.Fprintf(w, "Subnet:\t%s\n", c.Subnet)
	fmt.Fprintf(w, "HTTP port:\t%d\n", c.HTTPPort)
	w.Flush()
}
