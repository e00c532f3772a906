// Command gigex-sim runs a software GigExpedite board.
//
// The simulator serves the control protocol on a TCP port, publishes the
// UPnP descriptor over HTTP and, unless disabled, answers discovery
// searches on the standard multicast group. It is meant for developing
// and testing against gigex-ctl or the client library without hardware.
//
// Usage:
//
//	gigex-sim [flags]
//
// Examples:
//
//	# Standard board on the default control port, discoverable
//	gigex-sim
//
//	# Private board on loopback with a fixed serial, traffic recorded
//	gigex-sim --control 127.0.0.1:0 --serial 4711 --log-file board.glog -v
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gigex-project/gigex-go/internal/sim"
	"github.com/gigex-project/gigex-go/pkg/log"
)

// Set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
)

// boardOptions collects the command line flags.
type boardOptions struct {
	control  string
	httpAddr string
	ssdp     bool
	ssdpAddr string
	firmware uint16
	hardware uint16
	serial   uint32
	logFile  string
	verbose  bool
}

func main() {
	console := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()

	var opts boardOptions

	rootCmd := &cobra.Command{
		Use:   "gigex-sim",
		Short: "Software GigEx board for development and testing",
		Long: `Software GigEx board for development and testing.

gigex-sim answers the same control protocol as a real board: register
reads and writes, mailbox interrupts, settings queries and SPI
transfers that echo written words back. With discovery enabled the
board shows up in 'gigex-ctl discover' like hardware would.`,
		Version:       fmt.Sprintf("%s (commit %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(console, opts)
		},
	}

	rootCmd.Flags().StringVar(&opts.control, "control", ":20482", "control listener address")
	rootCmd.Flags().StringVar(&opts.httpAddr, "http", "", "descriptor listener address (default loopback ephemeral)")
	rootCmd.Flags().BoolVar(&opts.ssdp, "ssdp", true, "answer discovery searches")
	rootCmd.Flags().StringVar(&opts.ssdpAddr, "ssdp-addr", "", "search responder address (default the standard search port)")
	rootCmd.Flags().Uint16Var(&opts.firmware, "firmware", sim.DefaultFirmwareVersion, "firmware version word")
	rootCmd.Flags().Uint16Var(&opts.hardware, "hardware", sim.DefaultHardwareVersion, "hardware version word")
	rootCmd.Flags().Uint32Var(&opts.serial, "serial", sim.DefaultSerialNumber, "board serial number")
	rootCmd.Flags().StringVar(&opts.logFile, "log-file", "", "record board events to this file")
	rootCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "mirror board events to the console")

	if err := rootCmd.Execute(); err != nil {
		console.Error().Err(err).Msg("simulator failed")
		os.Exit(1)
	}
}

func run(console zerolog.Logger, opts boardOptions) error {
	var (
		sinks    []log.Logger
		closeLog func() error
	)
	if opts.logFile != "" {
		fl, err := log.NewFileLogger(opts.logFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		closeLog = fl.Close
		sinks = append(sinks, fl)
	}
	if opts.verbose {
		sinks = append(sinks, &eventSink{
			logger: console.With().Str("component", "events").Logger(),
		})
	}

	var events log.Logger
	switch len(sinks) {
	case 0:
		// the board falls back to a no-op logger
	case 1:
		events = sinks[0]
	default:
		events = log.NewMultiLogger(sinks...)
	}

	board := sim.NewBoard(sim.Config{
		Addr:            opts.control,
		HTTPAddr:        opts.httpAddr,
		SSDP:            opts.ssdp,
		SSDPAddr:        opts.ssdpAddr,
		FirmwareVersion: opts.firmware,
		HardwareVersion: opts.hardware,
		SerialNumber:    opts.serial,
		Logger:          events,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := board.Start(ctx); err != nil {
		return err
	}

	console.Info().
		Str("control", board.Addr().String()).
		Str("descriptor", board.DescriptorURL()).
		Uint32("serial", opts.serial).
		Str("firmware", fmt.Sprintf("%d.%d", opts.firmware>>8, opts.firmware&0xff)).
		Str("hardware", fmt.Sprintf("%d.%d", opts.hardware>>8, opts.hardware&0xff)).
		Msg("board up")
	if opts.ssdp {
		console.Info().Msg("answering discovery searches")
	}

	<-ctx.Done()
	console.Info().Msg("shutting down")

	if err := board.Stop(); err != nil {
		console.Warn().Err(err).Msg("board stop failed")
	}
	if closeLog != nil {
		if err := closeLog(); err != nil {
			console.Warn().Err(err).Msg("event log close failed")
		}
	}
	return nil
}
