// Command gigex-ctl is the operator console for GigExpedite boards:
// discovery, register access, SPI transfers, settings queries, a
// monitoring endpoint and an interactive shell.
//
// Boards are picked with --addr (direct), --card (a name from the
// configuration file) or, when neither is given, by taking the first
// board discovery finds.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gigex-project/gigex-go/internal/config"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

type globalOptions struct {
	configPath string
	logFile    string
	verbose    bool
	cardName   string
	addr       string
	timeout    time.Duration
}

var (
	opts    globalOptions
	cfg     *config.Config
	console zerolog.Logger
)

func main() {
	console = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()

	rootCmd := &cobra.Command{
		Use:   "gigex-ctl",
		Short: "Operator console for GigExpedite boards",
		Long: `gigex-ctl talks to GigExpedite Ethernet-to-FPGA boards.

It can search the local network for boards, read and write user
registers, run SPI transfers through the board bridge, raise mailbox
interrupts, query settings, watch a fleet of boards with a metrics
endpoint, and replay recorded protocol logs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "path to a gigex.yaml configuration file")
	pf.StringVar(&opts.logFile, "log-file", "", "write the protocol event log to this .glog file")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "mirror protocol events onto the console")
	pf.StringVar(&opts.cardName, "card", "", "configured card name to talk to")
	pf.StringVar(&opts.addr, "addr", "", "board address as ip[:port], bypassing discovery")
	pf.DurationVar(&opts.timeout, "timeout", 0, "per-operation timeout override")

	rootCmd.AddCommand(
		discoverCmd(),
		readCmd(),
		writeCmd(),
		interruptCmd(),
		settingsCmd(),
		spiCmd(),
		watchCmd(),
		shellCmd(),
		logCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		console.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// loadConfig resolves the configuration the persistent flags point at.
// Without a file everything falls back to the built-in defaults.
func loadConfig() error {
	if opts.configPath == "" {
		cfg = &config.Config{}
		config.Normalize(cfg)
		return nil
	}
	c, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// signalContext is cancelled on interrupt or terminate.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("gigex-ctl %s (%s)\n", version, commit)
		},
	}
}
