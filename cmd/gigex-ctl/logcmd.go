package main

import (
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gigex-project/gigex-go/pkg/log"
	"github.com/gigex-project/gigex-go/pkg/wire"
)

func logCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Inspect recorded protocol log files",
	}
	cmd.AddCommand(logViewCmd(), logExportCmd(), logStatsCmd())
	return cmd
}

func logViewCmd() *cobra.Command {
	var (
		layer     string
		direction string
		category  string
		conn      string
		dev       string
	)

	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Print log events in a human-readable form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := buildFilter(layer, direction, category, conn, dev)
			if err != nil {
				return err
			}
			return runLogView(args[0], filter, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&layer, "layer", "", "only events from this layer: transport, protocol or discovery")
	cmd.Flags().StringVar(&direction, "direction", "", "only events in this direction: in or out")
	cmd.Flags().StringVar(&category, "category", "", "only events of this category: message, state or error")
	cmd.Flags().StringVar(&conn, "conn", "", "only events of this connection ID")
	cmd.Flags().StringVar(&dev, "device", "", "only events of this board endpoint (ip:port)")

	return cmd
}

func logExportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export a log file to jsonl or csv",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogExport(args[0], format, output)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "jsonl", "output format: jsonl or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func logStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file>",
		Short: "Summarize a log file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogStats(args[0], os.Stdout)
		},
	}
}

func buildFilter(layer, direction, category, conn, dev string) (log.Filter, error) {
	filter := log.Filter{ConnectionID: conn, Device: dev}

	if layer != "" {
		l, err := parseLayerFlag(layer)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Layer = &l
	}
	if direction != "" {
		d, err := parseDirectionFlag(direction)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Direction = &d
	}
	if category != "" {
		c, err := parseCategoryFlag(category)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Category = &c
	}
	return filter, nil
}

// parseLayerFlag parses a layer string (case-insensitive).
func parseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "transport":
		return log.LayerTransport, nil
	case "protocol":
		return log.LayerProtocol, nil
	case "discovery":
		return log.LayerDiscovery, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be transport, protocol, or discovery)", s)
	}
}

// parseDirectionFlag parses a direction string (case-insensitive).
func parseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// parseCategoryFlag parses a category string (case-insensitive).
func parseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "message":
		return log.CategoryMessage, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be message, state, or error)", s)
	}
}

// runLogView streams matching events through formatEvent.
func runLogView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}
	return nil
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [conn:id] DIRECTION LAYER Type
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	connID := shortConnID(event.ConnectionID)
	dir := event.Direction.String()

	var typeLabel string
	switch {
	case event.Frame != nil:
		typeLabel = "Frame"
	case event.Command != nil:
		typeLabel = wire.Command(event.Command.Command).String()
	case event.State != nil:
		typeLabel = "State"
	case event.Discovery != nil:
		typeLabel = "Discovery"
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [conn:%s] %-3s %s %s\n", ts, connID, dir, event.Layer.String(), typeLabel)
	if event.Device != "" {
		fmt.Fprintf(w, "  Device: %s\n", event.Device)
	}

	switch {
	case event.Frame != nil:
		formatFrameDetails(w, event.Frame)
	case event.Command != nil:
		formatCommandDetails(w, event.Command)
	case event.State != nil:
		formatStateDetails(w, event.State)
	case event.Discovery != nil:
		formatDiscoveryDetails(w, event.Discovery)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// formatFrameDetails writes frame-specific details.
func formatFrameDetails(w io.Writer, frame *log.FrameEvent) {
	fmt.Fprintf(w, "  Size: %d bytes\n", frame.Size)
	if len(frame.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(frame.Data))
		if frame.Truncated {
			fmt.Fprintf(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
}

// formatCommandDetails writes command exchange details.
func formatCommandDetails(w io.Writer, c *log.CommandEvent) {
	if c.Addr != nil {
		fmt.Fprintf(w, "  Addr: %d\n", *c.Addr)
	}
	if c.Value != nil {
		fmt.Fprintf(w, "  Value: %#04x (%d)\n", *c.Value, *c.Value)
	}
	if c.Words != nil {
		fmt.Fprintf(w, "  Words: %d\n", *c.Words)
	}
	if c.Status != nil {
		fmt.Fprintf(w, "  Status: %s (%d)\n", wire.Status(*c.Status).String(), *c.Status)
	}
	if c.Elapsed != nil {
		fmt.Fprintf(w, "  Duration: %s\n", formatElapsed(*c.Elapsed))
	}
}

// formatStateDetails writes connection state change details.
func formatStateDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

// formatDiscoveryDetails writes discovery milestone details.
func formatDiscoveryDetails(w io.Writer, d *log.DiscoveryEvent) {
	fmt.Fprintf(w, "  Stage: %s\n", d.Stage.String())
	if d.Interface != "" {
		fmt.Fprintf(w, "  Interface: %s\n", d.Interface)
	}
	if d.Location != "" {
		fmt.Fprintf(w, "  Location: %s\n", d.Location)
	}
	if d.Endpoint != "" {
		fmt.Fprintf(w, "  Endpoint: %s\n", d.Endpoint)
	}
}

// formatErrorDetails writes error details.
func formatErrorDetails(w io.Writer, e *log.ErrorEventData) {
	fmt.Fprintf(w, "  Op: %s\n", e.Op)
	fmt.Fprintf(w, "  Code: %s (%d)\n", e.Code.String(), e.Code)
	fmt.Fprintf(w, "  Message: %s\n", e.Message)
}

// formatElapsed formats a duration for display.
func formatElapsed(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// runLogExport exports the log file to the specified format.
func runLogExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "connection_id", "direction", "layer", "category", "device", "type", "command", "status"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		eventType := "unknown"
		command := ""
		statusStr := ""
		switch {
		case event.Frame != nil:
			eventType = "frame"
		case event.Command != nil:
			eventType = "command"
			command = wire.Command(event.Command.Command).String()
			if event.Command.Status != nil {
				statusStr = fmt.Sprintf("%d", *event.Command.Status)
			}
		case event.State != nil:
			eventType = "state"
		case event.Discovery != nil:
			eventType = "discovery"
		case event.Error != nil:
			eventType = "error"
		}

		row := []string{
			event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			event.ConnectionID,
			event.Direction.String(),
			event.Layer.String(),
			event.Category.String(),
			event.Device,
			eventType,
			command,
			statusStr,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

// logStats holds aggregate statistics about a log file.
type logStats struct {
	total       int
	byLayer     map[log.Layer]int
	byCategory  map[log.Category]int
	byDirection map[log.Direction]int
	byCommand   map[uint8]int
	connections map[string]*connStats
	errors      int
	start, end  time.Time
}

// connStats holds statistics for a single connection.
type connStats struct {
	firstSeen time.Time
	lastSeen  time.Time
	events    int
	device    string
}

// runLogStats analyzes the log file and prints statistics.
func runLogStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &logStats{
		byLayer:     make(map[log.Layer]int),
		byCategory:  make(map[log.Category]int),
		byDirection: make(map[log.Direction]int),
		byCommand:   make(map[uint8]int),
		connections: make(map[string]*connStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.total++
		stats.byLayer[event.Layer]++
		stats.byCategory[event.Category]++
		stats.byDirection[event.Direction]++

		if stats.start.IsZero() || event.Timestamp.Before(stats.start) {
			stats.start = event.Timestamp
		}
		if event.Timestamp.After(stats.end) {
			stats.end = event.Timestamp
		}

		if event.Command != nil {
			stats.byCommand[event.Command.Command]++
		}
		if event.Error != nil {
			stats.errors++
		}

		if event.ConnectionID != "" {
			conn, ok := stats.connections[event.ConnectionID]
			if !ok {
				conn = &connStats{firstSeen: event.Timestamp, lastSeen: event.Timestamp}
				stats.connections[event.ConnectionID] = conn
			}
			conn.events++
			if event.Timestamp.After(conn.lastSeen) {
				conn.lastSeen = event.Timestamp
			}
			if event.Device != "" && conn.device == "" {
				conn.device = event.Device
			}
		}
	}

	printLogStats(w, stats)
	return nil
}

func printLogStats(w io.Writer, stats *logStats) {
	fmt.Fprintln(w, "=== GigEx Protocol Log Statistics ===")
	fmt.Fprintln(w)

	if stats.total > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.start.Format(time.RFC3339),
			stats.end.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.end.Sub(stats.start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.total)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerTransport, log.LayerProtocol, log.LayerDiscovery} {
		if count := stats.byLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryMessage, log.CategoryState, log.CategoryError} {
		if count := stats.byCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.byDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.byCommand) > 0 {
		codes := make([]int, 0, len(stats.byCommand))
		for code := range stats.byCommand {
			codes = append(codes, int(code))
		}
		sort.Ints(codes)

		fmt.Fprintln(w, "Commands:")
		for _, code := range codes {
			name := wire.Command(code).String()
			fmt.Fprintf(w, "  %-12s %d\n", name+":", stats.byCommand[uint8(code)])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Connections: %d\n", len(stats.connections))
	if len(stats.connections) > 0 {
		type connInfo struct {
			id    string
			stats *connStats
		}
		conns := make([]connInfo, 0, len(stats.connections))
		for id, cs := range stats.connections {
			conns = append(conns, connInfo{id, cs})
		}
		sort.Slice(conns, func(i, j int) bool {
			return conns[i].stats.firstSeen.Before(conns[j].stats.firstSeen)
		})

		fmt.Fprintln(w, "")
		for _, c := range conns {
			duration := c.stats.lastSeen.Sub(c.stats.firstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortConnID(c.id), c.stats.events, duration)
			if c.stats.device != "" {
				fmt.Fprintf(w, "           Device: %s\n", c.stats.device)
			}
		}
	}

	if stats.errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.errors)
	}
}
