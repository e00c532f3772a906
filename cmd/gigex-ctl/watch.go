package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/gigex-project/gigex-go/pkg/device"
	"github.com/gigex-project/gigex-go/pkg/discovery"
	"github.com/gigex-project/gigex-go/pkg/wire"
)

func watchCmd() *cobra.Command {
	var (
		listen    string
		interval  time.Duration
		registers []int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll boards and serve their state over HTTP",
		Long: `Poll boards and serve their state over HTTP.

Each interval every watched board is probed with a settings query and,
when --registers is given, the named registers are sampled. Results are
exposed as Prometheus metrics on /metrics and as JSON on /api/v1/cards.

The watched set is the configured cards, or the single card named with
--card or --addr, or whatever a network search finds when nothing is
configured.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(listen, interval, registers)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (default from config)")
	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "poll interval (default from config)")
	cmd.Flags().IntSliceVar(&registers, "registers", nil, "register addresses to sample each poll")

	return cmd
}

type watchMetrics struct {
	pollsTotal    *prometheus.CounterVec
	pollDuration  *prometheus.HistogramVec
	boardUp       *prometheus.GaugeVec
	registerValue *prometheus.GaugeVec
}

func newWatchMetrics(reg prometheus.Registerer) *watchMetrics {
	factory := promauto.With(reg)

	return &watchMetrics{
		pollsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gigex",
			Name:      "poll_total",
			Help:      "Settings polls per board, labelled with the outcome",
		}, []string{"card", "result"}),

		pollDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gigex",
			Name:      "poll_duration_seconds",
			Help:      "Settings poll duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"card"}),

		boardUp: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gigex",
			Name:      "board_up",
			Help:      "Whether the last settings poll of the board succeeded",
		}, []string{"card"}),

		registerValue: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gigex",
			Name:      "register_value",
			Help:      "Last sampled value of a watched register",
		}, []string{"card", "register"}),
	}
}

type target struct {
	name string
	card *device.Card
}

type cardSnapshot struct {
	Name      string            `json:"name"`
	Endpoint  string            `json:"endpoint"`
	Serial    uint32            `json:"serial_number,omitempty"`
	Firmware  string            `json:"firmware,omitempty"`
	Hardware  string            `json:"hardware,omitempty"`
	MAC       string            `json:"mac,omitempty"`
	Up        bool              `json:"up"`
	LastSeen  *time.Time        `json:"last_seen,omitempty"`
	Registers map[string]uint16 `json:"registers,omitempty"`
}

type watcher struct {
	session   *session
	targets   []target
	registers []uint8
	metrics   *watchMetrics

	mu        sync.Mutex
	snapshots map[string]cardSnapshot
}

func runWatch(listen string, interval time.Duration, registerArgs []int) error {
	registers, err := watchRegisters(registerArgs)
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

	targets, err := watchTargets(ctx, s)
	if err != nil {
		return err
	}

	if listen == "" {
		listen = cfg.Watch.Listen
	}
	if interval <= 0 {
		interval = cfg.Watch.Poll()
	}

	reg := prometheus.NewRegistry()
	w := &watcher{
		session:   s,
		targets:   targets,
		registers: registers,
		metrics:   newWatchMetrics(reg),
		snapshots: make(map[string]cardSnapshot, len(targets)),
	}
	for _, t := range targets {
		w.snapshots[t.name] = cardSnapshot{Name: t.name, Endpoint: t.card.Endpoint()}
	}

	srv := &http.Server{Addr: listen, Handler: w.routes(reg)}
	errs := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	console.Info().
		Str("listen", listen).
		Dur("interval", interval).
		Int("cards", len(targets)).
		Msg("watching boards")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.pollAll(ctx)
	for {
		select {
		case <-ctx.Done():
			shutCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			return srv.Shutdown(shutCtx)
		case err := <-errs:
			return err
		case <-ticker.C:
			w.pollAll(ctx)
		}
	}
}

// watchTargets picks the boards to poll. An explicit --addr or --card
// wins, then the configured cards, then a one-shot network search.
func watchTargets(ctx context.Context, s *session) ([]target, error) {
	var targets []target
	switch {
	case opts.addr != "":
		card, err := cardFromAddr(opts.addr)
		if err != nil {
			return nil, err
		}
		targets = []target{{name: card.Endpoint(), card: card}}

	case opts.cardName != "":
		card, ok := cfg.Lookup(opts.cardName)
		if !ok {
			return nil, fmt.Errorf("card %q is not in the configuration", opts.cardName)
		}
		targets = []target{{name: opts.cardName, card: card}}

	case len(cfg.Cards) > 0:
		targets = make([]target, 0, len(cfg.Cards))
		for _, cc := range cfg.Cards {
			targets = append(targets, target{name: cc.Name, card: cc.Card()})
		}

	default:
		console.Info().Msg("no cards configured, searching the network")
		list, err := s.scanner.FindCards(ctx, cfg.Discovery.Wait())
		if err != nil {
			return nil, err
		}
		if list.Len() == 0 {
			return nil, discovery.ErrNoCards
		}
		for _, card := range list.Cards() {
			targets = append(targets, target{name: card.Endpoint(), card: card})
		}
	}

	if opts.timeout > 0 {
		for _, t := range targets {
			t.card.Timeout = opts.timeout
		}
	}
	return targets, nil
}

func watchRegisters(args []int) ([]uint8, error) {
	if len(args) == 0 {
		return nil, nil
	}
	registers := make([]uint8, 0, len(args))
	for _, a := range args {
		if a < 0 || a > wire.MaxRegisterAddr {
			return nil, fmt.Errorf("register address %d out of range (0 to %d)", a, wire.MaxRegisterAddr)
		}
		registers = append(registers, uint8(a))
	}
	return registers, nil
}

func (w *watcher) pollAll(ctx context.Context) {
	for _, t := range w.targets {
		if ctx.Err() != nil {
			return
		}
		w.poll(ctx, t)
	}
}

func (w *watcher) poll(ctx context.Context, t target) {
	start := time.Now()
	err := w.session.client.ReadSettings(ctx, t.card)
	w.metrics.pollDuration.WithLabelValues(t.name).Observe(time.Since(start).Seconds())

	if err != nil {
		w.metrics.pollsTotal.WithLabelValues(t.name, "error").Inc()
		w.metrics.boardUp.WithLabelValues(t.name).Set(0)
		w.markDown(t)
		console.Warn().Err(err).Str("card", t.name).Msg("poll failed")
		return
	}
	w.metrics.pollsTotal.WithLabelValues(t.name, "ok").Inc()
	w.metrics.boardUp.WithLabelValues(t.name).Set(1)

	var regs map[string]uint16
	if len(w.registers) > 0 {
		regs = make(map[string]uint16, len(w.registers))
		for _, addr := range w.registers {
			value, err := w.session.client.ReadRegister(ctx, t.card, addr)
			if err != nil {
				console.Warn().Err(err).Str("card", t.name).Uint8("register", addr).Msg("register read failed")
				continue
			}
			label := strconv.Itoa(int(addr))
			w.metrics.registerValue.WithLabelValues(t.name, label).Set(float64(value))
			regs[label] = value
		}
	}
	w.markUp(t, regs)
}

func (w *watcher) markUp(t target, regs map[string]uint16) {
	now := time.Now().UTC()
	snap := cardSnapshot{
		Name:      t.name,
		Endpoint:  t.card.Endpoint(),
		Serial:    t.card.SerialNumber,
		Firmware:  formatFirmware(t.card),
		Hardware:  formatVersion(t.card.HardwareVersion),
		MAC:       t.card.MAC.String(),
		Up:        true,
		LastSeen:  &now,
		Registers: regs,
	}
	w.mu.Lock()
	w.snapshots[t.name] = snap
	w.mu.Unlock()
}

// markDown flips the up flag but keeps the identity fields from the
// last successful poll so the API still names the board.
func (w *watcher) markDown(t target) {
	w.mu.Lock()
	snap := w.snapshots[t.name]
	snap.Name = t.name
	snap.Endpoint = t.card.Endpoint()
	snap.Up = false
	w.snapshots[t.name] = snap
	w.mu.Unlock()
}

func (w *watcher) routes(reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Get("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP)
	r.Get("/healthz", func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusOK)
		rw.Write([]byte("ok\n"))
	})
	r.Get("/api/v1/cards", w.serveCards)
	return r
}

func (w *watcher) serveCards(rw http.ResponseWriter, _ *http.Request) {
	w.mu.Lock()
	cards := make([]cardSnapshot, 0, len(w.targets))
	for _, t := range w.targets {
		if snap, ok := w.snapshots[t.name]; ok {
			cards = append(cards, snap)
		}
	}
	w.mu.Unlock()

	rw.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(rw).Encode(cards); err != nil {
		console.Warn().Err(err).Msg("card snapshot write failed")
	}
}
