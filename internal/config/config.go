// Package config loads the YAML configuration consumed by the command
// line tools. Loading is fail fast: a file that parses but contradicts
// itself is rejected before any socket is opened.
package config

import (
	"fmt"
	"net/netip"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gigex-project/gigex-go/pkg/device"
)

// Config is the root of the configuration file.
type Config struct {
	Cards     []CardConfig    `yaml:"cards"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Log       LogConfig       `yaml:"log"`
	Watch     WatchConfig     `yaml:"watch"`
}

// CardConfig names a board with a known address so commands can skip
// discovery.
type CardConfig struct {
	Name        string `yaml:"name"`
	Addr        string `yaml:"addr"`
	ControlPort uint16 `yaml:"control_port"`
	TimeoutMs   int    `yaml:"timeout_ms"`
}

// DiscoveryConfig tunes the multicast search.
type DiscoveryConfig struct {
	WaitMs int `yaml:"wait_ms"`

	// Interfaces restricts probing to these local addresses. Empty
	// means every IPv4 interface.
	Interfaces []string `yaml:"interfaces"`
}

// LogConfig selects the event log destination.
type LogConfig struct {
	// File receives the CBOR event log. Empty disables event logging.
	File string `yaml:"file"`

	// Verbose mirrors protocol events onto the console.
	Verbose bool `yaml:"verbose"`
}

// WatchConfig tunes the watch command's HTTP endpoint.
type WatchConfig struct {
	Listen string `yaml:"listen"`
	PollMs int    `yaml:"poll_ms"`
}

// Load reads, parses, validates and normalizes the file at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	Normalize(cfg)
	return cfg, nil
}

// Lookup resolves a configured card by name.
func (c *Config) Lookup(name string) (*device.Card, bool) {
	for _, cc := range c.Cards {
		if cc.Name == name {
			return cc.Card(), true
		}
	}
	return nil, false
}

// Card converts the entry to a runtime card. Call it only after
// Validate and Normalize have run.
func (c CardConfig) Card() *device.Card {
	card := device.NewCard(netip.MustParseAddr(c.Addr), c.ControlPort)
	card.Timeout = time.Duration(c.TimeoutMs) * time.Millisecond
	return card
}

// Wait returns the discovery wait budget.
func (d DiscoveryConfig) Wait() time.Duration {
	return time.Duration(d.WaitMs) * time.Millisecond
}

// Addrs returns the configured interface restriction as parsed
// addresses. Call it only after Validate has run.
func (d DiscoveryConfig) Addrs() []netip.Addr {
	if len(d.Interfaces) == 0 {
		return nil
	}
	out := make([]netip.Addr, 0, len(d.Interfaces))
	for _, s := range d.Interfaces {
		out = append(out, netip.MustParseAddr(s))
	}
	return out
}

// Poll returns the watch poll interval.
func (w WatchConfig) Poll() time.Duration {
	return time.Duration(w.PollMs) * time.Millisecond
}
