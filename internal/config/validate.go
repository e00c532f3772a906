package config

import (
	"fmt"
	"net"
	"net/netip"
)

// Validate checks the configuration for contradictions. It is purely
// declarative and never mutates the configuration.
func Validate(cfg *Config) error {
	names := make(map[string]struct{})
	for i, c := range cfg.Cards {
		if c.Name == "" {
			return fmt.Errorf("cards[%d]: name is required", i)
		}
		if _, dup := names[c.Name]; dup {
			return fmt.Errorf("cards[%d]: duplicate name %q", i, c.Name)
		}
		names[c.Name] = struct{}{}

		addr, err := netip.ParseAddr(c.Addr)
		if err != nil {
			return fmt.Errorf("card %q: bad addr: %w", c.Name, err)
		}
		if !addr.Is4() {
			return fmt.Errorf("card %q: addr must be IPv4", c.Name)
		}
		if c.TimeoutMs < 0 {
			return fmt.Errorf("card %q: timeout_ms must not be negative", c.Name)
		}
	}

	if cfg.Discovery.WaitMs < 0 {
		return fmt.Errorf("discovery: wait_ms must not be negative")
	}
	for i, s := range cfg.Discovery.Interfaces {
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return fmt.Errorf("discovery: interfaces[%d]: %w", i, err)
		}
		if !addr.Is4() {
			return fmt.Errorf("discovery: interfaces[%d]: %q is not IPv4", i, s)
		}
	}

	if cfg.Watch.PollMs < 0 {
		return fmt.Errorf("watch: poll_ms must not be negative")
	}
	if cfg.Watch.Listen != "" {
		if _, _, err := net.SplitHostPort(cfg.Watch.Listen); err != nil {
			return fmt.Errorf("watch: bad listen address: %w", err)
		}
	}

	return nil
}
