package config

import (
	"time"

	"github.com/gigex-project/gigex-go/pkg/device"
	"github.com/gigex-project/gigex-go/pkg/discovery"
)

// Defaults applied to fields the file leaves unset.
const (
	DefaultWatchListen = ":9120"
	DefaultWatchPoll   = time.Second
)

// Normalize fills unset fields with their defaults. It may mutate the
// configuration and must run only after Validate.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	for i := range cfg.Cards {
		c := &cfg.Cards[i]
		if c.ControlPort == 0 {
			c.ControlPort = device.DefaultControlPort
		}
		if c.TimeoutMs == 0 {
			c.TimeoutMs = int(device.DefaultTimeout / time.Millisecond)
		}
	}

	if cfg.Discovery.WaitMs == 0 {
		cfg.Discovery.WaitMs = int(discovery.DefaultWait / time.Millisecond)
	}

	if cfg.Watch.Listen == "" {
		cfg.Watch.Listen = DefaultWatchListen
	}
	if cfg.Watch.PollMs == 0 {
		cfg.Watch.PollMs = int(DefaultWatchPoll / time.Millisecond)
	}
}
