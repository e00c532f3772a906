package config

import (
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gigex-project/gigex-go/pkg/device"
)

func writeConfig(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gigex.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	doc := `
cards:
  - name: bench
    addr: 192.168.1.77
  - name: rack
    addr: 10.0.0.9
    control_port: 30000
    timeout_ms: 2500
discovery:
  wait_ms: 3000
log:
  file: events.glog
  verbose: true
watch:
  listen: "127.0.0.1:9120"
`
	cfg, err := Load(writeConfig(t, doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	bench, ok := cfg.Lookup("bench")
	if !ok {
		t.Fatal("card bench not found")
	}
	if bench.ControlPort != device.DefaultControlPort {
		t.Errorf("bench port = %d, want default %d", bench.ControlPort, device.DefaultControlPort)
	}
	if bench.Timeout != device.DefaultTimeout {
		t.Errorf("bench timeout = %v, want default %v", bench.Timeout, device.DefaultTimeout)
	}

	rack, ok := cfg.Lookup("rack")
	if !ok {
		t.Fatal("card rack not found")
	}
	if rack.Addr != netip.MustParseAddr("10.0.0.9") {
		t.Errorf("rack addr = %v", rack.Addr)
	}
	if rack.ControlPort != 30000 {
		t.Errorf("rack port = %d, want 30000", rack.ControlPort)
	}
	if rack.Timeout != 2500*time.Millisecond {
		t.Errorf("rack timeout = %v, want 2.5s", rack.Timeout)
	}

	if got := cfg.Discovery.Wait(); got != 3*time.Second {
		t.Errorf("discovery wait = %v, want 3s", got)
	}
	if !cfg.Log.Verbose || cfg.Log.File != "events.glog" {
		t.Errorf("log config = %+v", cfg.Log)
	}
	if cfg.Watch.Listen != "127.0.0.1:9120" {
		t.Errorf("watch listen = %q", cfg.Watch.Listen)
	}
	if got := cfg.Watch.Poll(); got != DefaultWatchPoll {
		t.Errorf("watch poll = %v, want default %v", got, DefaultWatchPoll)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	doc := `
cards:
  - name: bench
    addr: 192.168.1.77
  - name: bench
    addr: 192.168.1.78
`
	_, err := Load(writeConfig(t, doc))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("error %q does not mention the duplicate", err)
	}
}

func TestValidate(t *testing.T) {
	card := func(name, addr string) CardConfig {
		return CardConfig{Name: name, Addr: addr}
	}

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"empty", Config{}, ""},
		{"plain card", Config{Cards: []CardConfig{card("a", "10.0.0.1")}}, ""},
		{"unnamed card", Config{Cards: []CardConfig{card("", "10.0.0.1")}}, "name is required"},
		{"duplicate name", Config{Cards: []CardConfig{card("a", "10.0.0.1"), card("a", "10.0.0.2")}}, "duplicate"},
		{"bad addr", Config{Cards: []CardConfig{card("a", "not-an-ip")}}, "bad addr"},
		{"ipv6 addr", Config{Cards: []CardConfig{card("a", "::1")}}, "must be IPv4"},
		{"negative timeout", Config{Cards: []CardConfig{{Name: "a", Addr: "10.0.0.1", TimeoutMs: -1}}}, "timeout_ms"},
		{"negative wait", Config{Discovery: DiscoveryConfig{WaitMs: -5}}, "wait_ms"},
		{"bad interface", Config{Discovery: DiscoveryConfig{Interfaces: []string{"bogus"}}}, "interfaces[0]"},
		{"ipv6 interface", Config{Discovery: DiscoveryConfig{Interfaces: []string{"::1"}}}, "not IPv4"},
		{"bad listen", Config{Watch: WatchConfig{Listen: "no-port-here"}}, "listen"},
		{"negative poll", Config{Watch: WatchConfig{PollMs: -1}}, "poll_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Cards:     []CardConfig{{Name: "a", Addr: "10.0.0.1", ControlPort: 7, TimeoutMs: 50}},
		Discovery: DiscoveryConfig{WaitMs: 10},
		Watch:     WatchConfig{Listen: ":1234", PollMs: 20},
	}
	Normalize(cfg)

	if cfg.Cards[0].ControlPort != 7 || cfg.Cards[0].TimeoutMs != 50 {
		t.Errorf("card defaults overwrote explicit values: %+v", cfg.Cards[0])
	}
	if cfg.Discovery.WaitMs != 10 {
		t.Errorf("wait_ms = %d, want 10", cfg.Discovery.WaitMs)
	}
	if cfg.Watch.Listen != ":1234" || cfg.Watch.PollMs != 20 {
		t.Errorf("watch defaults overwrote explicit values: %+v", cfg.Watch)
	}

	Normalize(nil)
}

func TestDiscoveryAddrs(t *testing.T) {
	d := DiscoveryConfig{Interfaces: []string{"127.0.0.1", "192.168.1.5"}}
	addrs := d.Addrs()
	if len(addrs) != 2 || addrs[0] != netip.MustParseAddr("127.0.0.1") || addrs[1] != netip.MustParseAddr("192.168.1.5") {
		t.Errorf("Addrs = %v", addrs)
	}

	if got := (DiscoveryConfig{}).Addrs(); got != nil {
		t.Errorf("empty restriction should yield nil, got %v", got)
	}
}
