package discovery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gigex-project/gigex-go/pkg/device"
	"github.com/gigex-project/gigex-go/pkg/discovery/mocks"
)

func TestSplitLocation(t *testing.T) {
	tests := []struct {
		name             string
		loc              string
		host, port, path string
		ok               bool
	}{
		{"with port", "http://192.168.1.77:80/desc.xml", "192.168.1.77", "80", "desc.xml", true},
		{"default port", "http://192.168.1.77/desc.xml", "192.168.1.77", "80", "desc.xml", true},
		{"nested path", "http://10.0.0.9:8080/upnp/desc.xml", "10.0.0.9", "8080", "upnp/desc.xml", true},
		{"no path", "http://192.168.1.77:80", "", "", "", false},
		{"wrong scheme", "ftp://192.168.1.77/desc.xml", "", "", "", false},
		{"empty host", "http:///desc.xml", "", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port, path, ok := splitLocation(tt.loc)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.port, port)
			assert.Equal(t, tt.path, path)
		})
	}
}

func TestParseControlURL(t *testing.T) {
	tests := []struct {
		name string
		body string
		addr string
		port uint16
		ok   bool
	}{
		{
			"embedded in descriptor",
			"<service><controlURL>192.168.1.77:20482/control</controlURL></service>",
			"192.168.1.77", 20482, true,
		},
		{
			"port terminated by tag",
			"<controlURL>10.0.0.9:80</controlURL>",
			"10.0.0.9", 80, true,
		},
		{
			"octet wraps to eight bits",
			"<controlURL>300.168.1.77:80</controlURL>",
			"44.168.1.77", 80, true,
		},
		{"missing element", "<root/>", "", 0, false},
		{"truncated quad", "<controlURL>192.168.1</controlURL>", "", 0, false},
		{"no port", "<controlURL>192.168.1.77/control</controlURL>", "", 0, false},
		{"no digits", "<controlURL>board.local:80</controlURL>", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, port, ok := parseControlURL(tt.body)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, netip.MustParseAddr(tt.addr), addr)
			assert.Equal(t, tt.port, port)
		})
	}
}

func TestFetchDescriptorBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()
	host, port, path, ok := splitLocation(ts.URL + "/desc.xml")
	require.True(t, ok)

	s := New(Config{Settings: mocks.NewMockSettingsReader(t)})
	_, err := s.fetchDescriptor(context.Background(), host, port, path, time.Second)
	assert.Error(t, err)
}

// notifyFor builds a qualifying push notification pointing at url.
func notifyFor(url string) string {
	return "NOTIFY * HTTP/1.1\r\n" +
		"SERVER: GigExpedite2\r\n" +
		"LOCATION: " + url + "\r\n" +
		"\r\n"
}

func TestHandleResponseAddsCard(t *testing.T) {
	descriptor := "<root><device><controlURL>10.9.8.7:20482/control</controlURL></device></root>"
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(descriptor))
	}))
	defer ts.Close()

	reader := mocks.NewMockSettingsReader(t)
	reader.EXPECT().ReadSettings(mock.Anything, mock.Anything).Return(nil).Once()
	s := New(Config{Settings: reader})

	list := &device.List{}
	s.handleResponse(context.Background(), notifyFor(ts.URL+"/desc.xml"), time.Second, list)

	require.Equal(t, 1, list.Len())
	card := list.Cards()[0]
	assert.Equal(t, netip.MustParseAddr("10.9.8.7"), card.Addr)
	assert.Equal(t, uint16(20482), card.ControlPort)
	assert.Equal(t, device.DefaultTimeout, card.Timeout)
}

func TestHandleResponseDedup(t *testing.T) {
	// Two descriptors with different bodies resolving to the same
	// control endpoint must produce a single inventory entry.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/one.xml":
			w.Write([]byte("<a><controlURL>10.1.2.3:20482/x</controlURL></a>"))
		default:
			w.Write([]byte("<b><controlURL>10.1.2.3:20482/y</controlURL><extra/></b>"))
		}
	}))
	defer ts.Close()

	reader := mocks.NewMockSettingsReader(t)
	reader.EXPECT().ReadSettings(mock.Anything, mock.Anything).Return(nil).Once()
	s := New(Config{Settings: reader})

	list := &device.List{}
	s.handleResponse(context.Background(), notifyFor(ts.URL+"/one.xml"), time.Second, list)
	s.handleResponse(context.Background(), notifyFor(ts.URL+"/two.xml"), time.Second, list)

	assert.Equal(t, 1, list.Len())
}

func TestHandleResponseRollback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<controlURL>10.1.2.3:20482/x</controlURL>"))
	}))
	defer ts.Close()

	reader := mocks.NewMockSettingsReader(t)
	reader.EXPECT().ReadSettings(mock.Anything, mock.Anything).Return(errors.New("no route")).Once()
	s := New(Config{Settings: reader})

	list := &device.List{}
	s.handleResponse(context.Background(), notifyFor(ts.URL+"/desc.xml"), time.Second, list)

	assert.Equal(t, 0, list.Len(), "failed settings query must remove the speculative entry")
}

func TestHandleResponseRejectsUnqualified(t *testing.T) {
	tests := []struct {
		name string
		resp string
	}{
		{"wrong prefix", "M-SEARCH * HTTP/1.1\r\nSERVER: GigExpedite2\r\nLOCATION: http://127.0.0.1:9/d.xml\r\n"},
		{"missing marker", "HTTP/1.1 200 OK\r\nLOCATION: http://127.0.0.1:9/d.xml\r\n"},
		{"missing location", "NOTIFY * HTTP/1.1\r\nSERVER: GigExpedite2\r\n\r\n"},
		{"wrong status", "HTTP/1.1 404 Not Found\r\nSERVER: GigExpedite2\r\nLOCATION: http://127.0.0.1:9/d.xml\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No settings expectations: a rejected response must never
			// reach the settings query.
			s := New(Config{Settings: mocks.NewMockSettingsReader(t)})
			list := &device.List{}
			s.handleResponse(context.Background(), tt.resp, time.Second, list)
			assert.Equal(t, 0, list.Len())
		})
	}
}
